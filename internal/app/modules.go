package app

import (
	"github.com/specialistvlad/tfsutils/internal/registry"
	"github.com/specialistvlad/tfsutils/modules/commentsearch"
	"github.com/specialistvlad/tfsutils/modules/print"
	"github.com/specialistvlad/tfsutils/modules/serverping"
)

// coreModules is the definitive list of all modules that are compiled into
// the tfsutils binary.
var coreModules = []registry.Module{
	&print.Module{},
	&commentsearch.Module{},
	&serverping.Module{},
}
