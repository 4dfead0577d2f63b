package integration_tests

import (
	"context"

	"github.com/specialistvlad/tfsutils/internal/registry"
	"github.com/specialistvlad/tfsutils/internal/testutil"
)

type findSettings struct {
	Keyword string
	Paths   []string
	Limit   int
}

type findHandler struct {
	settings *findSettings
}

func (h *findHandler) ValidateArguments([]string) error       { return nil }
func (h *findHandler) Invoke(context.Context, []string) error { return nil }

var (
	findType         = registry.NameOf(findHandler{})
	findSettingsType = registry.NameOf(findSettings{})
)

func newFindModule() *testutil.SimpleModule {
	return &testutil.SimpleModule{
		HandlerName: findType,
		Handler: &registry.RegisteredHandler{
			New: func(_ registry.Environment, settings any) (registry.Handler, error) {
				return &findHandler{settings: settings.(*findSettings)}, nil
			},
			Description: "find things",
		},
		Settings: findSettings{},
	}
}
