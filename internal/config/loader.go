package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/fsutil"
)

// ErrConflictingServerURI is returned when merged documents disagree on the
// server address.
var ErrConflictingServerURI = errors.New("conflicting server URIs")

// Loader discovers configuration documents and merges them into one Model
// using the parser registered for each file extension.
type Loader struct {
	parsers map[string]Parser
}

// NewLoader creates a loader that understands every extension declared by
// parsers. A later parser wins when two declare the same extension.
func NewLoader(parsers ...Parser) *Loader {
	l := &Loader{parsers: make(map[string]Parser)}
	for _, p := range parsers {
		for _, ext := range p.Extensions() {
			l.parsers[strings.ToLower(ext)] = p
		}
	}
	return l
}

// Extensions returns every extension the loader can parse.
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.parsers))
	for ext := range l.parsers {
		exts = append(exts, ext)
	}
	return exts
}

// Load reads each path (a file or a directory searched recursively),
// parses every supported document and merges the results in order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Config loader started.", "path_count", len(paths))

	if len(l.parsers) == 0 {
		return nil, errors.New("no configuration parsers registered")
	}

	merged := &Model{}
	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, l.Extensions()...)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logger.Warn("No configuration files found in path.", "path", path)
			continue
		}
		logger.Debug("Discovered configuration files.", "path", path, "files", files)

		for _, file := range files {
			model, err := l.LoadFile(ctx, file)
			if err != nil {
				return nil, err
			}
			if err := merge(merged, model, file); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Config loading complete.", "commands", len(merged.Commands), "server_uri", merged.ServerURI)
	return merged, nil
}

// LoadFile parses a single document with the parser matching its extension.
func (l *Loader) LoadFile(ctx context.Context, file string) (*Model, error) {
	parser, ok := l.parsers[strings.ToLower(filepath.Ext(file))]
	if !ok {
		return nil, fmt.Errorf("no parser for configuration file %s", file)
	}

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", file, err)
	}

	model, err := parser.Parse(ctx, src, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", file, err)
	}
	ctxlog.FromContext(ctx).Debug("Parsed configuration file.", "file", file, "commands", len(model.Commands))
	return model, nil
}

func merge(dst, src *Model, file string) error {
	if src.ServerURI != "" {
		if dst.ServerURI != "" && dst.ServerURI != src.ServerURI {
			return fmt.Errorf("%w: %q in %s, %q before", ErrConflictingServerURI, src.ServerURI, file, dst.ServerURI)
		}
		dst.ServerURI = src.ServerURI
	}
	dst.Commands = append(dst.Commands, src.Commands...)
	return nil
}
