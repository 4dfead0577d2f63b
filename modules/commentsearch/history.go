package commentsearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedServer is returned by a Connector that cannot reach the
// configured server.
var ErrUnsupportedServer = errors.New("unsupported server")

// WorkItem is a work item associated with a changeset.
type WorkItem struct {
	Type  string `yaml:"type"`
	Title string `yaml:"title"`
}

// Changeset is one entry of the version control history.
type Changeset struct {
	ID           int        `yaml:"id"`
	Comment      string     `yaml:"comment"`
	Owner        string     `yaml:"owner"`
	CreationDate time.Time  `yaml:"date"`
	Files        []string   `yaml:"files"`
	WorkItems    []WorkItem `yaml:"workItems"`
}

// Query selects the changesets returned by History.
type Query struct {
	Path       string
	Recursion  RecursionType
	From, To   time.Time
	Collection uuid.UUID
}

// History is a connected view of a version control history.
type History interface {
	QueryHistory(ctx context.Context, q Query) ([]Changeset, error)
	Close() error
}

// Connector opens the history of the server the command is configured for.
type Connector func(ctx context.Context, server *url.URL) (History, error)

// ConnectFile serves "file" URLs pointing at a YAML history export:
//
//	collections:
//	  - id: 6ba7b810-9dad-11d1-80b4-00c04fd430c8
//	    changesets:
//	      - id: 42
//	        comment: Fix login
//	        owner: alice
//	        date: 2024-03-01T10:00:00Z
//	        files: [$/product1/branch1/login.go]
//	        workItems:
//	          - {type: Task, title: Login fails}
func ConnectFile(_ context.Context, server *url.URL) (History, error) {
	if server == nil || server.Scheme != "file" {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedServer, server)
	}
	src, err := os.ReadFile(server.Path)
	if err != nil {
		return nil, fmt.Errorf("reading history export: %w", err)
	}
	var export historyExport
	if err := yaml.Unmarshal(src, &export); err != nil {
		return nil, fmt.Errorf("parsing history export %s: %w", server.Path, err)
	}
	return &export, nil
}

type historyExport struct {
	Collections []struct {
		ID         uuid.UUID   `yaml:"id"`
		Changesets []Changeset `yaml:"changesets"`
	} `yaml:"collections"`
}

// QueryHistory implements History. A nil collection ID searches every
// collection of the export.
func (h *historyExport) QueryHistory(ctx context.Context, q Query) ([]Changeset, error) {
	var out []Changeset
	for _, col := range h.Collections {
		if q.Collection != uuid.Nil && col.ID != q.Collection {
			continue
		}
		for _, cs := range col.Changesets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if cs.CreationDate.Before(q.From) || cs.CreationDate.After(q.To) {
				continue
			}
			if !touchesPath(cs.Files, q.Path, q.Recursion) {
				continue
			}
			out = append(out, cs)
		}
	}
	return out, nil
}

// Close implements History.
func (h *historyExport) Close() error { return nil }

// touchesPath reports whether any file lies under root at the depth allowed
// by recursion. Server paths compare case-insensitively.
func touchesPath(files []string, root string, recursion RecursionType) bool {
	fold := cases.Fold()
	root = strings.TrimSuffix(fold.String(root), "/")
	for _, f := range files {
		f = fold.String(strings.TrimSpace(f))
		if f == root {
			return true
		}
		if !strings.HasPrefix(f, root+"/") {
			continue
		}
		switch recursion {
		case RecursionFull:
			return true
		case RecursionOneLevel:
			if path.Dir(f) == root {
				return true
			}
		}
	}
	return false
}
