package commentsearch

import (
	"fmt"
	"time"

	"github.com/specialistvlad/tfsutils/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Connect opens the history. Nil selects ConnectFile.
	Connect Connector
	// Now is the clock used for date defaults. Nil selects time.Now.
	Now func() time.Time
}

// Register registers the handler and its settings type.
func (m *Module) Register(r *registry.Registry) {
	settings := r.RegisterSettings(Settings{})
	r.RegisterHandler(registry.NameOf(Searcher{}), &registry.RegisteredHandler{
		New:         m.newSearcher,
		Settings:    settings,
		Description: "search changeset comments for a keyword",
	})
}

func (m *Module) newSearcher(env registry.Environment, settings any) (registry.Handler, error) {
	s, ok := settings.(*Settings)
	if !ok {
		return nil, fmt.Errorf("unexpected settings type %T", settings)
	}
	if env.ServerURI == nil {
		return nil, fmt.Errorf("server URI is required")
	}
	connect := m.Connect
	if connect == nil {
		connect = ConnectFile
	}
	now := m.Now
	if now == nil {
		now = time.Now
	}
	return &Searcher{env: env, settings: s, connect: connect, now: now}, nil
}
