// Package serverping provides the Pinger command, which sends an HTTP request
// to the configured server and reports the response status.
package serverping

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/tfsutils/internal/ctxlog"
	"github.com/specialistvlad/tfsutils/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client sends the requests. Nil selects a new http.Client.
	Client *http.Client
}

// Settings are the configured properties of a Pinger command.
type Settings struct {
	// Path is resolved against the server URI. Empty pings the server URI.
	Path    string
	Method  string
	Timeout time.Duration
	// ExpectStatus lists the accepted status codes. Empty accepts any 2xx.
	ExpectStatus []int
}

const defaultTimeout = 10 * time.Second

// Pinger checks that the server answers.
type Pinger struct {
	env      registry.Environment
	settings *Settings
	client   *http.Client
}

// ValidateArguments implements registry.Handler. An optional argument
// overrides Path.
func (p *Pinger) ValidateArguments(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expected at most one path argument, got %d", len(args))
	}
	return nil
}

// Invoke implements registry.Handler.
func (p *Pinger) Invoke(ctx context.Context, args []string) error {
	target, err := p.target(args)
	if err != nil {
		return err
	}
	method := strings.ToUpper(strings.TrimSpace(p.settings.Method))
	if method == "" {
		method = http.MethodGet
	}
	timeout := p.settings.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := ctxlog.FromContext(ctx).With("method", method, "url", target.Redacted())
	logger.Debug("Making HTTP request.")

	req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Info("Received HTTP response.", "status", resp.Status, "elapsed", time.Since(start))
	fmt.Fprintf(p.env.Out, "%s %s: %s\n", method, target.Redacted(), resp.Status)

	if !p.accepted(resp.StatusCode) {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func (p *Pinger) target(args []string) (*url.URL, error) {
	base := p.env.ServerURI
	if base == nil {
		return nil, fmt.Errorf("server URI is required")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("cannot ping %s server %s", base.Scheme, base.Redacted())
	}
	path := p.settings.Path
	if len(args) == 1 {
		path = args[0]
	}
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	return base.ResolveReference(ref), nil
}

func (p *Pinger) accepted(code int) bool {
	if len(p.settings.ExpectStatus) == 0 {
		return code >= 200 && code < 300
	}
	return slices.Contains(p.settings.ExpectStatus, code)
}

func (m *Module) newPinger(env registry.Environment, settings any) (registry.Handler, error) {
	s, ok := settings.(*Settings)
	if !ok {
		return nil, fmt.Errorf("unexpected settings type %T", settings)
	}
	client := m.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Pinger{env: env, settings: s, client: client}, nil
}

// Register registers the handler and its settings type.
func (m *Module) Register(r *registry.Registry) {
	settings := r.RegisterSettings(Settings{})
	r.RegisterHandler(registry.NameOf(Pinger{}), &registry.RegisteredHandler{
		New:         m.newPinger,
		Settings:    settings,
		Description: "check that the server answers",
	})
}
