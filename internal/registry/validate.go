package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/tfsutils/internal/ctxlog"
)

// Validate performs a parity check between registered handlers and settings
// types: every settings type a handler declares must be registered, and
// every settings factory must produce a pointer to a struct.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.SettingsNames() {
		v := r.settings[name].New()
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("settings '%s': factory must return a non-nil pointer to a struct, got %T", name, v))
		}
	}

	for _, name := range r.HandlerNames() {
		h := r.handlers[name]
		if h.Settings == "" {
			logger.Debug("Handler accepts any settings type.", "handler", name)
			continue
		}
		if _, ok := r.settings[h.Settings]; !ok {
			errs = append(errs, fmt.Sprintf("handler '%s': declares settings type '%s' which is not registered", name, h.Settings))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
