package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSettings struct {
	Message string
}

type sampleHandler struct{}

func (sampleHandler) ValidateArguments([]string) error       { return nil }
func (sampleHandler) Invoke(context.Context, []string) error { return nil }

func newSample(Environment, any) (Handler, error) {
	return sampleHandler{}, nil
}

func registeredSample(settings string) *RegisteredHandler {
	return &RegisteredHandler{New: newSample, Settings: settings}
}

func TestNameOf(t *testing.T) {
	t.Parallel()

	const pkg = "github.com/specialistvlad/tfsutils/internal/registry"
	assert.Equal(t, pkg+".sampleSettings", NameOf(sampleSettings{}))
	assert.Equal(t, pkg+".sampleSettings", NameOf(&sampleSettings{}))
	assert.Equal(t, "int", NameOf(0))
	assert.Empty(t, NameOf(nil))
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := New()
	settingsName := r.RegisterSettings(sampleSettings{})
	r.RegisterHandler("example.com/b.Handler", registeredSample(settingsName))
	r.RegisterHandler("example.com/a.Handler", registeredSample(""))

	// --- Act ---
	h, ok := r.Handler("example.com/b.Handler")
	s, sok := r.Settings(settingsName)

	// --- Assert ---
	require.True(t, ok)
	assert.Equal(t, settingsName, h.Settings)
	require.True(t, sok)
	v := s.New()
	require.IsType(t, &sampleSettings{}, v)
	assert.NotSame(t, v, s.New(), "every call returns a fresh value")
	assert.Equal(t, []string{"example.com/a.Handler", "example.com/b.Handler"}, r.HandlerNames())
	assert.Equal(t, []string{settingsName}, r.SettingsNames())
	require.NoError(t, r.Validate(context.Background()))
}

func TestRegistry_PanicsOnProgrammerErrors(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterHandler("x.H", registeredSample(""))
	r.RegisterSettings(&sampleSettings{})

	assert.Panics(t, func() { r.RegisterHandler("x.H", registeredSample("")) })
	assert.Panics(t, func() { r.RegisterHandler("x.Nil", &RegisteredHandler{}) })
	assert.Panics(t, func() { r.RegisterSettings(sampleSettings{}) })
	assert.Panics(t, func() { r.RegisterSettings(42) })
	assert.Panics(t, func() { r.RegisterSettingsFactory("x.S", nil) })
}

func TestRegistry_Validate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := New()
	r.RegisterHandler("x.Orphan", registeredSample("x.MissingSettings"))
	r.RegisterSettingsFactory("x.NotAStruct", func() any { return new(int) })

	// --- Act ---
	err := r.Validate(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry validation failed")
	assert.Contains(t, err.Error(), "handler 'x.Orphan': declares settings type 'x.MissingSettings' which is not registered")
	assert.Contains(t, err.Error(), "settings 'x.NotAStruct': factory must return a non-nil pointer to a struct, got *int")
}
