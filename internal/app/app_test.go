package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/tfsutils/internal/app"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"github.com/specialistvlad/tfsutils/internal/testutil"
	"github.com/specialistvlad/tfsutils/modules/print"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const printerType = "github.com/specialistvlad/tfsutils/modules/print.Printer"
const printerSettingsType = "github.com/specialistvlad/tfsutils/modules/print.Settings"

func printerConfig(alias, message string) string {
	return `<configuration>
  <TfsUtils>
    <commands ServerUri="http://tfs:8080/tfs/">
      <command Type="` + printerType + `" Alias="` + alias + `">
        <properties Type="` + printerSettingsType + `">
          <Message>` + message + `</Message>
        </properties>
      </command>
      <command Type="` + testutil.NoOpType + `">
        <properties Type="` + testutil.NoOpSettingsType + `">
          <Count>3</Count>
        </properties>
      </command>
    </commands>
  </TfsUtils>
</configuration>`
}

func modules() []registry.Module {
	return []registry.Module{&print.Module{}, &testutil.NoOpModule{}}
}

func TestNewApp_LoadsCommands(t *testing.T) {
	t.Parallel()

	// --- Arrange & Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{
		"tfsutils.config": printerConfig("say", "hi"),
	}, modules()...)

	// --- Assert ---
	require.NoError(t, result.Err)
	reg := result.App.Commands()
	assert.Equal(t, []string{"say", "NoOpHandler"}, reg.Names())
	assert.Equal(t, "http://tfs:8080/tfs/", reg.ServerURI().String())

	noop, ok := reg.Resolve("noophandler")
	require.True(t, ok)
	assert.Equal(t, 3, noop.Settings.(*testutil.NoOpSettings).Count)
}

func TestNewApp_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "malformed document",
			files:   map[string]string{"a.xml": "<TfsUtils><commands>"},
			wantErr: "failed to load configuration",
		},
		{
			name: "unknown handler",
			files: map[string]string{"a.xml": `<TfsUtils><commands ServerUri="http://tfs/">
<command Type="nope.Handler"><properties Type="` + testutil.NoOpSettingsType + `"/></command>
</commands></TfsUtils>`},
			wantErr: "cannot resolve handler type 'nope.Handler'",
		},
		{
			name: "duplicate across files",
			files: map[string]string{
				"a.xml": printerConfig("dup", "a"),
				"b.xml": printerConfig("DUP", "b"),
			},
			wantErr: "duplicate command",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := testutil.RunIntegrationTest(t, tc.files, modules()...)

			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), tc.wantErr)
			assert.Nil(t, result.App)
		})
	}
}

func TestDispatch_RunsCommand(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	result := testutil.RunIntegrationTest(t, map[string]string{
		"tfsutils.config": printerConfig("say", "hello there"),
	}, modules()...)
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Dispatch(context.Background(), "SAY", nil)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "hello there\n", result.Output.String())
	testutil.AssertCommandRan(t, result, "say")
}

func TestDispatch_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		command string
		message string
		wantErr string
		wantArg bool
	}{
		{name: "no command", command: "  ", message: "x", wantErr: "no command given"},
		{name: "unknown command", command: "missing", message: "x", wantErr: "unknown command 'missing'"},
		{name: "rejected arguments", command: "say", message: "", wantErr: "invalid arguments for command 'say'", wantArg: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			result := testutil.RunIntegrationTest(t, map[string]string{
				"tfsutils.config": printerConfig("say", tc.message),
			}, modules()...)
			require.NoError(t, result.Err)

			// --- Act ---
			err := result.App.Dispatch(context.Background(), tc.command, nil)

			// --- Assert ---
			var usageErr *app.UsageError
			require.True(t, errors.As(err, &usageErr), "expected a UsageError, got %v", err)
			assert.EqualError(t, err, usageErr.Error())
			assert.Contains(t, usageErr.Error(), tc.wantErr)
			assert.Equal(t, tc.wantArg, usageErr.Unwrap() != nil)
			assert.Len(t, usageErr.Commands, 2)

			var usage strings.Builder
			usageErr.WriteUsage(&usage, "tfsutils")
			assert.Contains(t, usage.String(), "Usage: tfsutils [options] commandname [arguments]")
			assert.Contains(t, usage.String(), "command list:\n\tsay\tprint a message\n\tNoOpHandler\tdoes nothing\n")
			assert.Empty(t, result.Output.String())
		})
	}
}

func TestDispatch_InvokeErrorIsWrapped(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	boom := errors.New("boom")
	module := &testutil.SimpleModule{
		HandlerName: "test.Failing",
		Handler: &registry.RegisteredHandler{
			New: func(registry.Environment, any) (registry.Handler, error) {
				return failingHandler{err: boom}, nil
			},
		},
		Settings: testutil.NoOpSettings{},
	}
	result := testutil.RunIntegrationTest(t, map[string]string{
		"a.xml": `<TfsUtils><commands ServerUri="http://tfs/">
<command Type="test.Failing" Alias="fail"><properties Type="` + testutil.NoOpSettingsType + `"/></command>
</commands></TfsUtils>`,
	}, module)
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Dispatch(context.Background(), "fail", nil)

	// --- Assert ---
	require.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "command 'fail' failed: boom")
}

type failingHandler struct{ err error }

func (h failingHandler) ValidateArguments([]string) error       { return nil }
func (h failingHandler) Invoke(context.Context, []string) error { return h.err }

func TestReload_FailureKeepsPreviousCommands(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	result := testutil.RunIntegrationTest(t, map[string]string{
		"tfsutils.config": printerConfig("say", "hi"),
	}, modules()...)
	require.NoError(t, result.Err)
	before := result.App.Commands()

	testutil.WriteFiles(t, result.Dir, map[string]string{"tfsutils.config": "<TfsUtils><commands"})

	// --- Act ---
	reg, err := result.App.Reload(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.Nil(t, reg)
	assert.Same(t, before, result.App.Commands())
}

func TestReload_PublishesNewCommands(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	result := testutil.RunIntegrationTest(t, map[string]string{
		"tfsutils.config": printerConfig("say", "hi"),
	}, modules()...)
	require.NoError(t, result.Err)

	testutil.WriteFiles(t, result.Dir, map[string]string{"tfsutils.config": printerConfig("shout", "HI")})

	// --- Act ---
	reg, err := result.App.Reload(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Same(t, reg, result.App.Commands())
	_, ok := reg.Resolve("shout")
	assert.True(t, ok)
	_, ok = reg.Resolve("say")
	assert.False(t, ok)
}

func TestRun_DispatchesConfiguredCommand(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	result := testutil.RunIntegrationTestWithConfig(t, map[string]string{
		"tfsutils.config": printerConfig("say", "unused"),
	}, func(cfg *app.Config) {
		cfg.Command = "say"
		cfg.Args = []string{"from", "args"}
	}, modules()...)
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "from args\n", result.Output.String())
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	result := testutil.RunIntegrationTestWithConfig(t, map[string]string{
		"tfsutils.config": printerConfig("say", "hi"),
	}, func(cfg *app.Config) {
		cfg.Watch = true
	}, modules()...)
	require.NoError(t, result.Err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- result.App.Run(ctx) }()

	// Give the watcher time to register the directory.
	require.Eventually(t, func() bool {
		return strings.Contains(result.LogOutput.String(), "Watching configuration for changes.")
	}, 2*time.Second, 10*time.Millisecond)

	// --- Act ---
	path := filepath.Join(result.Dir, "tfsutils.config")
	require.NoError(t, os.WriteFile(path, []byte(printerConfig("shout", "HI")), 0644))

	// --- Assert ---
	require.Eventually(t, func() bool {
		_, ok := result.App.Commands().Resolve("shout")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatch_BrokenEditKeepsCommands(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	result := testutil.RunIntegrationTestWithConfig(t, map[string]string{
		"tfsutils.config": printerConfig("say", "hi"),
	}, func(cfg *app.Config) {
		cfg.Watch = true
	}, modules()...)
	require.NoError(t, result.Err)
	before := result.App.Commands()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- result.App.Watch(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(result.LogOutput.String(), "Watching configuration for changes.")
	}, 2*time.Second, 10*time.Millisecond)

	// --- Act ---
	path := filepath.Join(result.Dir, "tfsutils.config")
	require.NoError(t, os.WriteFile(path, []byte("<TfsUtils><commands"), 0644))

	// --- Assert ---
	require.Eventually(t, func() bool {
		return strings.Contains(result.LogOutput.String(), "Reload failed, keeping previous commands.")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Same(t, before, result.App.Commands())

	cancel()
	require.NoError(t, <-done)
}
