// Package testutil provides the shared harness for tests that run the whole
// application against configuration files written to a temporary directory.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/tfsutils/internal/app"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Dir is the temporary configuration directory.
	Dir       string
	Output    *SafeBuffer
	LogOutput *SafeBuffer
	Err       error
	App       *app.App
}

// WriteFiles writes files, keyed by relative path, below dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// RunIntegrationTest writes files to a temporary directory and starts an
// application configured from it. Without modules the core modules are
// used. Startup errors are returned in the result, not failed on.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(t, files, func(*app.Config) {}, modules...)
}

// RunIntegrationTestWithConfig is RunIntegrationTest with a hook to adjust the
// application configuration before startup.
func RunIntegrationTestWithConfig(t *testing.T, files map[string]string, configure func(*app.Config), modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	WriteFiles(t, dir, files)

	cfg := &app.Config{
		ConfigPaths: []string{dir},
		LogLevel:    "debug",
		LogFormat:   "text",
	}
	configure(cfg)

	res := &HarnessResult{Dir: dir, Output: &SafeBuffer{}, LogOutput: &SafeBuffer{}}
	res.App, res.Err = app.NewApp(context.Background(), res.Output, res.LogOutput, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("TFSUTILS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), res.LogOutput.String())
		}
	})
	return res
}
