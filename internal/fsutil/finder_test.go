package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	write := func(rel string) string {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		return p
	}
	b := write("b.config")
	a := write("nested/a.XML")
	write("notes.txt")

	// --- Act ---
	files, err := FindFilesByExtension(root, ".config", ".xml")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{b, a}, files)

	single, err := FindFilesByExtension(b, ".config")
	require.NoError(t, err)
	require.Equal(t, []string{b}, single)

	_, err = FindFilesByExtension(filepath.Join(root, "notes.txt"), ".config")
	require.ErrorContains(t, err, "unsupported configuration file extension")

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".config")
	require.Error(t, err)
}

func TestFindFilesByExtension_PanicsWithoutExtensions(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir()) })
}
