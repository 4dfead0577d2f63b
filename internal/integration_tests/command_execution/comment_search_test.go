package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/tfsutils/internal/app"
	"github.com/specialistvlad/tfsutils/internal/registry"
	"github.com/specialistvlad/tfsutils/internal/testutil"
	"github.com/specialistvlad/tfsutils/modules/commentsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyExport = `collections:
  - id: 6ba7b810-9dad-11d1-80b4-00c04fd430c8
    changesets:
      - id: 101
        comment: Fix login timeout
        owner: alice
        date: 2024-05-02T09:15:00Z
        files: [$/product1/branch1/login.go, $/product1/branch1/login.go]
        workItems:
          - {type: Task, title: Raise timeout}
          - {type: Bug, title: Login hangs}
      - id: 102
        comment: Update readme
        owner: bob
        date: 2024-05-03T10:00:00Z
        files: [$/product1/branch1/README.md]
      - id: 103
        comment: nightly LOGIN check
        owner: build
        date: 2024-05-04T02:00:00Z
        files: [$/product1/branch1/ci.yml]
`

// TestExecution_CommentSearch validates the Searcher end to end: YAML
// configuration, a file-backed history and the report format.
func TestExecution_CommentSearch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	historyPath := filepath.Join(t.TempDir(), "history.export")
	require.NoError(t, os.WriteFile(historyPath, []byte(historyExport), 0644))

	doc := `serverUri: file://` + filepath.ToSlash(historyPath) + `
commands:
  - type: ` + registry.NameOf(commentsearch.Searcher{}) + `
    alias: find
    properties:
      type: ` + registry.NameOf(commentsearch.Settings{}) + `
      values:
        ProjectPath: $/product1/branch1
        DateFrom: 2024-01-01
        DateTo: 2024-12-31
        ExcludeOwners: [build]
`
	module := &commentsearch.Module{
		Now: func() time.Time { return time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC) },
	}
	result := testutil.RunIntegrationTest(t, map[string]string{"commands.yaml": doc}, module)
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Dispatch(context.Background(), "find", []string{"login"})

	// --- Assert ---
	require.NoError(t, err)
	want := "Fix login timeout\n101\n2024-05-02 09:15:00\nalice\n\n" +
		"Files:\n\t$/product1/branch1/login.go\n" +
		"\nWorkItems:\n\tRaise timeout\n" +
		"\n\n" + strings.Repeat("#", 100) + "\n"
	assert.Equal(t, want, result.Output.String())
	assert.Contains(t, result.LogOutput.String(), "Searching in 3 items...")
	testutil.AssertCommandRan(t, result, "find")
}

// TestExecution_CommentSearchRequiresKeyword validates that a missing keyword
// is reported as a usage error listing the configured commands.
func TestExecution_CommentSearchRequiresKeyword(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	doc := `<TfsUtils><commands ServerUri="file:///nonexistent">
<command Type="` + registry.NameOf(commentsearch.Searcher{}) + `">
<properties Type="` + registry.NameOf(commentsearch.Settings{}) + `"/>
</command></commands></TfsUtils>`
	result := testutil.RunIntegrationTest(t, map[string]string{"a.xml": doc}, &commentsearch.Module{})
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Dispatch(context.Background(), "searcher", nil)

	// --- Assert ---
	var usageErr *app.UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, err.Error(), `usage params of this command: "comment keyword"`)
	assert.Equal(t, []app.CommandInfo{{
		Name:        "Searcher",
		Handler:     registry.NameOf(commentsearch.Searcher{}),
		Description: "search changeset comments for a keyword",
	}}, usageErr.Commands)
}
