package hclconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CommandDocument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
server_uri = "http://tfs:8080/tfs/DefaultCollection"

command "example.com/modules/commentsearch.Searcher" {
  alias = "find"
  properties "example.com/modules/commentsearch.Settings" {
    ProjectPath   = "$/product1/branch1"
    MaxResults    = 50
    Verbose       = true
    ExcludeOwners = ["build", "robot"]
    Skipped       = null
  }
}

command "example.com/modules/print.Printer" {
  properties "example.com/modules/print.Settings" {}
}
`

	// --- Act ---
	model, err := NewParser().Parse(context.Background(), []byte(src), "commands.hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "http://tfs:8080/tfs/DefaultCollection", model.ServerURI)
	require.Len(t, model.Commands, 2)

	find := model.Commands[0]
	assert.Equal(t, "find", find.Name())
	assert.Equal(t, "example.com/modules/commentsearch.Settings", find.SettingsType)
	assert.Contains(t, find.Source, "commands.hcl:")
	assert.Equal(t, []string{"ProjectPath", "MaxResults", "Verbose", "ExcludeOwners"}, find.Properties.Keys())

	v, _ := find.Properties.Get("MaxResults")
	assert.Equal(t, "50", v)
	v, _ = find.Properties.Get("Verbose")
	assert.Equal(t, "true", v)
	v, _ = find.Properties.Get("ExcludeOwners")
	assert.Equal(t, []string{"build", "robot"}, v)

	assert.Equal(t, "Printer", model.Commands[1].Name())
	assert.Zero(t, model.Commands[1].Properties.Len())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `command "a.B" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			src:     `runner "a" {}`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "missing properties",
			src:     `command "a.B" {}`,
			wantErr: "has no properties block",
		},
		{
			name: "two properties blocks",
			src: `command "a.B" {
  properties "a.C" {}
  properties "a.C" {}
}`,
			wantErr: "more than one properties block",
		},
		{
			name:    "blank type",
			src:     `command " " { properties "a.C" {} }`,
			wantErr: "command type undefined",
		},
		{
			name: "unknown command attribute",
			src: `command "a.B" {
  alais = "find"
  properties "a.C" {}
}`,
			wantErr: "command 'a.B': unrecognized attribute 'alais'",
		},
		{
			name: "unknown command block",
			src: `command "a.B" {
  settings {}
  properties "a.C" {}
}`,
			wantErr: "command 'a.B'",
		},
		{
			name: "object value",
			src: `command "a.B" {
  properties "a.C" {
    Nested = { a = 1 }
  }
}`,
			wantErr: "property 'Nested'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewParser().Parse(context.Background(), []byte(tc.src), "bad.hcl")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
