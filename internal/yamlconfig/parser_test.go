package yamlconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CommandDocument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `serverUri: http://tfs:8080/tfs/DefaultCollection
commands:
  - type: example.com/modules/commentsearch.Searcher
    alias: find
    properties:
      type: example.com/modules/commentsearch.Settings
      values:
        ProjectPath: $/product1/branch1
        MaxResults: 50
        Ignored: ~
        ExcludeOwners: [build, robot]
  - type: example.com/modules/print.Printer
    properties:
      type: example.com/modules/print.Settings
`

	// --- Act ---
	model, err := NewParser().Parse(context.Background(), []byte(src), "commands.yaml")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "http://tfs:8080/tfs/DefaultCollection", model.ServerURI)
	require.Len(t, model.Commands, 2)

	find := model.Commands[0]
	assert.Equal(t, "find", find.Name())
	assert.Equal(t, "commands.yaml:3", find.Source)
	assert.Equal(t, []string{"ProjectPath", "MaxResults", "ExcludeOwners"}, find.Properties.Keys())
	v, _ := find.Properties.Get("MaxResults")
	assert.Equal(t, "50", v)
	v, _ = find.Properties.Get("ExcludeOwners")
	assert.Equal(t, []string{"build", "robot"}, v)

	assert.Equal(t, "Printer", model.Commands[1].Name())
	assert.Zero(t, model.Commands[1].Properties.Len())
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()

	model, err := NewParser().Parse(context.Background(), nil, "empty.yaml")

	require.NoError(t, err)
	assert.Empty(t, model.Commands)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "unknown field",
			src:     "serverUri: x\nextra: 1\n",
			wantErr: "failed to parse YAML file",
		},
		{
			name:    "unknown command field",
			src:     "commands:\n  - type: a.B\n    alais: find\n    properties:\n      type: a.C\n",
			wantErr: "line 3: unknown field 'alais'",
		},
		{
			name:    "unknown properties field",
			src:     "commands:\n  - type: a.B\n    properties:\n      type: a.C\n      value: {}\n",
			wantErr: "line 5: unknown field 'value'",
		},
		{
			name:    "missing properties",
			src:     "commands:\n  - type: a.B\n",
			wantErr: "has no properties block",
		},
		{
			name:    "missing settings type",
			src:     "commands:\n  - type: a.B\n    properties:\n      values: {}\n",
			wantErr: "properties type undefined",
		},
		{
			name:    "nested mapping value",
			src:     "commands:\n  - type: a.B\n    properties:\n      type: a.C\n      values:\n        X: {a: 1}\n",
			wantErr: "must be a scalar or a list",
		},
		{
			name:    "duplicate property",
			src:     "commands:\n  - type: a.B\n    properties:\n      type: a.C\n      values:\n        X: 1\n        X: 2\n",
			wantErr: "X",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewParser().Parse(context.Background(), []byte(tc.src), "bad.yaml")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
