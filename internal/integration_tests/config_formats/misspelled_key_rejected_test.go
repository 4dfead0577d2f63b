package integration_tests

import (
	"testing"

	"github.com/specialistvlad/tfsutils/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_MisspelledCommandKeyIsRejected validates that every format
// refuses a command entry with an undeclared key instead of silently
// registering the command under its type name.
func TestConfig_MisspelledCommandKeyIsRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		file string
		doc  string
	}{
		{
			name: "xml",
			file: "tfsutils.xml",
			doc: `<TfsUtils><commands ServerUri="http://tfs/">
<command Type="` + findType + `" Alais="find"><properties Type="` + findSettingsType + `"/></command>
</commands></TfsUtils>`,
		},
		{
			name: "hcl",
			file: "commands.hcl",
			doc: `server_uri = "http://tfs/"
command "` + findType + `" {
  alais = "find"
  properties "` + findSettingsType + `" {}
}
`,
		},
		{
			name: "yaml",
			file: "commands.yaml",
			doc: `serverUri: http://tfs/
commands:
  - type: ` + findType + `
    alais: find
    properties:
      type: ` + findSettingsType + `
`,
		},
		{
			name: "toml",
			file: "commands.toml",
			doc: `server_uri = "http://tfs/"

[[command]]
type  = "` + findType + `"
alais = "find"

[command.properties]
type = "` + findSettingsType + `"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			result := testutil.RunIntegrationTest(t, map[string]string{tc.file: tc.doc}, newFindModule())

			// --- Assert ---
			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), "failed to load configuration")
			assert.Contains(t, result.Err.Error(), "lais")
			assert.Nil(t, result.App)
		})
	}
}
