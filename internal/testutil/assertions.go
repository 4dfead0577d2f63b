package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertCommandRan checks the log output within a HarnessResult to confirm
// that the named command completed.
func AssertCommandRan(t *testing.T, result *HarnessResult, name string) {
	t.Helper()

	expectedLogSubstring := fmt.Sprintf(`msg="Command finished." command=%s`, name)

	require.True(t,
		strings.Contains(result.LogOutput.String(), expectedLogSubstring),
		"expected log output for command '%s' was not found in logs", name,
	)
}
