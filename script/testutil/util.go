// Package testutil holds helpers shared by the script and cmd tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lukeod/nodetracker/script"
	"github.com/lukeod/nodetracker/tracker"
)

// MustParse parses src as a script named after the running test.
// It fails the test immediately on a parse error.
func MustParse(t *testing.T, src string) *script.Script {
	t.Helper()
	s, err := script.ParseString(t.Name(), src)
	require.NoError(t, err, "MustParse failed unexpectedly for script:\n%s", src)
	require.NotNil(t, s, "MustParse returned nil script without error for script:\n%s", src)
	return s
}

// MustRun parses src and runs it against a fresh tracker, failing the test
// on any parse or run error. It returns the runner for further checks.
func MustRun(t *testing.T, src string) *script.Runner {
	t.Helper()
	r := script.NewRunner(tracker.New[string]())
	require.NoError(t, r.Run(MustParse(t, src)))
	return r
}

// RequireState checks every observable part of tr at once.
// helper is ignored when hasHelper is false.
func RequireState(t *testing.T, tr *tracker.NodeTracker[string], nodes []string, hasHelper bool, helper string, active bool) {
	t.Helper()
	require.Equal(t, len(nodes), tr.Len(), "node count")
	if len(nodes) > 0 {
		require.Equal(t, nodes, tr.GetNodes(), "nodes")
	}
	got, ok := tr.GetHelperNode()
	require.Equal(t, hasHelper, ok, "helper presence")
	if hasHelper {
		require.Equal(t, helper, got, "helper node")
	}
	require.Equal(t, active, tr.HasActiveHelperNode(), "helper active flag")
}
