// Package integration exercises the rvndb CLI and the resource store
// together, end to end, against real database files.
package integration

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetrane/rvnsqlite/internal/cli"
	"github.com/tetrane/rvnsqlite/internal/paths"
)

// testEnv isolates one test: its own config directory and a scratch
// directory for database files.
type testEnv struct {
	t   *testing.T
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	return &testEnv{t: t, dir: dir}
}

// path returns an absolute path inside the scratch directory.
func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

// run invokes the rvndb CLI in-process and returns its combined output.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	var out bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// mustRun invokes the rvndb CLI and fails the test on error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()

	out, err := e.run(args...)
	require.NoError(e.t, err, "rvndb %v: %s", args, out)
	return out
}
