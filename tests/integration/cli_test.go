package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrane/rvnsqlite/pkg/resource"
	"github.com/tetrane/rvnsqlite/pkg/sqlite"
)

// metadataView mirrors the JSON shape printed by "rvndb info --json".
type metadataView struct {
	Type           uint32 `json:"type"`
	FormatVersion  string `json:"format_version"`
	ToolName       string `json:"tool_name"`
	ToolVersion    string `json:"tool_version"`
	ToolInfo       string `json:"tool_info"`
	GenerationDate uint64 `json:"generation_date"`
}

func parseView(t *testing.T, out string) metadataView {
	t.Helper()
	var v metadataView
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("version")
	assert.Equal(t, "rvndb 1.1.0\n", out)
}

func TestCreateAndInfo(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("resource.sqlite")

	env.mustRun("create", file,
		"--type", "42",
		"--format-version", "1.0.0-dummy",
		"--tool-name", "TestMetaDataWriter",
		"--tool-version", "1.0.0",
		"--tool-info", "Tests version 1.0.0",
		"--generation-date", "42424242")

	out := env.mustRun("--json", "info", file)
	got := parseView(t, out)
	assert.Equal(t, metadataView{
		Type:           42,
		FormatVersion:  "1.0.0-dummy",
		ToolName:       "TestMetaDataWriter",
		ToolVersion:    "1.0.0",
		ToolInfo:       "Tests version 1.0.0",
		GenerationDate: 42424242,
	}, got)

	// The file is a regular resource database the library can open.
	s, err := resource.Open(file, true)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, uint32(42), s.Metadata().Type())
}

func TestCreateUsesConfigDefaults(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("resource.sqlite")

	// Only type and format version given; the tool identity comes from
	// the default config and the generation date from the clock.
	env.mustRun("create", file, "--type", "7", "--format-version", "1.0.0")

	got := parseView(t, env.mustRun("--json", "info", file))
	assert.Equal(t, "rvndb", got.ToolName)
	assert.Equal(t, "1.1.0", got.ToolVersion)
	assert.Equal(t, "rvndb 1.1.0", got.ToolInfo)
	assert.NotZero(t, got.GenerationDate)
}

func TestCreateRequiresTypeAndFormatVersion(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("create", env.path("r.sqlite"))
	require.Error(t, err)
}

func TestConvertExistingDatabase(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("plain.sqlite")

	db, err := sqlite.Open(file, sqlite.OpenCreate)
	require.NoError(t, err)
	require.NoError(t, db.Exec("create table payload (x int8);"))
	require.NoError(t, db.Exec("insert into payload values (42);"))
	require.NoError(t, db.Close())

	env.mustRun("convert", file, "--type", "42", "--format-version", "1.0.0-dummy")

	got := parseView(t, env.mustRun("--json", "info", file))
	assert.Equal(t, uint32(42), got.Type)

	// Converting an already converted database fails.
	out, err := env.run("convert", file, "--type", "42", "--format-version", "1.0.0-dummy")
	require.Error(t, err, "output: %s", out)
}

func TestSetOverwritesGivenFieldsOnly(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("resource.sqlite")

	env.mustRun("create", file,
		"--type", "42",
		"--format-version", "1.0.0-dummy",
		"--tool-name", "TestMetaDataWriter",
		"--generation-date", "42424242")

	env.mustRun("set", file, "--tool-name", "AnotherTool")

	got := parseView(t, env.mustRun("--json", "info", file))
	assert.Equal(t, "AnotherTool", got.ToolName)
	assert.Equal(t, uint32(42), got.Type)
	assert.Equal(t, "1.0.0-dummy", got.FormatVersion)
	assert.Equal(t, uint64(42424242), got.GenerationDate)
}

func TestInfoRejectsNonResourceDatabase(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("plain.sqlite")

	db, err := sqlite.Open(file, sqlite.OpenCreate)
	require.NoError(t, err)
	require.NoError(t, db.Exec("create table payload (x int8);"))
	require.NoError(t, db.Close())

	out, err := env.run("info", file)
	require.Error(t, err, "output: %s", out)
	assert.ErrorIs(t, err, resource.ErrReadMetadata)
}

func TestInfoMissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("info", env.path("missing.sqlite"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestInfoHumanReadable(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("resource.sqlite")

	env.mustRun("create", file,
		"--type", "42",
		"--format-version", "1.0.0-dummy",
		"--generation-date", "42424242")

	out := env.mustRun("info", file)
	assert.Contains(t, out, "type:            0x00002a\n")
	assert.Contains(t, out, "format version:  1.0.0-dummy\n")
	assert.Contains(t, out, "generation date: 42424242\n")
}
