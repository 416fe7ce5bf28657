package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/treeconf"
)

const baselineYAML = `
database:
  host: localhost
  port: 5432
  password: changeme
debug: false
name: app
`

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/base.yaml", []byte(baselineYAML), 0644))
	return fs
}

func run(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(fs)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRender_BaselineOnly(t *testing.T) {
	out, _, err := run(t, newTestFs(t), "render", "-b", "/base.yaml")
	require.NoError(t, err)

	assert.Equal(t, `database.host: "localhost"
database.password: "changeme"
database.port: 5432
debug: false
name: "app"
`, out)
}

func TestRender_FilesInOrder(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/one.json", []byte(`{"database": {"host": "one"}, "name": "one"}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/two.toml", []byte("name = \"two\"\n"), 0644))

	out, _, err := run(t, fs, "render", "-b", "/base.yaml", "-f", "/one.json", "-f", "/two.toml", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "two", got["name"])
	assert.Equal(t, "one", got["database"].(map[string]any)["host"])
}

func TestRender_MissingRequiredFile(t *testing.T) {
	_, _, err := run(t, newTestFs(t), "render", "-b", "/base.yaml", "-f", "/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required config file not found")
}

func TestRender_OptionalFileSkipped(t *testing.T) {
	out, _, err := run(t, newTestFs(t), "render", "-b", "/base.yaml", "--optional-file", "/missing.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `name: "app"`)
}

func TestRender_DotenvAndPrefix(t *testing.T) {
	fs := newTestFs(t)
	dotenv := "TREECONFTEST_DATABASE_PORT=6543\nTREECONFTEST_DEBUG=yes\n"
	require.NoError(t, afero.WriteFile(fs, "/.env", []byte(dotenv), 0644))

	out, _, err := run(t, fs, "render", "-b", "/base.yaml",
		"--dotenv", "/.env", "--env-prefix", "TREECONFTEST_", "--sources", "-o", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "database.port: 6543 (source: env:TREECONFTEST_DATABASE_PORT)")
	assert.Contains(t, out, "debug: true (source: env:TREECONFTEST_DEBUG)")
	assert.Contains(t, out, `name: "app" (source: default)`)
}

func TestRender_ProcessEnvOverridesDotenv(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/.env", []byte("TREECONFTEST_NAME=fromfile\n"), 0644))
	t.Setenv("TREECONFTEST_NAME", "fromprocess")

	out, _, err := run(t, fs, "render", "-b", "/base.yaml", "--dotenv", "/.env", "--env-prefix", "TREECONFTEST_")
	require.NoError(t, err)
	assert.Contains(t, out, `name: "fromprocess"`)
}

func TestRender_Strict(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/extra.yaml", []byte("extra: 1\nname: changed\n"), 0644))

	_, _, err := run(t, fs, "render", "-b", "/base.yaml", "-f", "/extra.yaml", "--strict")
	require.Error(t, err)
	assert.ErrorIs(t, err, treeconf.ErrUnknownKey)
	assert.Contains(t, err.Error(), "extra")
}

func TestRender_UnknownKeyWarningLogged(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/extra.yaml", []byte("extra: 1\n"), 0644))

	_, stderr, err := run(t, fs, "render", "-b", "/base.yaml", "-f", "/extra.yaml")
	require.NoError(t, err)
	assert.Contains(t, stderr, "unknown config key")
	assert.Contains(t, stderr, "extra")
}

func TestRender_TypeMismatch(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"debug": "nope"}`), 0644))

	_, _, err := run(t, fs, "render", "-b", "/base.yaml", "-f", "/bad.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, treeconf.ErrTypeMismatch)
}

func TestRender_YAMLRedacted(t *testing.T) {
	out, _, err := run(t, newTestFs(t), "render", "-b", "/base.yaml", "-o", "yaml", "--redact", "database.password")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	db := got["database"].(map[string]any)
	assert.Equal(t, "***redacted***", db["password"])
	assert.Equal(t, 5432, db["port"])
}

func TestRender_BadOutput(t *testing.T) {
	_, _, err := run(t, newTestFs(t), "render", "-b", "/base.yaml", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRender_BadLogLevel(t *testing.T) {
	_, _, err := run(t, newTestFs(t), "render", "-b", "/base.yaml", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRender_BaselineWithoutExtension(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/base", []byte(baselineYAML), 0644))

	_, _, err := run(t, fs, "render", "-b", "/base")
	require.Error(t, err)
	assert.ErrorIs(t, err, treeconf.ErrUnsupportedFormat)
}

func TestRender_BaselineRequired(t *testing.T) {
	_, _, err := run(t, newTestFs(t), "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline")
}

func TestEnv_ListsNames(t *testing.T) {
	out, _, err := run(t, newTestFs(t), "env", "-b", "/base.yaml", "--env-prefix", "APP_")
	require.NoError(t, err)

	assert.Contains(t, out, "VARIABLE")
	assert.Regexp(t, `APP_DATABASE_HOST\s+database\.host\s+string`, out)
	assert.Regexp(t, `APP_DATABASE_PORT\s+database\.port\s+number`, out)
	assert.Regexp(t, `APP_DEBUG\s+debug\s+boolean`, out)
}
