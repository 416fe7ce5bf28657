package sourcefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azhovan/treeconf"
)

func newGenerator(t *testing.T, fs afero.Fs) *treeconf.Generator {
	t.Helper()
	baseline := treeconf.MustTree(map[string]any{
		"database": map[string]any{
			"host": "localhost",
			"port": 5432,
		},
		"debug": false,
	})
	return treeconf.New(baseline, treeconf.WithFs(fs), treeconf.WithUnknownKeyHandler(func(string) {}))
}

func TestFile_Apply_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	yamlContent := `
database:
  host: db.example.com
  port: 6543
debug: true
`
	require.NoError(t, afero.WriteFile(fs, "/etc/app/config.yaml", []byte(yamlContent), 0644))

	gen := newGenerator(t, fs)
	err := New("/etc/app/config.yaml", Options{Required: true}).Apply(gen)
	require.NoError(t, err)

	cfg := gen.Config()
	assert.Equal(t, "db.example.com", cfg.String("database.host"))
	assert.Equal(t, float64(6543), cfg.Number("database.port"))
	assert.True(t, cfg.Bool("debug"))
}

func TestFile_Apply_ExplicitFormat(t *testing.T) {
	// Wrong extension but explicit format
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.txt", []byte("debug = true\n"), 0644))

	gen := newGenerator(t, fs)
	err := New("/config.txt", Options{Format: treeconf.FormatTOML}).Apply(gen)
	require.NoError(t, err)

	assert.True(t, gen.Config().Bool("debug"))
}

func TestFile_Apply_MissingFile_NotRequired(t *testing.T) {
	gen := newGenerator(t, afero.NewMemMapFs())

	err := New("/nonexistent/config.yaml", Options{Required: false}).Apply(gen)
	require.NoError(t, err)
	assert.Equal(t, "localhost", gen.Config().String("database.host"))
}

func TestFile_Apply_MissingFile_Required(t *testing.T) {
	gen := newGenerator(t, afero.NewMemMapFs())

	err := New("/nonexistent/config.yaml", Options{Required: true}).Apply(gen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required config file not found")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_Apply_UnsupportedFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.ini", []byte("key=value"), 0644))

	gen := newGenerator(t, fs)
	err := New("/config.ini", Options{}).Apply(gen)
	assert.ErrorIs(t, err, treeconf.ErrUnsupportedFormat)
}

func TestFile_Apply_ParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.json", []byte(`{"debug": true`), 0644))

	gen := newGenerator(t, fs)
	err := New("/config.json", Options{}).Apply(gen)
	assert.ErrorIs(t, err, treeconf.ErrParse)
	assert.False(t, gen.Config().Bool("debug"))
}

func TestFile_Name(t *testing.T) {
	f := New("/etc/app/config.yaml", Options{})
	assert.Equal(t, "file:config.yaml", f.Name())
	assert.Equal(t, "/etc/app/config.yaml", f.Path())
}

func TestFile_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := New(path, Options{}).Watch(ctx)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0644))

	select {
	case ev, ok := <-events:
		require.True(t, ok)
		assert.Contains(t, ev.Cause, "file-changed")
		assert.False(t, ev.At.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	gen := newGenerator(t, afero.NewOsFs())
	require.NoError(t, New(path, Options{}).Apply(gen))
	assert.True(t, gen.Config().Bool("debug"))

	cancel()
	for range events {
		// drain until closed
	}
}

func TestFile_Watch_MissingDirectory(t *testing.T) {
	ch, err := New("/nonexistent/dir/config.yaml", Options{}).Watch(context.Background())
	assert.Error(t, err)
	assert.Nil(t, ch)
}
