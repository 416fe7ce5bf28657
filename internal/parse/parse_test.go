package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	data, err := JSON([]byte(`{"str": "uuu", "num": 72, "obj": {"bool": false}}`))
	require.NoError(t, err)

	assert.Equal(t, "uuu", data["str"])
	assert.Equal(t, float64(72), data["num"]) // JSON numbers are float64
	assert.Equal(t, map[string]any{"bool": false}, data["obj"])
}

func TestJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"unclosed object", `{"key": "value"`},
		{"top-level array", `[1, 2]`},
		{"top-level number", `5`},
		{"trailing garbage", `{"a": 1} x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := JSON([]byte(tt.input))
			assert.Error(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestJSONC(t *testing.T) {
	input := `{
  // server settings
  "host": "localhost", /* inline */
  "port": 8080,
}`
	data, err := JSONC([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "localhost", data["host"])
	assert.Equal(t, float64(8080), data["port"])
}

func TestYAML(t *testing.T) {
	input := `
str: uuu
num: 72
obj:
  bool: false
  deeper:
    level: 3
`
	data, err := YAML([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "uuu", data["str"])
	assert.Equal(t, 72, data["num"])

	obj, ok := data["obj"].(map[string]any)
	require.True(t, ok, "obj should be map[string]any")
	assert.Equal(t, false, obj["bool"])

	deeper, ok := obj["deeper"].(map[string]any)
	require.True(t, ok, "deeper should be map[string]any")
	assert.Equal(t, 3, deeper["level"])
}

func TestYAML_NonStringKeys(t *testing.T) {
	data, err := YAML([]byte("codes:\n  1: one\n  true: yes\n"))
	require.NoError(t, err)

	codes, ok := data["codes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "one", codes["1"])
	assert.Equal(t, "yes", codes["true"])
}

func TestYAML_Empty(t *testing.T) {
	data, err := YAML([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestYAML_Invalid(t *testing.T) {
	data, err := YAML([]byte("key: value\n\t\tinvalid: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestYAML_ScalarDocument(t *testing.T) {
	_, err := YAML([]byte("just a string"))
	assert.ErrorIs(t, err, ErrNotMapping)
}

func TestTOML(t *testing.T) {
	input := `
str = "uuu"
num = 72

[obj]
bool = false
`
	data, err := TOML([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "uuu", data["str"])
	assert.Equal(t, int64(72), data["num"])
	assert.Equal(t, map[string]any{"bool": false}, data["obj"])
}

func TestTOML_Invalid(t *testing.T) {
	data, err := TOML([]byte(`[section` + "\n" + `key = "value"`))
	assert.Error(t, err)
	assert.Nil(t, data)
}
