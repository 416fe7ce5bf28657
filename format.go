package treeconf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Azhovan/treeconf/internal/parse"
)

// Format selects the decoder for textual sources.
type Format int

const (
	// FormatAuto infers the format from a file extension. Only valid for files.
	FormatAuto Format = iota
	FormatJSON
	FormatJSONC
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONC:
		return "jsonc"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "auto"
	}
}

// ParseFormat maps a format token ("json", "jsonc", "yaml", "yml", "toml",
// case-insensitive) to a Format.
func ParseFormat(token string) (Format, error) {
	switch strings.ToLower(token) {
	case "json":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q (supported: json, jsonc, yaml, yml, toml)", ErrUnsupportedFormat, token)
	}
}

// FormatFromPath infers the format from the text after the last "." in the
// file name. Names without an extension are rejected.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return FormatAuto, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	return ParseFormat(ext[1:])
}

// Decode parses data into a patch.
// source names the input in error messages (e.g., "string", "file:app.yaml").
func Decode(data []byte, format Format, source string) (map[string]any, error) {
	var decode func([]byte) (map[string]any, error)
	switch format {
	case FormatJSON:
		decode = parse.JSON
	case FormatJSONC:
		decode = parse.JSONC
	case FormatYAML:
		decode = parse.YAML
	case FormatTOML:
		decode = parse.TOML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	patch, err := decode(data)
	if err != nil {
		return nil, &ParseError{Format: format, Source: source, Err: err}
	}
	return patch, nil
}
