// Package parse decodes configuration text into plain nested maps.
//
// Every decoder returns a map[string]any whose nested mappings are also
// map[string]any. Leaves are left as the decoder produced them (float64 for
// JSON, int/float64 for YAML, int64/float64 for TOML) so callers can classify
// them.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a document's top-level value is not a mapping.
var ErrNotMapping = errors.New("top-level value must be a mapping")

// JSON decodes a JSON object. Empty input is an error, as in JSON itself.
func JSON(data []byte) (map[string]any, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return topLevel(raw, false)
}

// JSONC decodes JSON with comments and trailing commas.
func JSONC(data []byte) (map[string]any, error) {
	return JSON(jsonc.ToJSON(data))
}

// YAML decodes a YAML mapping. An empty document yields an empty map.
func YAML(data []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return topLevel(raw, true)
}

// TOML decodes a TOML document.
func TOML(data []byte) (map[string]any, error) {
	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return normalizeMap(raw), nil
}

func topLevel(raw any, allowEmpty bool) (map[string]any, error) {
	if raw == nil && allowEmpty {
		return make(map[string]any), nil
	}
	switch m := normalizeValue(raw).(type) {
	case map[string]any:
		return m, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrNotMapping, raw)
	}
}

// normalizeValue converts map[any]any (and nested occurrences inside maps
// and slices) into map[string]any.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}
