package treeconf

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Azhovan/treeconf/internal/normalize"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	format  dumpFormat
	indent  string            // Indentation for JSON/YAML output (default: "  ")
	sources map[string]string // Leaf path -> source, for text output
	redact  map[string]bool   // Leaf paths to hide
}

type dumpFormat int

const (
	dumpText dumpFormat = iota
	dumpJSON
	dumpYAML
)

// AsJSON outputs the tree as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = dumpJSON
	}
}

// AsYAML outputs the tree as YAML, keeping key order.
func AsYAML() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = dumpYAML
	}
}

// WithIndent sets the indentation for JSON and YAML output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithSources annotates text output with the source of each leaf.
func WithSources(prov *Provenance) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.sources = prov.ByPath()
	}
}

// WithRedact replaces the values at the given dotted paths with "***redacted***".
func WithRedact(paths ...string) DumpOption {
	return func(cfg *dumpConfig) {
		for _, p := range paths {
			cfg.redact[p] = true
		}
	}
}

// Dump writes a human-readable representation of tree.
// Text output is one "path: value" line per leaf, strings quoted.
func Dump(w io.Writer, tree *Tree, opts ...DumpOption) error {
	if tree == nil {
		return fmt.Errorf("tree is nil")
	}

	config := dumpConfig{
		indent: "  ",
		redact: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&config)
	}

	switch config.format {
	case dumpJSON:
		return dumpAsJSON(w, tree, config)
	case dumpYAML:
		return dumpAsYAML(w, tree, config)
	default:
		return dumpAsText(w, tree, config)
	}
}

func dumpAsText(w io.Writer, tree *Tree, config dumpConfig) error {
	var werr error
	tree.Walk(func(path string, v Value) {
		if werr != nil {
			return
		}
		display := formatLeaf(v)
		if config.redact[path] {
			display = redacted
		}
		line := fmt.Sprintf("%s: %s", path, display)
		if src, ok := config.sources[path]; ok && src != "" {
			line += fmt.Sprintf(" (source: %s)", src)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			werr = fmt.Errorf("write error: %w", err)
		}
	})
	return werr
}

func dumpAsJSON(w io.Writer, tree *Tree, config dumpConfig) error {
	result := jsonStructure(tree, "", config)

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// jsonStructure builds nested maps. Non-finite numbers, which JSON cannot
// carry, are written as strings.
func jsonStructure(tree *Tree, prefix string, config dumpConfig) map[string]any {
	result := make(map[string]any, tree.Len())
	for _, key := range tree.keys {
		v := tree.values[key]
		path := normalize.JoinPath(prefix, key)
		switch {
		case v.kind == KindTree:
			result[key] = jsonStructure(v.tree, path, config)
		case config.redact[path]:
			result[key] = redacted
		case v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)):
			result[key] = formatNumber(v.num)
		default:
			result[key] = v.Interface()
		}
	}
	return result
}

func dumpAsYAML(w io.Writer, tree *Tree, config dumpConfig) error {
	enc := yaml.NewEncoder(w)
	if n := len(config.indent); n > 0 {
		enc.SetIndent(n)
	}
	if err := enc.Encode(yamlNode(tree, "", config)); err != nil {
		return fmt.Errorf("yaml marshal error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func yamlNode(tree *Tree, prefix string, config dumpConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range tree.keys {
		v := tree.values[key]
		path := normalize.JoinPath(prefix, key)

		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		var valueNode *yaml.Node
		switch {
		case v.kind == KindTree:
			valueNode = yamlNode(v.tree, path, config)
		case config.redact[path]:
			valueNode = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: redacted}
		case v.kind == KindString:
			valueNode = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
		case v.kind == KindBool:
			valueNode = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
		default:
			valueNode = yamlNumber(v.num)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node
}

func yamlNumber(f float64) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".nan"}
	case math.IsInf(f, 1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
	case math.IsInf(f, -1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatFloat(f, 'f', -1, 64)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
}

// formatLeaf formats a leaf for text output.
func formatLeaf(v Value) string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.num)
	default:
		return "<invalid>"
	}
}

// formatNumber prints integral numbers without exponent.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
