package treeconf

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Azhovan/treeconf/internal/normalize"
)

// OverlayEnv walks target's shape and, for each leaf, looks up the derived
// variable name in dict. Nested keys extend the prefix with "key_"; the
// lookup name is prefix+key upper-cased, so leaf obj.bool2 under "APP_" is
// read from APP_OBJ_BOOL2. Present values are coerced to the leaf's kind.
// Names absent from dict leave the leaf untouched.
func OverlayEnv(target *Tree, prefix string, dict map[string]string) {
	overlayEnv(target, prefix, "", dict, nil)
}

func overlayEnv(target *Tree, prefix, pathPrefix string, dict map[string]string, onSet func(path, name string)) {
	for _, key := range target.keys {
		current := target.values[key]
		path := normalize.JoinPath(pathPrefix, key)

		if current.kind == KindTree {
			overlayEnv(current.tree, normalize.EnvPrefix(prefix, key), path, dict, onSet)
			continue
		}

		name := normalize.EnvName(prefix, key)
		raw, ok := dict[name]
		if !ok {
			continue
		}

		target.values[key] = coerceEnv(current.kind, raw)
		if onSet != nil {
			onSet(path, name)
		}
	}
}

func coerceEnv(kind Kind, raw string) Value {
	switch kind {
	case KindNumber:
		return Number(ParseNumber(raw))
	case KindBool:
		return Bool(ParseBool(raw))
	default:
		return String(raw)
	}
}

var truthy = map[string]bool{
	"true":    true,
	"yes":     true,
	"enable":  true,
	"enabled": true,
	"1":       true,
}

// ParseBool reports whether s is one of "true", "yes", "enable", "enabled"
// or "1", ignoring case. Every other string is false.
func ParseBool(s string) bool {
	return truthy[strings.ToLower(s)]
}

var leadingNumber = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseNumber parses the longest leading decimal number in s after leading
// whitespace ("12px" → 12, " 3.5e2" → 350, "Infinity" → +Inf). Input without
// a numeric prefix yields NaN rather than an error.
func ParseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := leadingNumber.FindString(s)
	if m == "" {
		return math.NaN()
	}
	// Range errors still carry the ±Inf or 0 result.
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// EnvBinding pairs a leaf path with the variable name OverlayEnv reads it from.
type EnvBinding struct {
	Path string
	Name string
	Kind Kind
}

// EnvNames lists the variable names OverlayEnv would consult for tree under prefix.
func EnvNames(tree *Tree, prefix string) []EnvBinding {
	var out []EnvBinding
	collectEnvNames(tree, prefix, "", &out)
	return out
}

func collectEnvNames(tree *Tree, prefix, pathPrefix string, out *[]EnvBinding) {
	for _, key := range tree.keys {
		v := tree.values[key]
		path := normalize.JoinPath(pathPrefix, key)
		if v.kind == KindTree {
			collectEnvNames(v.tree, normalize.EnvPrefix(prefix, key), path, out)
			continue
		}
		*out = append(*out, EnvBinding{Path: path, Name: normalize.EnvName(prefix, key), Kind: v.kind})
	}
}
