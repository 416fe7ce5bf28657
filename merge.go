package treeconf

import (
	"fmt"

	"github.com/Azhovan/treeconf/internal/normalize"
)

// Merge overlays source onto target in place. Only keys present in source are
// visited, in sorted order at each level:
//   - keys target lacks are reported to onUnknown (if non-nil) and skipped;
//   - a kind difference aborts with *TypeMismatchError, keeping keys applied so far;
//   - nested trees recurse, so unknown keys are reported with dotted paths;
//   - leaves of the same kind overwrite the target's value.
func Merge(target *Tree, source map[string]any, onUnknown UnknownKeyHandler) error {
	return mergeTree(target, source, "", mergeHooks{unknown: onUnknown})
}

// mergeHooks carries per-call callbacks through the recursion.
type mergeHooks struct {
	unknown UnknownKeyHandler
	set     func(path string) // called after each leaf write
}

func mergeTree(target *Tree, source map[string]any, prefix string, hooks mergeHooks) error {
	for _, key := range sortedKeys(source) {
		path := normalize.JoinPath(prefix, key)

		current, ok := target.values[key]
		if !ok {
			if hooks.unknown != nil {
				hooks.unknown(path)
			}
			continue
		}

		raw := source[key]
		kind, got := classify(raw)
		if kind != current.kind {
			return &TypeMismatchError{Path: path, Key: key, Want: current.kind, Got: got}
		}

		switch kind {
		case KindTree:
			sub, err := patchMap(raw)
			if err != nil {
				return &TypeMismatchError{Path: path, Key: key, Want: KindTree, Got: err.Error()}
			}
			if err := mergeTree(current.tree, sub, path, hooks); err != nil {
				return err
			}
			continue
		case KindString:
			target.values[key] = String(raw.(string))
		case KindBool:
			target.values[key] = Bool(raw.(bool))
		case KindNumber:
			f, _ := toNumber(raw)
			target.values[key] = Number(f)
		}

		if hooks.set != nil {
			hooks.set(path)
		}
	}
	return nil
}

// patchMap is the lenient counterpart of toStringMap used for incoming
// patches: non-string keys (e.g. YAML integers) are stringified.
func patchMap(raw any) (map[string]any, error) {
	switch m := raw.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, nil
	case *Tree:
		return m.ToMap(), nil
	default:
		return nil, fmt.Errorf("%T", raw)
	}
}
