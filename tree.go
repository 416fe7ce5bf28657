package treeconf

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/Azhovan/treeconf/internal/normalize"
)

// Tree is an ordered mapping from keys to values. Its shape (key set and the
// kind of each key) is fixed when it is built; only leaf values change later.
//
// A Tree is not safe for concurrent mutation.
type Tree struct {
	keys   []string
	values map[string]Value
}

func newTree() *Tree {
	return &Tree{values: make(map[string]Value)}
}

// NewTree builds a baseline tree from a plain map. Keys at every level are
// sorted. Leaves may be strings, booleans or any Go number; nested levels may
// be map[string]any, map[any]any with string keys, or *Tree.
func NewTree(m map[string]any) (*Tree, error) {
	return buildTree(m, "")
}

// MustTree is like NewTree but panics on error. Intended for literals.
func MustTree(m map[string]any) *Tree {
	t, err := NewTree(m)
	if err != nil {
		panic(err)
	}
	return t
}

func buildTree(m map[string]any, prefix string) (*Tree, error) {
	t := newTree()
	for _, key := range sortedKeys(m) {
		path := normalize.JoinPath(prefix, key)
		if key == "" {
			return nil, &BaselineError{Path: prefix, Reason: "empty key"}
		}
		v, err := buildValue(m[key], path)
		if err != nil {
			return nil, err
		}
		t.set(key, v)
	}
	return t, nil
}

func buildValue(raw any, path string) (Value, error) {
	kind, got := classify(raw)
	switch kind {
	case KindString:
		return String(raw.(string)), nil
	case KindBool:
		return Bool(raw.(bool)), nil
	case KindNumber:
		f, _ := toNumber(raw)
		return Number(f), nil
	case KindTree:
		if sub, ok := raw.(*Tree); ok {
			return Nested(sub.Clone()), nil
		}
		m, err := toStringMap(raw, path)
		if err != nil {
			return Value{}, &BaselineError{Path: path, Reason: err.Error()}
		}
		sub, err := buildTree(m, path)
		if err != nil {
			return Value{}, err
		}
		return Nested(sub), nil
	default:
		return Value{}, &BaselineError{Path: path, Reason: "unsupported value of type " + got}
	}
}

// set appends key if new and stores v.
func (t *Tree) set(key string, v Value) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// Keys returns the tree's own keys in order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of own keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Lookup returns the value stored under a single own key.
func (t *Tree) Lookup(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Get resolves a dotted path (e.g., "obj.bool2").
func (t *Tree) Get(path string) (Value, bool) {
	segments := normalize.SplitPath(path)
	if len(segments) == 0 {
		return Value{}, false
	}
	cur := t
	for i, seg := range segments {
		v, ok := cur.Lookup(seg)
		if !ok {
			return Value{}, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		if v.kind != KindTree {
			return Value{}, false
		}
		cur = v.tree
	}
	return Value{}, false
}

// String returns the string leaf at path, or "" if absent or not a string.
func (t *Tree) String(path string) string {
	v, _ := t.Get(path)
	return v.Str()
}

// Number returns the number leaf at path, or 0 if absent or not a number.
func (t *Tree) Number(path string) float64 {
	v, _ := t.Get(path)
	return v.Num()
}

// Bool returns the boolean leaf at path, or false if absent or not a boolean.
func (t *Tree) Bool(path string) bool {
	v, _ := t.Get(path)
	return v.Bool()
}

// Walk visits every leaf in order with its dotted path.
func (t *Tree) Walk(fn func(path string, v Value)) {
	t.walk("", fn)
}

func (t *Tree) walk(prefix string, fn func(path string, v Value)) {
	for _, key := range t.keys {
		v := t.values[key]
		path := normalize.JoinPath(prefix, key)
		if v.kind == KindTree {
			v.tree.walk(path, fn)
			continue
		}
		fn(path, v)
	}
}

// ToMap converts the tree to nested map[string]any with string, float64 and
// bool leaves.
func (t *Tree) ToMap() map[string]any {
	out := make(map[string]any, t.Len())
	if t == nil {
		return out
	}
	for _, key := range t.keys {
		out[key] = t.values[key].Interface()
	}
	return out
}

// Clone returns a deep copy sharing no mutable structure with t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return newTree()
	}
	res := &Tree{
		keys:   make([]string, len(t.keys)),
		values: make(map[string]Value, len(t.values)),
	}
	copy(res.keys, t.keys)
	for _, key := range t.keys {
		v := t.values[key]
		if v.kind == KindTree {
			v = Nested(v.tree.Clone())
		}
		res.values[key] = v
	}
	return res
}

// classify returns the kind of a raw Go value and a name for it. Values that
// cannot live in a tree get KindInvalid.
func classify(raw any) (Kind, string) {
	switch raw.(type) {
	case nil:
		return KindInvalid, "null"
	case string:
		return KindString, KindString.String()
	case bool:
		return KindBool, KindBool.String()
	case map[string]any, map[any]any, *Tree:
		return KindTree, KindTree.String()
	}
	if _, ok := toNumber(raw); ok {
		return KindNumber, KindNumber.String()
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindInvalid, "array"
	case reflect.Map:
		return KindInvalid, "map of " + rv.Type().Key().String()
	default:
		return KindInvalid, rv.Type().String()
	}
}

func toNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	default:
		return 0, false
	}
}

// toStringMap accepts the map shapes decoders produce.
func toStringMap(raw any, path string) (map[string]any, error) {
	switch m := raw.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v under %q", k, path)
			}
			out[ks] = v
		}
		return out, nil
	case *Tree:
		return m.ToMap(), nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", raw)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
