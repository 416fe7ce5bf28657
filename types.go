package treeconf

import (
	"fmt"
	"time"
)

// Kind classifies a tree value. A baseline fixes the kind of every key;
// merges and env overlays may change leaf values but never kinds.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindTree
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindTree:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a tagged union holding one of the four kinds.
// The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	tree *Tree
}

// String returns a string leaf.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a number leaf.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean leaf.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Nested wraps a subtree. A nil tree is replaced by an empty one.
func Nested(t *Tree) Value {
	if t == nil {
		t = newTree()
	}
	return Value{kind: KindTree, tree: t}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsLeaf reports whether v is a primitive.
func (v Value) IsLeaf() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// Str returns the string payload, or "" for other kinds.
func (v Value) Str() string { return v.str }

// Num returns the number payload, or 0 for other kinds.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean payload, or false for other kinds.
func (v Value) Bool() bool { return v.b }

// Tree returns the subtree, or nil for leaves.
func (v Value) Tree() *Tree { return v.tree }

// Interface returns the payload as a plain Go value: string, float64, bool
// or map[string]any for subtrees.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindTree:
		return v.tree.ToMap()
	default:
		return nil
	}
}

// GoString formats the value for debugging.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("String(%q)", v.str)
	case KindNumber:
		return fmt.Sprintf("Number(%g)", v.num)
	case KindBool:
		return fmt.Sprintf("Bool(%t)", v.b)
	case KindTree:
		return fmt.Sprintf("Nested(%d keys)", v.tree.Len())
	default:
		return "Value(invalid)"
	}
}

// UnknownKeyHandler receives the dotted path of a source key that has no
// counterpart in the target tree (e.g. "obj.aa").
type UnknownKeyHandler func(path string)

// ChangeEvent notifies of configuration source changes.
type ChangeEvent struct {
	At    time.Time
	Cause string // Description (e.g., "file-changed")
}
