package treeconf

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/Azhovan/treeconf/internal/normalize"
)

// tagConfig holds parsed directives from a struct field's `conf` tag.
type tagConfig struct {
	name string // Custom key (name:key)
	skip bool   // Field is ignored (conf:"-")
}

// parseTag parses a `conf` struct tag.
// Tag format: "directive1:value1,directive2". A bare "-" skips the field.
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}
	if tag == "-" {
		cfg.skip = true
		return cfg
	}

	for _, directive := range strings.Split(tag, ",") {
		parts := strings.SplitN(strings.TrimSpace(directive), ":", 2)
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "name" {
			cfg.name = strings.TrimSpace(parts[1])
		}
	}
	return cfg
}

// fieldKey returns the tree key for a struct field.
func fieldKey(field reflect.StructField, tags tagConfig) string {
	if tags.name != "" {
		return tags.name
	}
	return normalize.FieldKey(field.Name)
}

// FromStruct builds a baseline tree from a struct or pointer to struct. Field
// values become defaults. Supported field types are string, bool, signed and
// unsigned integers, floats and nested structs. Keys default to the field
// name with a lowercase first letter; `conf:"name:key"` overrides it and
// `conf:"-"` skips the field.
func FromStruct(v any) (*Tree, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, &BaselineError{Reason: "nil struct pointer"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &BaselineError{Reason: fmt.Sprintf("expected struct, got %T", v)}
	}
	return structTree(rv, "")
}

func structTree(rv reflect.Value, prefix string) (*Tree, error) {
	t := newTree()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tags := parseTag(field.Tag.Get("conf"))
		if tags.skip {
			continue
		}

		key := fieldKey(field, tags)
		path := normalize.JoinPath(prefix, key)
		if _, dup := t.values[key]; dup {
			return nil, &BaselineError{Path: path, Reason: "duplicate key from field " + field.Name}
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			t.set(key, String(fv.String()))
		case reflect.Bool:
			t.set(key, Bool(fv.Bool()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			t.set(key, Number(float64(fv.Int())))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			t.set(key, Number(float64(fv.Uint())))
		case reflect.Float32, reflect.Float64:
			t.set(key, Number(fv.Float()))
		case reflect.Struct:
			if field.Type.PkgPath() == "time" {
				return nil, &BaselineError{Path: path, Reason: "unsupported field type " + field.Type.String()}
			}
			sub, err := structTree(fv, path)
			if err != nil {
				return nil, err
			}
			t.set(key, Nested(sub))
		default:
			return nil, &BaselineError{Path: path, Reason: "unsupported field type " + field.Type.String()}
		}
	}
	return t, nil
}

// Bind copies tree values into the struct pointed to by out, using the same
// key rules as FromStruct. Integer fields reject fractional, NaN and
// out-of-range numbers.
func Bind(tree *Tree, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("bind: expected non-nil pointer to struct, got %T", out)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("bind: expected pointer to struct, got %T", out)
	}
	return bindStruct(rv, tree, "", "")
}

func bindStruct(rv reflect.Value, tree *Tree, fieldPrefix, keyPrefix string) error {
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tags := parseTag(field.Tag.Get("conf"))
		if tags.skip {
			continue
		}

		key := fieldKey(field, tags)
		fieldPath := normalize.JoinPath(fieldPrefix, field.Name)
		keyPath := normalize.JoinPath(keyPrefix, key)
		fail := func(format string, args ...any) error {
			return &BindError{FieldPath: fieldPath, KeyPath: keyPath, Message: fmt.Sprintf(format, args...)}
		}

		v, ok := tree.Lookup(key)
		if !ok {
			return fail("key not present in tree")
		}

		fv := rv.Field(i)
		want := fieldKind(fv.Kind())
		if want != v.kind {
			return fail("cannot bind %s to %s field", v.kind, field.Type)
		}

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(v.str)
		case reflect.Bool:
			fv.SetBool(v.b)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if math.IsNaN(v.num) || math.Trunc(v.num) != v.num {
				return fail("%g is not an integer", v.num)
			}
			if v.num < math.MinInt64 || v.num >= math.MaxInt64 || fv.OverflowInt(int64(v.num)) {
				return fail("%g overflows %s", v.num, field.Type)
			}
			fv.SetInt(int64(v.num))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if math.IsNaN(v.num) || math.Trunc(v.num) != v.num || v.num < 0 {
				return fail("%g is not a non-negative integer", v.num)
			}
			if v.num >= math.MaxUint64 || fv.OverflowUint(uint64(v.num)) {
				return fail("%g overflows %s", v.num, field.Type)
			}
			fv.SetUint(uint64(v.num))
		case reflect.Float32, reflect.Float64:
			if !math.IsNaN(v.num) && !math.IsInf(v.num, 0) && fv.OverflowFloat(v.num) {
				return fail("%g overflows %s", v.num, field.Type)
			}
			fv.SetFloat(v.num)
		case reflect.Struct:
			if err := bindStruct(fv, v.tree, fieldPath, keyPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func fieldKind(k reflect.Kind) Kind {
	switch k {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Struct:
		return KindTree
	default:
		return KindInvalid
	}
}
