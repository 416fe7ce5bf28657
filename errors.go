package treeconf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below match them via errors.Is.
var (
	// ErrTypeMismatch is returned when a source value's kind differs from the target's.
	ErrTypeMismatch = errors.New("treeconf: type mismatch")

	// ErrUnsupportedFormat is returned for unknown format tokens or file extensions.
	ErrUnsupportedFormat = errors.New("treeconf: unsupported format")

	// ErrParse is returned when JSON/JSONC/YAML/TOML text cannot be decoded.
	ErrParse = errors.New("treeconf: parse error")

	// ErrInvalidBaseline is returned when a baseline cannot be turned into a tree.
	ErrInvalidBaseline = errors.New("treeconf: invalid baseline")

	// ErrUnknownKey is returned in strict mode when sources carry keys the baseline lacks.
	ErrUnknownKey = errors.New("treeconf: unknown config key")
)

// TypeMismatchError reports a source value whose kind differs from the target's.
type TypeMismatchError struct {
	Path string // Dotted path (e.g., "obj.bool")
	Key  string // Last path segment
	Want Kind   // Kind fixed by the baseline
	Got  string // Kind of the offending source value ("number", "array", "null", ...)
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("config type mismatch on property %q: expected %s, got %s", e.Path, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// ParseError wraps a decoder failure.
type ParseError struct {
	Format Format
	Source string // What was parsed (e.g., "string", "file:config.yaml")
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %s: %v", e.Format, e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// BaselineError reports why a value could not be part of a baseline tree.
type BaselineError struct {
	Path   string
	Reason string
}

func (e *BaselineError) Error() string {
	if e.Path == "" {
		return "invalid baseline: " + e.Reason
	}
	return fmt.Sprintf("invalid baseline at %q: %s", e.Path, e.Reason)
}

func (e *BaselineError) Is(target error) bool { return target == ErrInvalidBaseline }

// UnknownKeysError lists unknown key paths collected during one strict populate call.
type UnknownKeysError struct {
	Paths []string
}

// Error formats the paths as a multi-line message.
func (e *UnknownKeysError) Error() string {
	var b strings.Builder
	if len(e.Paths) == 1 {
		b.WriteString("unknown config keys: 1 key\n")
	} else {
		fmt.Fprintf(&b, "unknown config keys: %d keys\n", len(e.Paths))
	}
	for _, p := range e.Paths {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *UnknownKeysError) Is(target error) bool { return target == ErrUnknownKey }

// BindError reports a tree value that cannot be stored in a struct field.
type BindError struct {
	FieldPath string // Go field path (e.g., "Database.Port")
	KeyPath   string // Tree path (e.g., "database.port")
	Message   string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s (%s): %s", e.FieldPath, e.KeyPath, e.Message)
}
