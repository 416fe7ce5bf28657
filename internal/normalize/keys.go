package normalize

import "strings"

// EnvName derives the environment variable name for a tree key under prefix.
// Examples:
//   - EnvName("APP_", "num") → "APP_NUM"
//   - EnvName("APP_OBJ_", "bool2") → "APP_OBJ_BOOL2"
//   - EnvName("", "str") → "STR"
func EnvName(prefix, key string) string {
	return strings.ToUpper(prefix + key)
}

// EnvPrefix returns the prefix used for the children of a nested key.
// Nesting is encoded by joining segments with a single underscore.
// Example: EnvPrefix("APP_", "obj") → "APP_obj_"
func EnvPrefix(prefix, key string) string {
	return prefix + key + "_"
}

// JoinPath combines a dotted prefix with a key.
// Examples:
//   - JoinPath("database", "host") → "database.host"
//   - JoinPath("", "host") → "host"
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}

// SplitPath splits a dotted path into segments. An empty path has no segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// FieldKey derives a tree key from a struct field name by lowercasing the
// first letter.
// Examples:
//   - "Host" → "host"
//   - "APIKey" → "aPIKey"
func FieldKey(fieldName string) string {
	if fieldName == "" {
		return ""
	}
	return strings.ToLower(fieldName[:1]) + fieldName[1:]
}
