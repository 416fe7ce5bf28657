// Package treeconf provides a typed, hierarchical configuration tree populated
// from objects, JSON/JSONC/YAML/TOML text, files and environment variables.
//
// Quick Start:
//
//	baseline := treeconf.MustTree(map[string]any{
//	    "port": 8080,
//	    "db":   map[string]any{"host": "localhost", "tls": false},
//	})
//
//	gen := treeconf.New(baseline)
//	if err := gen.FromFileSync("config.yaml"); err != nil { ... }
//	gen.FromEnv("APP_", nil) // APP_PORT, APP_DB_HOST, APP_DB_TLS
//
//	port := gen.Config().Number("port")
//
// The baseline fixes the shape: every source must use the same keys and the
// same kind (string, number, boolean or nested tree) per key. Kind changes fail
// with *TypeMismatchError; keys the baseline lacks are reported to the
// unknown-key handler (a zerolog warning by default) and skipped.
//
// See example_test.go for detailed usage.
package treeconf
