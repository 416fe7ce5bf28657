// Package sourcefile applies configuration files to a treeconf.Generator.
//
// Format is auto-detected from extension (.json, .jsonc, .yaml, .yml, .toml)
// unless set in Options. Non-required files may be missing.
//
// Example:
//
//	file := sourcefile.New("config.yaml", sourcefile.Options{Required: true})
//	if err := file.Apply(gen); err != nil { ... }
package sourcefile
