// Package sourceenv builds environment dictionaries for Generator.FromEnv.
//
// Dictionaries map variable names to raw string values. They can come from
// the process environment, from .env files, or be merged and filtered.
//
// Example:
//
//	dict, err := sourceenv.ReadDotenv(afero.NewOsFs(), ".env")
//	if err != nil { ... }
//	gen.FromEnv("APP_", sourceenv.Merge(dict, sourceenv.Environ()))
package sourceenv
