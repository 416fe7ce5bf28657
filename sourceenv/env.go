package sourceenv

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Environ returns the process environment as a dictionary.
func Environ() map[string]string {
	result := make(map[string]string)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		result[parts[0]] = parts[1]
	}

	return result
}

// ReadDotenv parses .env files from fs. Later files override earlier ones.
// Missing files are an error.
func ReadDotenv(fs afero.Fs, paths ...string) (map[string]string, error) {
	result := make(map[string]string)

	for _, path := range paths {
		f, err := fs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dotenv file %s: %w", path, err)
		}

		vars, err := godotenv.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse dotenv file %s: %w", path, err)
		}

		for k, v := range vars {
			result[k] = v
		}
	}

	return result, nil
}

// Merge combines dictionaries. Later dictionaries win.
func Merge(dicts ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, d := range dicts {
		for k, v := range d {
			result[k] = v
		}
	}
	return result
}

// Options configures Filter.
type Options struct {
	// Prefix keeps names starting with prefix. Empty keeps everything.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, APP_ matches app_, App_, etc.
	CaseSensitive bool
}

// Filter returns the entries of dict whose names match opts.Prefix.
// Names are kept as-is; the prefix is not stripped because FromEnv expects
// full variable names.
func Filter(dict map[string]string, opts Options) map[string]string {
	result := make(map[string]string)

	for key, value := range dict {
		if opts.Prefix != "" {
			var hasPrefix bool
			if opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
		}
		result[key] = value
	}

	return result
}
