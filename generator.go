package treeconf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/Azhovan/treeconf/sourceenv"
)

// Generator owns a working tree cloned from a baseline and populates it from
// objects, strings, files and environment dictionaries. Each populate call
// mutates the working tree in place; later calls override earlier ones.
//
// A Generator is not safe for concurrent use. Populate calls, including the
// asynchronous FromFile, must be sequenced by the caller.
type Generator struct {
	config    *Tree
	onUnknown UnknownKeyHandler
	strict    bool
	fs        afero.Fs
	logger    zerolog.Logger
	sources   map[string]string // leaf path -> last writer
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used by the default unknown-key handler.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithFs sets the filesystem files are read from. Default: the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(g *Generator) {
		g.fs = fs
	}
}

// WithUnknownKeyHandler installs h as the unknown-key handler.
func WithUnknownKeyHandler(h UnknownKeyHandler) Option {
	return func(g *Generator) {
		g.onUnknown = h
	}
}

// WithStrict makes unknown keys fail the populate call with *UnknownKeysError
// instead of being reported to the handler. Known keys of the same call are
// still applied.
func WithStrict() Option {
	return func(g *Generator) {
		g.strict = true
	}
}

// New creates a Generator whose working tree is a deep copy of baseline.
// The baseline itself is never modified.
func New(baseline *Tree, opts ...Option) *Generator {
	g := &Generator{
		config:  baseline.Clone(),
		fs:      afero.NewOsFs(),
		logger:  zerolog.New(os.Stderr).With().Timestamp().Str("component", "treeconf").Logger(),
		sources: make(map[string]string),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.onUnknown == nil {
		g.onUnknown = g.warnUnknown
	}
	g.config.Walk(func(path string, _ Value) {
		g.sources[path] = SourceDefault
	})
	return g
}

// NewFromStruct builds the baseline from a struct (see FromStruct) and
// returns a Generator for it.
func NewFromStruct(v any, opts ...Option) (*Generator, error) {
	baseline, err := FromStruct(v)
	if err != nil {
		return nil, err
	}
	return New(baseline, opts...), nil
}

// Config returns the working tree, reflecting every populate call so far.
func (g *Generator) Config() *Tree {
	return g.config
}

// Bind copies the working tree into the struct pointed to by out.
func (g *Generator) Bind(out any) error {
	return Bind(g.config, out)
}

// SetUnknownConfigHandler replaces the unknown-key handler for subsequent
// populate calls. A nil handler restores the default warning.
func (g *Generator) SetUnknownConfigHandler(h UnknownKeyHandler) *Generator {
	if h == nil {
		h = g.warnUnknown
	}
	g.onUnknown = h
	return g
}

func (g *Generator) warnUnknown(path string) {
	g.logger.Warn().Str("key", path).Msg("unknown config key")
}

// FromObject merges a partial tree. See Merge for the rules.
func (g *Generator) FromObject(patch map[string]any) error {
	return g.apply(patch, SourceObject)
}

// FromString parses text in the given format and merges the result.
// FormatAuto is rejected with ErrUnsupportedFormat.
func (g *Generator) FromString(text string, format Format) error {
	return g.FromBytes([]byte(text), format)
}

// FromBytes is FromString for raw bytes.
func (g *Generator) FromBytes(data []byte, format Format) error {
	source := "string:" + format.String()
	patch, err := Decode(data, format, "string")
	if err != nil {
		return err
	}
	return g.apply(patch, source)
}

// FromFileSync reads path, infers the format from its extension and merges
// the content. The format is checked before the file is read.
func (g *Generator) FromFileSync(path string) error {
	return g.FromFileSyncAs(path, FormatAuto)
}

// FromFileSyncAs is FromFileSync with an explicit format. FormatAuto infers
// the format from the extension.
func (g *Generator) FromFileSyncAs(path string, format Format) error {
	if format == FormatAuto {
		inferred, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = inferred
	}

	data, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	source := "file:" + filepath.Base(path)
	patch, err := Decode(data, format, source)
	if err != nil {
		return err
	}
	return g.apply(patch, source)
}

// FromFile is the asynchronous FromFileSync. The read, parse and merge run on
// another goroutine; the returned channel yields the result once and is then
// closed. The caller must receive from it before touching the generator again.
func (g *Generator) FromFile(path string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- g.FromFileSync(path)
	}()
	return done
}

// FromEnv overlays values from dict onto the working tree (see OverlayEnv).
// A nil dict means the process environment.
func (g *Generator) FromEnv(prefix string, dict map[string]string) *Generator {
	if dict == nil {
		dict = sourceenv.Environ()
	}
	overlayEnv(g.config, prefix, "", dict, func(path, name string) {
		g.sources[path] = "env:" + name
	})
	return g
}

// apply merges patch, recording source as the writer of every leaf it sets.
func (g *Generator) apply(patch map[string]any, source string) error {
	var unknown []string
	hooks := mergeHooks{
		unknown: func(path string) {
			if g.strict {
				unknown = append(unknown, path)
				return
			}
			g.onUnknown(path)
		},
		set: func(path string) {
			g.sources[path] = source
		},
	}

	if err := mergeTree(g.config, patch, "", hooks); err != nil {
		return fmt.Errorf("populate from %s: %w", source, err)
	}
	if len(unknown) > 0 {
		return fmt.Errorf("populate from %s: %w", source, &UnknownKeysError{Paths: unknown})
	}
	return nil
}
