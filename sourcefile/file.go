package sourcefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/Azhovan/treeconf"
)

// Options configures file source behavior.
type Options struct {
	// Format overrides extension-based detection. Default: treeconf.FormatAuto.
	Format treeconf.Format
	// Required: if true, missing files cause an error. Default: false (Apply is a no-op).
	Required bool
}

// File is a configuration file bound to its options.
type File struct {
	path string
	opts Options
}

// New creates a file source.
func New(path string, opts Options) *File {
	return &File{
		path: path,
		opts: opts,
	}
}

// Apply reads the file into g. A missing non-required file leaves g untouched.
func (f *File) Apply(g *treeconf.Generator) error {
	err := g.FromFileSyncAs(f.path, f.opts.Format)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		if f.opts.Required {
			return fmt.Errorf("required config file not found: %s: %w", f.path, err)
		}
		return nil
	}
	return err
}

// Name returns a human-readable identifier for this source.
func (f *File) Name() string {
	return "file:" + filepath.Base(f.path)
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Watch emits a ChangeEvent whenever the file is written, created or renamed
// into place. The parent directory is watched so editors that replace files
// atomically are seen. The channel closes when ctx is cancelled.
//
// Events are only notifications: applying the new content to a generator is
// up to the receiver, which keeps all populate calls on one goroutine.
func (f *File) Watch(ctx context.Context) (<-chan treeconf.ChangeEvent, error) {
	target, err := filepath.Abs(f.path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", f.path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	events := make(chan treeconf.ChangeEvent)
	go func() {
		defer close(events)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case events <- treeconf.ChangeEvent{At: time.Now(), Cause: "file-changed:" + ev.Op.String()}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Str("file", f.path).Msg("config file watcher error")
			}
		}
	}()

	return events, nil
}
