// Package commands provides the CLI commands for treeconf.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Azhovan/treeconf"
)

// Version information set at build time
var Version = "0.1.0"

// globalOptions holds flags shared by all commands.
type globalOptions struct {
	baseline string
	logLevel string
}

// NewRootCommand builds the command tree. fs is where baselines, config files
// and dotenv files are read from.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "treeconf",
		Short: "Layer configuration files and environment variables over a baseline",
		Long: `treeconf loads a baseline configuration (JSON, JSONC, YAML or TOML),
overlays files and environment variables onto it, and prints the result.

The baseline fixes the shape: overrides must use the same keys and the
same value kinds.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.baseline, "baseline", "b", "", "Baseline config file (required)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	_ = rootCmd.MarkPersistentFlagRequired("baseline")

	rootCmd.AddCommand(newRenderCommand(fs, opts))
	rootCmd.AddCommand(newEnvCommand(fs, opts))

	return rootCmd
}

// Execute runs the root command against the OS filesystem.
func Execute() error {
	return NewRootCommand(afero.NewOsFs()).Execute()
}

// newLogger returns a console logger writing to w at the requested level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// loadBaseline reads a baseline file, inferring its format from the extension.
func loadBaseline(fs afero.Fs, path string) (*treeconf.Tree, error) {
	format, err := treeconf.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}

	raw, err := treeconf.Decode(data, format, "baseline:"+path)
	if err != nil {
		return nil, err
	}
	return treeconf.NewTree(raw)
}
