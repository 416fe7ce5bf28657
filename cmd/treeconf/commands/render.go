package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Azhovan/treeconf"
	"github.com/Azhovan/treeconf/sourceenv"
	"github.com/Azhovan/treeconf/sourcefile"
)

type renderOptions struct {
	files     []string
	optional  []string
	dotenv    []string
	envPrefix string
	output    string
	strict    bool
	sources   bool
	redact    []string
}

func newRenderCommand(fs afero.Fs, global *globalOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the effective configuration",
		Long: `Apply config files and environment variables to the baseline and print
the effective configuration. Sources are applied in flag order: files,
then optional files, then the environment.

Examples:
  treeconf render -b base.yaml -f prod.json
  treeconf render -b base.yaml --env-prefix APP_ --dotenv .env -o json
  treeconf render -b base.toml --sources --redact db.password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, fs, global, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.files, "file", "f", nil, "Config file to apply (repeatable, must exist)")
	cmd.Flags().StringArrayVar(&opts.optional, "optional-file", nil, "Config file to apply if present (repeatable)")
	cmd.Flags().StringArrayVar(&opts.dotenv, "dotenv", nil, ".env file merged under the process environment (repeatable)")
	cmd.Flags().StringVar(&opts.envPrefix, "env-prefix", "", "Apply environment variables with this prefix (e.g. APP_)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on keys the baseline does not define")
	cmd.Flags().BoolVar(&opts.sources, "sources", false, "Annotate text output with the source of each value")
	cmd.Flags().StringSliceVar(&opts.redact, "redact", nil, "Dotted paths whose values are hidden")

	return cmd
}

func runRender(cmd *cobra.Command, fs afero.Fs, global *globalOptions, opts *renderOptions) error {
	logger, err := newLogger(cmd.ErrOrStderr(), global.logLevel)
	if err != nil {
		return err
	}

	var dumpOpts []treeconf.DumpOption
	switch opts.output {
	case "text":
	case "json":
		dumpOpts = append(dumpOpts, treeconf.AsJSON())
	case "yaml":
		dumpOpts = append(dumpOpts, treeconf.AsYAML())
	default:
		return fmt.Errorf("unsupported output format %q (supported: text, json, yaml)", opts.output)
	}

	baseline, err := loadBaseline(fs, global.baseline)
	if err != nil {
		return err
	}

	genOpts := []treeconf.Option{treeconf.WithFs(fs), treeconf.WithLogger(logger)}
	if opts.strict {
		genOpts = append(genOpts, treeconf.WithStrict())
	}
	gen := treeconf.New(baseline, genOpts...)

	for _, path := range opts.files {
		logger.Debug().Str("file", path).Msg("applying config file")
		if err := sourcefile.New(path, sourcefile.Options{Required: true}).Apply(gen); err != nil {
			return err
		}
	}
	for _, path := range opts.optional {
		logger.Debug().Str("file", path).Msg("applying optional config file")
		if err := sourcefile.New(path, sourcefile.Options{}).Apply(gen); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("env-prefix") || len(opts.dotenv) > 0 {
		dict := sourceenv.Environ()
		if len(opts.dotenv) > 0 {
			fileVars, err := sourceenv.ReadDotenv(fs, opts.dotenv...)
			if err != nil {
				return err
			}
			dict = sourceenv.Merge(fileVars, dict)
		}
		logger.Debug().Str("prefix", opts.envPrefix).Int("vars", len(dict)).Msg("applying environment")
		gen.FromEnv(opts.envPrefix, dict)
	}

	if opts.sources {
		dumpOpts = append(dumpOpts, treeconf.WithSources(gen.Provenance()))
	}
	if len(opts.redact) > 0 {
		dumpOpts = append(dumpOpts, treeconf.WithRedact(opts.redact...))
	}

	return treeconf.Dump(cmd.OutOrStdout(), gen.Config(), dumpOpts...)
}
