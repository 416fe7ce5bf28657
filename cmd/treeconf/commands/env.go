package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Azhovan/treeconf"
)

func newEnvCommand(fs afero.Fs, global *globalOptions) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "env",
		Short: "List the environment variables the baseline reads",
		Long: `List every environment variable name derived from the baseline.

Nested keys are joined with underscores and upper-cased, so key
obj.bool2 with prefix APP_ is read from APP_OBJ_BOOL2.

Examples:
  treeconf env -b base.yaml --env-prefix APP_`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := loadBaseline(fs, global.baseline)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VARIABLE\tKEY\tTYPE\t")
			for _, b := range treeconf.EnvNames(baseline, prefix) {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", b.Name, b.Path, b.Kind)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&prefix, "env-prefix", "", "Variable name prefix (e.g. APP_)")

	return cmd
}
