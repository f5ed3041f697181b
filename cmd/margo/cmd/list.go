package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/margoproject/margo/internal/cmd/output"
)

// newListCommand creates the list command.
func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your templates",
		Long: `List enumerates your hand-owned templates under the baselines/ and
outcomes/ directories, grouped by kind then name. These files belong to
you; refresh never touches them.`,
		Example: `  margo list
  margo list -o json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := newMargo()
			if err != nil {
				return err
			}

			ids, err := m.List()
			if err != nil {
				return err
			}

			if globalFlags.Output == string(output.FormatJSON) || globalFlags.Output == string(output.FormatYAML) {
				formatter := output.NewFormatter(output.Format(globalFlags.Output))
				return formatter.Format(os.Stdout, ids)
			}

			data := output.Data{Headers: []string{"kind", "name"}}
			for _, id := range ids {
				data.Rows = append(data.Rows, []string{id.Kind.String(), id.Name})
			}
			return output.NewFormatter(output.FormatTable).Format(os.Stdout, data)
		},
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(newListCommand())
}
