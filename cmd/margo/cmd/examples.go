package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/margoproject/margo/internal/cmd/output"
)

// newExamplesCommand creates the examples command.
func newExamplesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List bundled templates and their sync status",
		Long: `Examples enumerates the templates bundled with this build and how each
relates to your synchronized copy:

  new        not yet materialized (run init or refresh)
  synced     matches the last synchronized content
  outdated   a newer default is available
  diverged   you edited the copy; refresh withholds the new default
  untracked  a hand-authored file occupies this name; never touched
  conflict   tracked in the manifest but no longer bundled`,
		Example: `  margo examples
  margo examples -o yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := newMargo()
			if err != nil {
				return err
			}

			statuses, err := m.Examples()
			if err != nil {
				return err
			}

			if globalFlags.Output == string(output.FormatJSON) || globalFlags.Output == string(output.FormatYAML) {
				formatter := output.NewFormatter(output.Format(globalFlags.Output))
				return formatter.Format(os.Stdout, statuses)
			}

			data := output.Data{Headers: []string{"kind", "name", "status"}}
			for _, s := range statuses {
				data.Rows = append(data.Rows, []string{s.ID.Kind.String(), s.ID.Name, s.Status})
			}
			return output.NewFormatter(output.FormatTable).Format(os.Stdout, data)
		},
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(newExamplesCommand())
}
