package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/margoproject/margo/internal/config"
)

// newInitCommand creates the init command.
func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the margo config directory",
		Long: `Init creates the config directory, writes a commented starter
config.toml if none exists, and materializes the bundled templates into
the examples/ directories. Existing files are never overwritten.`,
		Example: `  margo init`,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := newMargo()
			if err != nil {
				return err
			}

			result, err := m.InitWorkspace()
			if err != nil {
				return err
			}

			if !globalFlags.Quiet {
				if result.ConfigCreated {
					fmt.Fprintf(os.Stderr, "Created %s\n", result.ConfigDir)
				}
				fmt.Fprintf(os.Stderr, "Templates: %s\n", result.Report.Summary())
				if cfg := m.Config(); cfg.PullData == "" || cfg.PushMods == "" {
					fmt.Fprintf(os.Stderr, "Edit %s to set your data paths\n",
						config.Path(result.ConfigDir))
				}
			}
			return result.Report.Err()
		},
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(newInitCommand())
}
