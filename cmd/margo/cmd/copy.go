package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/margoproject/margo/pkg/templates"
)

// newCopyCommand creates the copy command.
func newCopyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <kind> <name>",
		Short: "Copy a bundled example into your template directory",
		Long: `Copy promotes a managed example into your baselines/ or outcomes/
directory so you can customize it. The copy belongs to you from then
on: refresh never updates or overwrites it. Copy refuses to overwrite
an existing template of the same name.`,
		Example: `  margo copy baseline minimal
  margo copy outcome wellbeing`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			kind, err := templates.ParseKind(args[0])
			if err != nil {
				return err
			}
			id := templates.ID{Kind: kind, Name: args[1]}

			m, err := newMargo()
			if err != nil {
				return err
			}

			dest, err := m.CopyExample(id)
			if err != nil {
				return err
			}

			if !globalFlags.Quiet {
				fmt.Fprintf(os.Stderr, "Copied %s to %s\n", id, dest)
			}
			return nil
		},
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(newCopyCommand())
}
