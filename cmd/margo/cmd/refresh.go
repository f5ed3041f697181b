package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/margoproject/margo/internal/cmd/output"
	"github.com/margoproject/margo/pkg/reconcile"
)

// newRefreshCommand creates the refresh command.
func newRefreshCommand() *cobra.Command {
	var (
		force   bool
		sidecar bool
		dryRun  bool
		prune   bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Synchronize bundled templates with your copies",
		Long: `Refresh reconciles the bundled template set shipped with this build
against your synchronized copies under the examples/ directories.

Files you have not edited are updated in place. Files you have edited
are left untouched and reported as diverged; pass --sidecar to receive
the new default alongside your copy, or --force to overwrite it.

Hand-authored templates (files margo never wrote) are never touched.
Templates tracked in the manifest but no longer bundled are reported as
conflicts; pass --prune to drop their tracking records (files stay).`,
		Example: `  margo refresh                # update unmodified copies
  margo refresh --dry-run      # preview actions without writing
  margo refresh --sidecar      # deliver new defaults beside edited copies
  margo refresh --force        # overwrite edited copies (destructive)
  margo refresh --prune        # drop records for templates no longer bundled`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if force && sidecar {
				return fmt.Errorf("--force and --sidecar are mutually exclusive")
			}

			m, err := newMargo()
			if err != nil {
				return err
			}

			report, err := m.Apply(
				reconcile.WithForce(force),
				reconcile.WithSidecar(sidecar),
				reconcile.WithDryRun(dryRun),
				reconcile.WithPrune(prune),
			)
			if err != nil {
				return err
			}

			if err := renderReport(report); err != nil {
				return err
			}

			// Divergence is informational; only failed writes make the run
			// exit nonzero.
			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"Overwrite diverged copies with the new defaults (destructive)")
	cmd.Flags().BoolVar(&sidecar, "sidecar", false,
		"Write new defaults to <name>.new.toml beside diverged copies")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Show actions without writing files or updating the manifest")
	cmd.Flags().BoolVar(&prune, "prune", false,
		"Remove tracking records for templates no longer bundled")

	return cmd
}

// renderReport prints a reconciliation report in the selected output format.
func renderReport(report *reconcile.Report) error {
	if globalFlags.Output == string(output.FormatJSON) || globalFlags.Output == string(output.FormatYAML) {
		formatter := output.NewFormatter(output.Format(globalFlags.Output))
		return formatter.Format(os.Stdout, report)
	}

	data := output.Data{
		Headers: []string{"template", "action", "status", "path"},
	}
	for _, o := range report.Outcomes {
		data.Rows = append(data.Rows, []string{
			o.Action.ID.String(),
			o.Action.Op.String(),
			o.Status(),
			o.Action.Path,
		})
	}
	formatter := output.NewFormatter(output.FormatTable)
	if err := formatter.Format(os.Stdout, data); err != nil {
		return err
	}

	if !globalFlags.Quiet {
		fmt.Fprintf(os.Stderr, "%s\n", report.Summary())
		for _, o := range report.Diverged() {
			fmt.Fprintf(os.Stderr, "  %s has local edits; use --sidecar or --force to receive the new default\n",
				o.Action.ID)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newRefreshCommand())
}
