package main

import (
	"fmt"
	"os"

	"bitsy/internal/storage"

	"github.com/spf13/cobra"
)

func newImportCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import habits from an exported data file",
		Long: `Import habits from a saved data record or from a legacy habit array.

Habits whose id is already present, or whose name is empty, are skipped.
The current selection and theme are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			habits, origin, err := storage.DecodeExport(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				_, res := storage.Merge(c.controller().State(), habits)
				fmt.Fprintf(out, "Would import %d habit(s) from %s data, skipping %d\n", res.Added, origin, res.Skipped)
				return nil
			}

			res := c.controller().Import(habits)
			if err := c.saveErr(); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Imported %d habit(s) from %s data\n", res.Added, origin)
			if res.Skipped > 0 {
				fmt.Fprintf(out, "  Skipped: %d\n", res.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")
	return cmd
}
