package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bitsy/internal/fsutil"
	"bitsy/internal/report"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		all    bool
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a progress report",
		Long: `Export a progress report of the selected habit, or of every habit with --all.

Reports are written as Markdown or JSON, to stdout or to --output.`,
		Example: `  bitsy export
  bitsy export --all --format json -o progress.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			r, err := report.NewGenerator(c.cfg.UX.GridColumns).Generate(c.controller().State(), all)
			if err != nil {
				return fmt.Errorf("generate report: %w", err)
			}

			var data []byte
			switch f {
			case report.FormatJSON:
				data, err = report.FormatJSON(r)
				if err != nil {
					return fmt.Errorf("format report: %w", err)
				}
				data = append(data, '\n')
			default:
				data = []byte(report.FormatMarkdown(r))
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			if err := fsutil.WriteFileAtomic(output, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "report on every habit, not just the selected one")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
