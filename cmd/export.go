package cmd

import (
	"fmt"

	"github.com/KaramelBytes/insightloom/internal/export"
	"github.com/spf13/cobra"
)

var exFlags targetFlags

var exportCmd = &cobra.Command{
	Use:   "export [dataset]",
	Short: "Profile a dataset and export per-column statistics to Parquet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exFlags.output == "" {
			return fmt.Errorf("--output is required")
		}
		t, err := exFlags.resolve(args)
		if err != nil {
			return err
		}
		p, done := newProfiler(cmd.Context(), exFlags.sheet)
		defer done()
		prof, err := p.RunFile(cmd.Context(), t.path, t.params)
		if err != nil {
			return err
		}
		rows := export.Rows(prof)
		if err := export.WriteColumnStats(rows, exFlags.output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d column rows to %s\n", len(rows), exFlags.output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exFlags.register(exportCmd, false)
	exportCmd.Flags().StringVarP(&exFlags.output, "output", "o", "", "Parquet file to write")
}
