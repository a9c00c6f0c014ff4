package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/privacy"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	scFlags targetFlags
	scRows  int
)

var scanCmd = &cobra.Command{
	Use:   "scan <dataset>",
	Short: "Scan the first rows of a file for likely PII in every column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := scFlags.resolve(args)
		if err != nil {
			return err
		}
		size := privacy.DefaultSampleSize
		rows := scRows
		if cfg != nil {
			if cfg.PIISampleSize > 0 {
				size = cfg.PIISampleSize
			}
			if rows <= 0 {
				rows = cfg.PIIFileRows
			}
		}
		res, err := privacy.New(size).ScanFile(t.path, rows)
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			log.WithField("column", e.Column).Warn(e.Err)
		}
		return scFlags.emit(cmd, rendering{
			title: "PII Scan",
			value: res,
			markdown: func() string {
				var b strings.Builder
				b.WriteString("# PII Scan\n\n")
				if len(res.Warnings) == 0 {
					b.WriteString("No likely PII found.\n")
				}
				for _, w := range res.Warnings {
					b.WriteString(fmt.Sprintf("- `%s`: %s (%d matches)\n", w.Column, w.Type, w.MatchCount))
				}
				return b.String()
			},
			table: func(w *strings.Builder) error {
				tw := tablewriter.NewWriter(w)
				tw.Header([]string{"Column", "Type", "Matches"})
				rows := make([][]string, 0, len(res.Warnings))
				for _, pw := range res.Warnings {
					rows = append(rows, []string{pw.Column, pw.Type, fmt.Sprint(pw.MatchCount)})
				}
				if err := tw.Bulk(rows); err != nil {
					return err
				}
				return tw.Render()
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scFlags.register(scanCmd, true)
	scanCmd.Flags().IntVar(&scRows, "rows", 0, "rows to read and scan (default from pii_file_rows)")
}
