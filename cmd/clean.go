package cmd

import (
	"fmt"

	"github.com/KaramelBytes/insightloom/internal/cleaning"
	"github.com/spf13/cobra"
)

var (
	clProject string
	clColumn  string
	clOldName string
	clNewName string
	clMethod  string
	clValue   string
	clSheet   string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <operation> <dataset>",
	Short: "Apply a cleaning operation to a dataset file in place",
	Long: `Apply one cleaning operation and write the dataset back to its file.

Operations:
  drop_duplicates                                  remove exact duplicate rows
  drop_column   --column NAME                      remove a column
  rename_column --old NAME --new NAME              rename a column
  impute        --column NAME --method M [--value] fill missing cells (mean|median|mode|constant)
  anonymize     --column NAME                      replace values with BLAKE2b digests`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		op := cleaning.Operation{
			Name:    args[0],
			Column:  clColumn,
			OldName: clOldName,
			NewName: clNewName,
			Method:  clMethod,
			Value:   clValue,
		}
		if !cleaning.Known(op.Name) {
			return fmt.Errorf("%q: %w", op.Name, cleaning.ErrUnknownOperation)
		}
		path := args[1]
		if clProject != "" {
			p, err := loadProject(clProject)
			if err != nil {
				return err
			}
			if d, err := p.FindDataset(path); err == nil {
				path = d.Path
			}
		}
		ctx := cmd.Context()
		opt := loadOptions()
		opt.Sheet = clSheet
		var rec cleaning.Recorder
		if a := openAudit(ctx); a != nil {
			defer a.Close()
			rec = a
		}
		res, err := cleaning.NewApplier(log, rec, opt).Apply(ctx, path, op)
		if err != nil {
			return err
		}
		if res.Changed {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", res.Message)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (no changes)\n", res.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clProject, "project", "p", "", "project name (dataset may then be a dataset id or name)")
	cleanCmd.Flags().StringVar(&clColumn, "column", "", "target column")
	cleanCmd.Flags().StringVar(&clOldName, "old", "", "rename_column: current name")
	cleanCmd.Flags().StringVar(&clNewName, "new", "", "rename_column: new name")
	cleanCmd.Flags().StringVar(&clMethod, "method", "mean", "impute: mean|median|mode|constant")
	cleanCmd.Flags().StringVar(&clValue, "value", "", "impute: constant fill value")
	cleanCmd.Flags().StringVar(&clSheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
}
