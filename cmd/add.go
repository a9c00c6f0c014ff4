package cmd

import (
	"fmt"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	addProjectName string
	addDesc        string
	addSheet       string
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a dataset with a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addProjectName == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := loadProject(addProjectName)
		if err != nil {
			return err
		}
		opt := loadOptions()
		opt.Sheet = addSheet
		d, err := p.AddDataset(args[0], addDesc, opt)
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset added: %s (%s rows, %d columns, %s) id=%s\n",
			d.Name, humanize.Comma(int64(d.Rows)), d.Columns, humanize.Bytes(uint64(d.SizeBytes)), d.ID)
		return nil
	},
}

// loadOptions derives dataset read options from the loaded configuration.
func loadOptions() dataset.Options {
	if cfg == nil {
		return dataset.Options{}
	}
	return dataset.Options{MaxRows: cfg.MaxRows, Parse: cfg.ParseOptions()}
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addProjectName, "project", "p", "", "project name")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "dataset description")
	addCmd.Flags().StringVar(&addSheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
}
