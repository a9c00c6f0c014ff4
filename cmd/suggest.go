package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/spf13/cobra"
)

var (
	sgFlags targetFlags
	mtFlags targetFlags
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <dataset>",
	Short: "Suggest data stories for a dataset from its file name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := filepath.Base(args[0])
		if sgFlags.project != "" {
			p, err := loadProject(sgFlags.project)
			if err != nil {
				return err
			}
			if d, err := p.FindDataset(args[0]); err == nil {
				name = d.Name
			}
		}
		stories := insights.SuggestStories(name)
		return sgFlags.emit(cmd, rendering{
			title: "Story Suggestions",
			value: stories,
			markdown: func() string {
				var b strings.Builder
				b.WriteString("# Story Suggestions for " + name + "\n\n")
				for _, s := range stories {
					b.WriteString(fmt.Sprintf("- **%s:** %s\n", s.Title, s.Context))
				}
				return b.String()
			},
		})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <objective>",
	Short: "Suggest success metrics for a business objective",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objective := strings.Join(args, " ")
		ms := insights.SuggestMetrics(objective)
		return mtFlags.emit(cmd, rendering{
			title: "Metric Suggestions",
			value: ms,
			markdown: func() string {
				var b strings.Builder
				b.WriteString("# Metric Suggestions\n\n")
				for _, m := range ms {
					b.WriteString(fmt.Sprintf("- **%s:** %s\n", m.Name, m.Description))
				}
				return b.String()
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(metricsCmd)
	suggestCmd.Flags().StringVarP(&sgFlags.project, "project", "p", "", "project name (dataset may then be a dataset id or name)")
	suggestCmd.Flags().StringVarP(&sgFlags.format, "format", "f", "markdown", "output format: markdown|json|html")
	suggestCmd.Flags().StringVarP(&sgFlags.output, "output", "o", "", "write output to this file instead of stdout")
	metricsCmd.Flags().StringVarP(&mtFlags.format, "format", "f", "markdown", "output format: markdown|json|html")
	metricsCmd.Flags().StringVarP(&mtFlags.output, "output", "o", "", "write output to this file instead of stdout")
}
