package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/insightloom/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set InsightLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "projects_dir: %s\n", cfg.ProjectsDir)
		if cfg.AuditDB == "" {
			fmt.Fprintln(out, "audit_db: (disabled)")
		} else {
			fmt.Fprintf(out, "audit_db: %s\n", cfg.AuditDB)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "histogram_bins: %d\n", cfg.HistogramBins)
		fmt.Fprintf(out, "top_values: %d\n", cfg.TopValues)
		fmt.Fprintf(out, "iqr_multiplier: %.2f\n", cfg.IQRMultiplier)
		fmt.Fprintf(out, "correlation_threshold: %.2f\n", cfg.CorrelationThreshold)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "pii_sample_size: %d\n", cfg.PIISampleSize)
		fmt.Fprintf(out, "pii_file_rows: %d\n", cfg.PIIFileRows)
		fmt.Fprintf(out, "dominance_threshold: %.2f\n", cfg.DominanceThreshold)
		fmt.Fprintf(out, "bias_keywords: %s\n", strings.Join(cfg.BiasKeywords, ","))
		fmt.Fprintf(out, "fairness_keywords: %s\n", strings.Join(cfg.FairnessKeywords, ","))
		fmt.Fprintf(out, "decimal_separator: %q\n", cfg.DecimalSeparator)
		fmt.Fprintf(out, "thousands_separator: %q\n", cfg.ThousandsSeparator)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
