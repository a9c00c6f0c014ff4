package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/KaramelBytes/insightloom/internal/audit"
	cfgpkg "github.com/KaramelBytes/insightloom/internal/config"
	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	noAudit bool

	// Loaded configuration
	cfg *cfgpkg.Global
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "insightloom",
	Short: "InsightLoom CLI: profile datasets and turn them into data stories",
	Long: `InsightLoom profiles tabular datasets (CSV, TSV, XLSX), checks them for PII and
bias, cleans them, and generates insights, hypotheses and narratives tailored to a
data story and its audience.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.insightloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noAudit, "no-audit", false, "do not record this run in the audit log")
}

func loadConfig() {
	// A .env in the working directory may carry INSIGHTLOOM_* overrides.
	_ = godotenv.Load()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
	} else {
		cfg = c
		if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
			log.SetLevel(lvl)
		} else if c.LogLevel != "" {
			fmt.Fprintf(os.Stderr, "⚠ Warning: invalid log_level %q, using warn\n", c.LogLevel)
		}
	}
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
}

// settings returns the loaded configuration, loading it on first use.
func settings() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// openAudit opens the configured audit log. It returns nil when auditing is
// disabled or the log cannot be opened; the latter is reported as a warning.
func openAudit(ctx context.Context) *audit.Log {
	if noAudit || cfg == nil || cfg.AuditDB == "" {
		return nil
	}
	a, err := audit.Open(ctx, cfg.AuditDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: audit log disabled: %v\n", err)
		return nil
	}
	return a
}

// newProfiler builds a profiler from the loaded configuration. The returned
// cleanup closes the audit log, if one was opened.
func newProfiler(ctx context.Context, sheet string) (*profile.Profiler, func()) {
	pc := profile.FromGlobal(cfg)
	pc.Load.Sheet = sheet
	a := openAudit(ctx)
	if a == nil {
		return profile.New(pc, log, nil), func() {}
	}
	return profile.New(pc, log, a), func() { _ = a.Close() }
}
