package cmd

import (
	"fmt"

	"github.com/KaramelBytes/insightloom/internal/audit"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	auAction string
	auLimit  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit log of profiling and cleaning runs",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || cfg.AuditDB == "" {
			return fmt.Errorf("audit log is disabled (set audit_db)")
		}
		a, err := audit.Open(cmd.Context(), cfg.AuditDB)
		if err != nil {
			return err
		}
		defer a.Close()
		entries, err := a.Recent(cmd.Context(), auAction, auLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "(no audit entries)")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "- %s %-7s %s (%s)\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Details, humanize.Time(e.Timestamp))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().StringVar(&auAction, "action", "", "only entries with this action (PROFILE or CLEAN)")
	auditListCmd.Flags().IntVarP(&auLimit, "limit", "n", 20, "maximum entries to show")
}
