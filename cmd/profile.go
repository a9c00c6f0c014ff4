package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/KaramelBytes/insightloom/internal/report"
	"github.com/KaramelBytes/insightloom/internal/utils"
	"github.com/spf13/cobra"
)

var profFlags targetFlags

var profileCmd = &cobra.Command{
	Use:   "profile [dataset]",
	Short: "Clean and profile a dataset: statistics, PII, bias, insights and health",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := profFlags.resolve(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		p, done := newProfiler(ctx, profFlags.sheet)
		defer done()

		prof, err := p.RunFile(ctx, t.path, t.params)
		if err != nil {
			return err
		}
		for _, w := range prof.Warnings {
			log.WithField("dataset", filepath.Base(t.path)).Debug(w)
		}
		if t.dataset != nil {
			if err := saveProjectProfile(t, prof); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Saved profile %s to project '%s'\n", prof.RunID, t.proj.Name)
		}
		title := titleOr(t.params.Title, "Profile of "+filepath.Base(t.path))
		return profFlags.emit(cmd, rendering{
			title:    title,
			value:    prof,
			markdown: func() string { return report.Markdown(prof, title) },
			table:    func(w *strings.Builder) error { return report.Table(w, prof) },
		})
	},
}

// saveProjectProfile stores the profile JSON under the project and records
// its run id on the dataset.
func saveProjectProfile(t *target, prof *profile.Profile) error {
	dir := filepath.Join(t.proj.RootDir(), "profiles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := utils.PrettyJSON(prof)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(filepath.Join(dir, t.dataset.ID+".json"), b); err != nil {
		return fmt.Errorf("write project profile: %w", err)
	}
	t.dataset.LastRunID = prof.RunID
	return t.proj.Save()
}

func titleOr(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profFlags.register(profileCmd, true)
}
