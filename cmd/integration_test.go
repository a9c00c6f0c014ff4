package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/insightloom/internal/export"
	"github.com/KaramelBytes/insightloom/internal/project"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state from one
// invocation does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// isolate points HOME at a temp dir so config, projects and the audit log
// stay inside the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeSales(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("month,region,revenue,units\n")
	for i := 0; i < 12; i++ {
		region := "north"
		if i%2 == 1 {
			region = "south"
		}
		b.WriteString(fmt.Sprintf("2024-%02d-01,%s,%d,%d\n", i+1, region, 100+10*i, 10+i))
	}
	// duplicate of the last row
	b.WriteString("2024-12-01,south,210,21\n")
	p := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func TestCLI_InitAddStoryProfile(t *testing.T) {
	home := isolate(t)
	csv := writeSales(t, home)

	runCmd(t, "init", "shop", "-d", "integration test")
	out := runCmd(t, "add", "-p", "shop", csv, "--desc", "monthly sales")
	assert.Contains(t, out, "✓ Dataset added: sales.csv (13 rows, 4 columns")

	out = runCmd(t, "story", "create", "-p", "shop", "--title", "Revenue growth",
		"--objective", "Explain growth", "--type", "trend", "--audience", "executive", "--dataset", "sales.csv")
	assert.Contains(t, out, "✓ Story created: Revenue growth (trend, executive)")

	out = runCmd(t, "list", "--stories", "-p", "shop")
	assert.Contains(t, out, "Revenue growth [trend, executive] on sales.csv")
	out = runCmd(t, "list", "--projects")
	assert.Contains(t, out, "- shop")

	out = runCmd(t, "profile", "-p", "shop", "--story", "Revenue growth", "-f", "json")
	var prof map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &prof))
	info := prof["dataset_info"].(map[string]any)
	assert.Equal(t, 12.0, info["rows"])
	assert.Equal(t, 1.0, info["duplicates_removed"])

	dir, err := resolveProjectDir("shop")
	require.NoError(t, err)
	p, err := project.LoadProject(dir)
	require.NoError(t, err)
	d, err := p.FindDataset("sales.csv")
	require.NoError(t, err)
	assert.Equal(t, prof["run_id"], d.LastRunID)
	_, err = os.Stat(filepath.Join(dir, "profiles", d.ID+".json"))
	assert.NoError(t, err)

	out = runCmd(t, "hypotheses", "-p", "shop", "--story", "Revenue growth")
	assert.Contains(t, out, "# Hypotheses")
	assert.Contains(t, out, "(trend, high confidence)")
}

func TestCLI_ProfileFormats(t *testing.T) {
	home := isolate(t)
	csv := writeSales(t, home)

	out := runCmd(t, "profile", csv)
	assert.Contains(t, out, "# Profile of sales.csv")
	assert.Contains(t, out, "## Health")

	htmlPath := filepath.Join(home, "report.html")
	out = runCmd(t, "profile", csv, "-f", "html", "-o", htmlPath)
	assert.Contains(t, out, "✓ Wrote html to "+htmlPath)
	b, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<title>Profile of sales.csv</title>")

	out = runCmd(t, "profile", csv, "-f", "table")
	assert.Contains(t, out, "12 rows, 4 columns")
	assert.Contains(t, out, "Health:")

	_, err = execute("profile", csv, "-f", "yaml")
	assert.Error(t, err)
	_, err = execute("profile", filepath.Join(home, "missing.csv"))
	assert.Error(t, err)
}

func TestCLI_InsightCommands(t *testing.T) {
	home := isolate(t)
	csv := writeSales(t, home)

	assert.Contains(t, runCmd(t, "questions", csv, "--title", "Revenue growth"), "# Questions to Explore")
	assert.Contains(t, runCmd(t, "correlations", csv), "revenue ~ units")
	assert.Contains(t, runCmd(t, "recommend", csv), "# Recommendations")
	assert.Contains(t, runCmd(t, "narrative", csv, "--title", "Q1 Story"), "## Q1 Story")
	assert.Contains(t, runCmd(t, "suggest", csv), "Revenue Growth Analysis")
	assert.Contains(t, runCmd(t, "metrics", "Reduce", "Churn"), "Recall")
}

func TestCLI_CleanScanAndAudit(t *testing.T) {
	home := isolate(t)
	csv := writeSales(t, home)

	out := runCmd(t, "clean", "drop_duplicates", csv)
	assert.Contains(t, out, "Operation 'drop_duplicates' applied successfully")
	b, err := os.ReadFile(csv)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 13)

	_, err = execute("clean", "explode", csv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cleaning operation")

	runCmd(t, "profile", csv)
	out = runCmd(t, "audit", "list")
	assert.Contains(t, out, "PROFILE")
	assert.Contains(t, out, "CLEAN")
	out = runCmd(t, "audit", "list", "--action", "CLEAN")
	assert.NotContains(t, out, "PROFILE")

	contacts := filepath.Join(home, "contacts.csv")
	require.NoError(t, os.WriteFile(contacts, []byte("name,email\nann,ann@example.com\nbob,bob@example.org\n"), 0o644))
	out = runCmd(t, "scan", contacts)
	assert.Contains(t, out, "`email`: Email (2 matches)")
}

func TestCLI_ProfileBatchAndExport(t *testing.T) {
	home := isolate(t)
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	require.NoError(t, os.MkdirAll(d1, 0o755))
	require.NoError(t, os.MkdirAll(d2, 0o755))
	csv := "col1,col2\nA,1\nB,2\nC,3\n"
	require.NoError(t, os.WriteFile(filepath.Join(d1, "metrics.csv"), []byte(csv), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d2, "metrics.csv"), []byte(csv), 0o644))

	outDir := filepath.Join(home, "out")
	runCmd(t, "profile-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--quiet")
	for _, name := range []string{"metrics.profile.md", "metrics__2.profile.md"} {
		b, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(b), "# Profile of metrics.csv")
	}

	pq := filepath.Join(home, "stats.parquet")
	out := runCmd(t, "export", filepath.Join(d1, "metrics.csv"), "-o", pq)
	assert.Contains(t, out, "✓ Exported 2 column rows")
	rows, err := export.ReadColumnStats(pq)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "col1", rows[0].Column)
	assert.Equal(t, "categorical", rows[0].Kind)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	isolate(t)
	runCmd(t, "config", "set", "histogram_bins", "5")
	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "histogram_bins: 5")

	_, err := execute("config", "set", "nope", "1")
	assert.Error(t, err)
}

func TestCLI_StoryBriefFeedsQuestions(t *testing.T) {
	home := isolate(t)
	csv := writeSales(t, home)
	brief := filepath.Join(home, "brief.md")
	require.NoError(t, os.WriteFile(brief, []byte("# Brief\n\nWhy are customers leaving?\n"), 0o644))

	runCmd(t, "init", "briefs")
	runCmd(t, "add", "-p", "briefs", csv)
	runCmd(t, "story", "create", "-p", "briefs", "--title", "Retention", "--brief", brief, "--dataset", "sales.csv")

	p, err := project.LoadProject(filepath.Join(home, ".insightloom", "projects", "briefs"))
	require.NoError(t, err)
	s, err := p.FindStory("Retention")
	require.NoError(t, err)
	assert.Contains(t, s.Context, "Why are customers leaving?")

	_, err = execute("story", "create", "-p", "briefs", "--title", "Bad", "--brief", filepath.Join(home, "brief.pdf"))
	assert.Error(t, err)
}
