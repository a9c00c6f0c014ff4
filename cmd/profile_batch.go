package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/KaramelBytes/insightloom/internal/report"
	"github.com/KaramelBytes/insightloom/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	pbOutDir      string
	pbFormat      string
	pbConcurrency int
	pbQuiet       bool
)

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <files...>",
	Short: "Profile several datasets concurrently and write one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		ext := ".profile.md"
		switch pbFormat {
		case "markdown", "md":
		case "json":
			ext = ".profile.json"
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|json)", pbFormat)
		}
		if err := utils.EnsureDir(pbOutDir); err != nil {
			return err
		}
		outputs := batchOutputs(files, pbOutDir, ext)

		ctx := cmd.Context()
		p, done := newProfiler(ctx, "")
		defer done()

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		finished := 0
		g, gctx := errgroup.WithContext(ctx)
		if pbConcurrency > 0 {
			g.SetLimit(pbConcurrency)
		}
		for i, path := range files {
			g.Go(func() error {
				prof, err := p.RunFile(gctx, path, batchParams(path))
				if err != nil {
					return fmt.Errorf("%s: %w", filepath.Base(path), err)
				}
				var data []byte
				if ext == ".profile.json" {
					if data, err = utils.PrettyJSON(prof); err != nil {
						return err
					}
				} else {
					data = []byte(report.Markdown(prof, "Profile of "+filepath.Base(path)))
				}
				if err := utils.SafeWriteFile(outputs[i], data); err != nil {
					return fmt.Errorf("write %s: %w", outputs[i], err)
				}
				mu.Lock()
				defer mu.Unlock()
				finished++
				if !pbQuiet {
					fmt.Fprintf(out, "[%d/%d] ✓ %s -> %s\n", finished, len(files), filepath.Base(path), filepath.Base(outputs[i]))
				}
				return nil
			})
		}
		return g.Wait()
	},
}

// batchOutputs assigns each input a distinct report path in dir, suffixing
// names already taken with __2, __3 and so on.
func batchOutputs(files []string, dir, ext string) []string {
	taken := map[string]struct{}{}
	out := make([]string, len(files))
	for i, f := range files {
		base := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		name := base
		for n := 2; ; n++ {
			if _, ok := taken[name]; !ok {
				break
			}
			name = fmt.Sprintf("%s__%d", base, n)
		}
		taken[name] = struct{}{}
		out[i] = filepath.Join(dir, name+ext)
	}
	return out
}

func batchParams(path string) profile.Params {
	return profile.Params{Title: "Profile of " + filepath.Base(path)}
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	profileBatchCmd.Flags().StringVar(&pbOutDir, "out-dir", "profiles", "directory for the generated reports")
	profileBatchCmd.Flags().StringVarP(&pbFormat, "format", "f", "markdown", "report format: markdown|json")
	profileBatchCmd.Flags().IntVarP(&pbConcurrency, "concurrency", "j", 4, "maximum datasets profiled at once (0 = unlimited)")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress output")
}
