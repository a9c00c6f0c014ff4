package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/insightloom/internal/project"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	listProjects bool
	listDatasets bool
	listStories  bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, datasets or stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 0
		for _, b := range []bool{listProjects, listDatasets, listStories} {
			if b {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("specify exactly one of --projects, --datasets or --stories")
		}
		out := cmd.OutOrStdout()
		if listProjects {
			return listAllProjects(out)
		}
		if listProjName == "" {
			return fmt.Errorf("--project is required when using --datasets or --stories")
		}
		p, err := loadProject(listProjName)
		if err != nil {
			return err
		}
		if listDatasets {
			printDatasets(out, p)
			return nil
		}
		printStories(out, p)
		return nil
	},
}

func printDatasets(out io.Writer, p *project.Project) {
	ds := p.ListDatasets()
	if len(ds) == 0 {
		fmt.Fprintln(out, "(no datasets)")
		return
	}
	for _, d := range ds {
		fmt.Fprintf(out, "- %s: %s (%s rows, %d columns)", d.ID, d.Name, humanize.Comma(int64(d.Rows)), d.Columns)
		if d.Description != "" {
			fmt.Fprintf(out, " %s", d.Description)
		}
		fmt.Fprintf(out, ", added %s\n", humanize.Time(d.AddedAt))
	}
}

func printStories(out io.Writer, p *project.Project) {
	ss := p.ListStories()
	if len(ss) == 0 {
		fmt.Fprintln(out, "(no stories)")
		return
	}
	for _, s := range ss {
		fmt.Fprintf(out, "- %s: %s [%s, %s]", s.ID, s.Title, s.StoryType, s.Audience)
		if d, err := p.StoryDataset(s); err == nil {
			fmt.Fprintf(out, " on %s", d.Name)
		}
		fmt.Fprintln(out)
	}
}

func listAllProjects(out io.Writer) error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if project.Exists(filepath.Join(root, e.Name())) {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a project")
	listCmd.Flags().BoolVar(&listStories, "stories", false, "list stories in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --datasets or --stories")
}
