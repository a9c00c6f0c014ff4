package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/KaramelBytes/insightloom/internal/project"
	"github.com/KaramelBytes/insightloom/internal/report"
	"github.com/KaramelBytes/insightloom/internal/utils"
	"github.com/spf13/cobra"
)

// targetFlags select the dataset and story a command works on and how the
// result is written.
type targetFlags struct {
	project   string
	story     string
	title     string
	context   string
	storyType string
	audience  string
	outcome   string
	sheet     string
	format    string
	output    string
}

func (f *targetFlags) register(c *cobra.Command, withOutput bool) {
	fl := c.Flags()
	fl.StringVarP(&f.project, "project", "p", "", "project name (dataset argument may then be a dataset id or name)")
	fl.StringVar(&f.story, "story", "", "story id or title supplying title, context, type and audience")
	fl.StringVar(&f.title, "title", "", "story title (overrides --story)")
	fl.StringVar(&f.context, "context", "", "story context (overrides --story)")
	fl.StringVar(&f.storyType, "story-type", "", "story type: exploratory|trend|comparative|root_cause|predictive")
	fl.StringVar(&f.audience, "audience", "", "target audience: technical|executive|general")
	fl.StringVar(&f.outcome, "outcome", "", "outcome column for fairness scoring")
	fl.StringVar(&f.sheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
	if withOutput {
		fl.StringVarP(&f.format, "format", "f", "markdown", "output format: markdown|json|html|table")
		fl.StringVarP(&f.output, "output", "o", "", "write output to this file instead of stdout")
	}
}

// target is a resolved dataset file plus the story parameters for it.
type target struct {
	path    string
	params  profile.Params
	proj    *project.Project
	dataset *project.Dataset
}

func (f *targetFlags) resolve(args []string) (*target, error) {
	t := &target{}
	var story *project.Story
	if f.project != "" {
		p, err := loadProject(f.project)
		if err != nil {
			return nil, err
		}
		t.proj = p
		if f.story != "" {
			s, err := p.FindStory(f.story)
			if err != nil {
				return nil, err
			}
			story = s
			t.params = s.Params()
		}
	} else if f.story != "" {
		return nil, errors.New("--story requires --project")
	}

	switch {
	case len(args) > 0 && t.proj != nil:
		if d, err := t.proj.FindDataset(args[0]); err == nil {
			t.dataset = d
			t.path = d.Path
		} else {
			t.path = args[0]
		}
	case len(args) > 0:
		t.path = args[0]
	case story != nil:
		d, err := t.proj.StoryDataset(story)
		if err != nil {
			return nil, err
		}
		t.dataset = d
		t.path = d.Path
	default:
		return nil, errors.New("specify a dataset file, or --project with --story")
	}

	if f.title != "" {
		t.params.Title = f.title
	}
	if f.context != "" {
		t.params.Context = f.context
	}
	if f.storyType != "" {
		t.params.StoryType = f.storyType
	}
	if f.audience != "" {
		t.params.Audience = f.audience
	}
	if f.outcome != "" {
		t.params.OutcomeColumn = f.outcome
	}
	return t, nil
}

// rendering is one command result in every supported format.
type rendering struct {
	title    string
	value    any
	markdown func() string
	table    func(w *strings.Builder) error
}

func (f *targetFlags) emit(c *cobra.Command, r rendering) error {
	var data []byte
	switch strings.ToLower(f.format) {
	case "", "markdown", "md":
		data = []byte(r.markdown())
	case "json":
		b, err := utils.PrettyJSON(r.value)
		if err != nil {
			return err
		}
		data = append(b, '\n')
	case "html":
		data = report.HTML(r.markdown(), r.title)
	case "table":
		if r.table == nil {
			data = []byte(r.markdown())
			break
		}
		var sb strings.Builder
		if err := r.table(&sb); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
		data = []byte(sb.String())
	default:
		return fmt.Errorf("unsupported --format: %s (use markdown|json|html|table)", f.format)
	}
	if f.output != "" {
		if err := os.WriteFile(f.output, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(c.OutOrStdout(), "✓ Wrote %s to %s\n", f.format, f.output)
		return nil
	}
	_, err := c.OutOrStdout().Write(data)
	return err
}
