package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/project"
)

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "sales.csv")
	if err := os.WriteFile(p, []byte("month,revenue\n2024-01-01,10\n2024-02-01,12\n2024-03-01,15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDatasetsAndStoriesRoundTrip(t *testing.T) {
	tdir := t.TempDir()
	csv := writeCSV(t, tdir)

	proj := project.NewProject("test", "demo", filepath.Join(tdir, "proj"))
	d, err := proj.AddDataset(csv, "monthly sales", dataset.Options{})
	if err != nil {
		t.Fatalf("add dataset: %v", err)
	}
	if d.Rows != 3 || d.Columns != 2 {
		t.Fatalf("unexpected shape: %d rows, %d columns", d.Rows, d.Columns)
	}
	s, err := proj.AddStory(project.Story{
		Title:     "Revenue growth",
		Objective: "Explain growth",
		StoryType: insights.StoryTrend,
		Audience:  insights.AudienceExecutive,
		DatasetID: "sales.csv",
	})
	if err != nil {
		t.Fatalf("add story: %v", err)
	}
	if s.DatasetID != d.ID {
		t.Fatalf("story should resolve dataset by name, got %q", s.DatasetID)
	}
	if err := proj.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := project.LoadProject(proj.RootDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.FindStory("Revenue growth")
	if err != nil {
		t.Fatalf("find story: %v", err)
	}
	params := got.Params()
	if params.StoryType != insights.StoryTrend || params.Audience != insights.AudienceExecutive {
		t.Fatalf("unexpected params: %+v", params)
	}
	if params.Context != "Explain growth" {
		t.Fatalf("context should carry the objective, got %q", params.Context)
	}
	bound, err := loaded.StoryDataset(got)
	if err != nil || bound.Path != d.Path {
		t.Fatalf("story dataset: %v %v", bound, err)
	}
}

func TestStoryDefaultsAndValidation(t *testing.T) {
	proj := project.NewProject("test", "", t.TempDir())
	s, err := proj.AddStory(project.Story{Title: "  Overview "})
	if err != nil {
		t.Fatalf("add story: %v", err)
	}
	if s.Title != "Overview" || s.StoryType != insights.StoryExploratory || s.Audience != insights.AudienceGeneral {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if _, err := proj.AddStory(project.Story{}); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := proj.AddStory(project.Story{Title: "x", StoryType: "saga"}); err == nil {
		t.Fatal("expected error for invalid story type")
	}
	if _, err := proj.AddStory(project.Story{Title: "x", Audience: "board"}); err == nil {
		t.Fatal("expected error for invalid audience")
	}
	if _, err := proj.AddStory(project.Story{Title: "x", DatasetID: "missing"}); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupMissesAndRemoval(t *testing.T) {
	tdir := t.TempDir()
	if _, err := project.LoadProject(filepath.Join(tdir, "nope")); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}

	proj := project.NewProject("test", "", tdir)
	if _, err := proj.FindStory("nope"); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	d, err := proj.AddDataset(writeCSV(t, tdir), "", dataset.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, err := proj.AddStory(project.Story{Title: "t", DatasetID: d.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := proj.RemoveDataset(d.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.DatasetID != "" {
		t.Fatal("story should be unlinked from removed dataset")
	}
	if _, err := proj.StoryDataset(s); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(proj.ListDatasets()) != 0 || len(proj.ListStories()) != 1 {
		t.Fatal("unexpected listing after removal")
	}
}

func TestAddDatasetRejectsUnsupported(t *testing.T) {
	tdir := t.TempDir()
	p := filepath.Join(tdir, "notes.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	proj := project.NewProject("test", "", tdir)
	if _, err := proj.AddDataset(p, "", dataset.Options{}); !errors.Is(err, dataset.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
