package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/KaramelBytes/insightloom/internal/utils"
	"github.com/google/uuid"
)

const (
	projectFileName = utils.ProjectFile
)

// ErrNotFound is returned when a project, dataset or story lookup misses.
var ErrNotFound = errors.New("not found")

// Project groups datasets with the stories told about them.
type Project struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	Stories     map[string]*Story   `json:"stories"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// Dataset is a registered data file.
type Dataset struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	SizeBytes   int64     `json:"size_bytes"`
	AddedAt     time.Time `json:"added_at"`
	// LastRunID is the run id of the most recent profile of this dataset.
	LastRunID string `json:"last_run_id,omitempty"`
}

// Story is the business context a dataset is profiled against.
type Story struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Objective     string    `json:"business_objective"`
	Context       string    `json:"context"`
	StoryType     string    `json:"story_type"`
	Audience      string    `json:"target_audience"`
	DatasetID     string    `json:"dataset_id,omitempty"`
	OutcomeColumn string    `json:"outcome_column,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Params converts the story into profiling parameters.
func (s *Story) Params() profile.Params {
	return profile.Params{
		StoryType:     s.StoryType,
		Audience:      s.Audience,
		Title:         s.Title,
		Context:       strings.TrimSpace(s.Objective + " " + s.Context),
		OutcomeColumn: s.OutcomeColumn,
	}
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		Stories:     make(map[string]*Story),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project at %s: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	if p.Stories == nil {
		p.Stories = make(map[string]*Story)
	}
	p.rootDir = dir
	return &p, nil
}

// Exists reports whether dir holds a project.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, projectFileName))
	return err == nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddDataset loads the file at path to record its shape and registers it.
func (p *Project) AddDataset(path, description string, opt dataset.Options) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	opt.MaxRows = 0
	ds, err := dataset.Load(abs, opt)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	d := &Dataset{
		ID:          uuid.NewString(),
		Path:        abs,
		Name:        filepath.Base(abs),
		Description: description,
		Rows:        ds.Rows(),
		Columns:     len(ds.Columns),
		SizeBytes:   info.Size(),
		AddedAt:     time.Now(),
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	p.Datasets[d.ID] = d
	p.UpdatedAt = time.Now()
	return d, nil
}

// FindDataset resolves a dataset by id or file name.
func (p *Project) FindDataset(ref string) (*Dataset, error) {
	if d, ok := p.Datasets[ref]; ok {
		return d, nil
	}
	for _, id := range sortedIDs(p.Datasets) {
		if p.Datasets[id].Name == ref {
			return p.Datasets[id], nil
		}
	}
	return nil, fmt.Errorf("dataset %q: %w", ref, ErrNotFound)
}

// RemoveDataset unregisters a dataset and unlinks stories that pointed at it.
func (p *Project) RemoveDataset(ref string) error {
	d, err := p.FindDataset(ref)
	if err != nil {
		return err
	}
	delete(p.Datasets, d.ID)
	for _, s := range p.Stories {
		if s.DatasetID == d.ID {
			s.DatasetID = ""
		}
	}
	p.UpdatedAt = time.Now()
	return nil
}

// AddStory validates and registers a story. Empty story type and audience
// default to exploratory and general.
func (p *Project) AddStory(s Story) (*Story, error) {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return nil, errors.New("story title is required")
	}
	if s.StoryType == "" {
		s.StoryType = insights.StoryExploratory
	}
	if !validStoryType(s.StoryType) {
		return nil, fmt.Errorf("invalid story type: %s", s.StoryType)
	}
	if s.Audience == "" {
		s.Audience = insights.AudienceGeneral
	}
	if !validAudience(s.Audience) {
		return nil, fmt.Errorf("invalid audience: %s (use technical, executive or general)", s.Audience)
	}
	if s.DatasetID != "" {
		d, err := p.FindDataset(s.DatasetID)
		if err != nil {
			return nil, err
		}
		s.DatasetID = d.ID
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	if p.Stories == nil {
		p.Stories = make(map[string]*Story)
	}
	p.Stories[s.ID] = &s
	p.UpdatedAt = time.Now()
	return &s, nil
}

// FindStory resolves a story by id or exact title.
func (p *Project) FindStory(ref string) (*Story, error) {
	if s, ok := p.Stories[ref]; ok {
		return s, nil
	}
	for _, id := range sortedIDs(p.Stories) {
		if p.Stories[id].Title == ref {
			return p.Stories[id], nil
		}
	}
	return nil, fmt.Errorf("story %q: %w", ref, ErrNotFound)
}

// StoryDataset returns the dataset a story is bound to.
func (p *Project) StoryDataset(s *Story) (*Dataset, error) {
	if s.DatasetID == "" {
		return nil, fmt.Errorf("story %q has no dataset: %w", s.Title, ErrNotFound)
	}
	return p.FindDataset(s.DatasetID)
}

// ListDatasets returns datasets ordered by time added, then id.
func (p *Project) ListDatasets() []*Dataset {
	out := make([]*Dataset, 0, len(p.Datasets))
	for _, id := range sortedIDs(p.Datasets) {
		out = append(out, p.Datasets[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out
}

// ListStories returns stories ordered by creation time, then id.
func (p *Project) ListStories() []*Story {
	out := make([]*Story, 0, len(p.Stories))
	for _, id := range sortedIDs(p.Stories) {
		out = append(out, p.Stories[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func validStoryType(t string) bool {
	switch t {
	case insights.StoryExploratory, insights.StoryTrend, insights.StoryComparative,
		insights.StoryRootCause, insights.StoryPredictive:
		return true
	}
	return false
}

func validAudience(a string) bool {
	switch a {
	case insights.AudienceTechnical, insights.AudienceExecutive, insights.AudienceGeneral:
		return true
	}
	return false
}
