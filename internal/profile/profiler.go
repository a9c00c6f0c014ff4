package profile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/cleaning"
	"github.com/KaramelBytes/insightloom/internal/config"
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/KaramelBytes/insightloom/internal/fairness"
	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/privacy"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrComputation marks an unexpected failure inside a profiling stage.
var ErrComputation = errors.New("profile computation failed")

// Config holds the tunables of a Profiler.
type Config struct {
	HistogramBins        int
	TopValues            int
	IQRMultiplier        float64
	CorrelationThreshold float64
	PIISampleSize        int
	DominanceThreshold   float64
	BiasKeywords         []string
	FairnessKeywords     []string
	Load                 dataset.Options
}

// DefaultConfig returns the built-in tunables.
func DefaultConfig() Config {
	return Config{
		HistogramBins:        analysis.DefaultBins,
		TopValues:            analysis.DefaultTopValues,
		IQRMultiplier:        analysis.DefaultIQRMultiplier,
		CorrelationThreshold: insights.DefaultCorrelationThreshold,
		PIISampleSize:        privacy.DefaultSampleSize,
		DominanceThreshold:   fairness.DefaultDominanceThreshold,
		BiasKeywords:         fairness.DefaultBiasKeywords,
		FairnessKeywords:     fairness.DefaultFairnessKeywords,
	}
}

// FromGlobal overlays user configuration on DefaultConfig. Zero values keep
// the defaults.
func FromGlobal(g *config.Global) Config {
	c := DefaultConfig()
	if g == nil {
		return c
	}
	if g.HistogramBins > 0 {
		c.HistogramBins = g.HistogramBins
	}
	if g.TopValues > 0 {
		c.TopValues = g.TopValues
	}
	if g.IQRMultiplier > 0 {
		c.IQRMultiplier = g.IQRMultiplier
	}
	if g.CorrelationThreshold > 0 {
		c.CorrelationThreshold = g.CorrelationThreshold
	}
	if g.PIISampleSize > 0 {
		c.PIISampleSize = g.PIISampleSize
	}
	if g.DominanceThreshold > 0 {
		c.DominanceThreshold = g.DominanceThreshold
	}
	if len(g.BiasKeywords) > 0 {
		c.BiasKeywords = g.BiasKeywords
	}
	if len(g.FairnessKeywords) > 0 {
		c.FairnessKeywords = g.FairnessKeywords
	}
	c.Load = dataset.Options{MaxRows: g.MaxRows, Parse: g.ParseOptions()}
	return c
}

// Recorder receives an audit entry for each completed run.
type Recorder interface {
	Record(ctx context.Context, action, details string) error
}

// Profiler runs profiling stages. It is safe for concurrent use.
type Profiler struct {
	cfg   Config
	log   *logrus.Logger
	audit Recorder
}

// New constructs a Profiler. log and audit may be nil.
func New(cfg Config, log *logrus.Logger, audit Recorder) *Profiler {
	if log == nil {
		log = logrus.New()
	}
	return &Profiler{cfg: cfg, log: log, audit: audit}
}

func (p *Profiler) scorer() *fairness.Scorer {
	return &fairness.Scorer{
		BiasKeywords:       p.cfg.BiasKeywords,
		FairnessKeywords:   p.cfg.FairnessKeywords,
		DominanceThreshold: p.cfg.DominanceThreshold,
	}
}

// RunFile loads a dataset under a shared lock and profiles it.
func (p *Profiler) RunFile(ctx context.Context, path string, params Params) (*Profile, error) {
	ds, err := p.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, ds, params)
}

// LoadFile loads a dataset with the profiler's load options.
func (p *Profiler) LoadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	return dataset.LoadShared(ctx, path, p.cfg.Load, p.log.WithField("dataset", filepath.Base(path)))
}

// Run profiles ds. ds is not modified. Failures of individual columns are
// listed in Profile.Warnings; anything else aborts the run with an error
// wrapping ErrComputation.
func (p *Profiler) Run(ctx context.Context, ds *dataset.Dataset, params Params) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	log := p.log.WithFields(logrus.Fields{"dataset": ds.Name, "rows": ds.Rows(), "columns": len(ds.Columns)})
	if err := ds.Validate(); err != nil {
		log.WithError(err).Error("invalid dataset")
		return nil, fmt.Errorf("validate %s: %v: %w", ds.Name, err, ErrComputation)
	}

	cls := dataset.Classify(ds)
	cleaned, rep := cleaning.Auto(ds)
	prof := &Profile{
		RunID:       uuid.NewString(),
		GeneratedAt: start.UTC(),
		DatasetInfo: insights.InfoFromReport(rep, len(cleaned.Columns)),
		Columns:     cleaned.Names(),
		ColumnTypes: cls,
	}

	var statWarnings, piiWarnings []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(p.stage(gctx, log, "statistics", func() error {
		prof.SummaryStats = analysis.Describe(cleaned, cls)
		prof.Correlations = analysis.Correlate(cleaned, cls)
		shape, hist, skipped := analysis.Distributions(cleaned, cls, p.cfg.HistogramBins)
		prof.AdvancedStats = shape
		prof.Distributions = hist
		for _, col := range sortedKeys(skipped) {
			log.WithFields(logrus.Fields{"stage": "statistics", "column": col}).WithError(skipped[col]).Debug("histogram skipped")
			statWarnings = append(statWarnings, fmt.Sprintf("histogram skipped for '%s': %v", col, skipped[col]))
		}
		prof.CategoricalAnalysis = analysis.TopValues(cleaned, cls, p.cfg.TopValues)
		return nil
	}))
	g.Go(p.stage(gctx, log, "privacy", func() error {
		res := privacy.New(p.cfg.PIISampleSize).Scan(cleaned, cls)
		prof.PIIWarnings = res.Warnings
		for _, e := range res.Errors {
			log.WithFields(logrus.Fields{"stage": "privacy", "column": e.Column}).Warn(e.Err)
			piiWarnings = append(piiWarnings, "pii scan skipped: "+e.Error())
		}
		return nil
	}))
	g.Go(p.stage(gctx, log, "fairness", func() error {
		s := p.scorer()
		prof.BiasWarnings = s.CheckBias(cleaned)
		prof.FairnessScores = s.Scores(cleaned, params.OutcomeColumn)
		return nil
	}))
	g.Go(p.stage(gctx, log, "outliers", func() error {
		prof.Outliers = analysis.DetectOutliers(cleaned, cls, p.cfg.IQRMultiplier)
		return nil
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	prof.Warnings = append(append([]string{}, statWarnings...), piiWarnings...)

	prof.DataCard = DataCard{
		Source:        filepath.Base(sourceOf(ds)),
		Rows:          cleaned.Rows(),
		Columns:       len(cleaned.Columns),
		PIIDetected:   len(prof.PIIWarnings) > 0,
		BiasDetected:  len(prof.BiasWarnings) > 0,
		CleaningSteps: cleaning.Steps,
	}
	prof.Visualization = visualize(cleaned, cls)
	prof.AutoInsights = insights.AutoInsights(insights.AutoInput{
		Data: cleaned, Classes: cls, Info: prof.DatasetInfo, Outliers: prof.Outliers,
	})
	prof.HealthScores = insights.Health(prof.DatasetInfo)

	log.WithFields(logrus.Fields{
		"run_id":   prof.RunID,
		"insights": len(prof.AutoInsights),
		"overall":  prof.HealthScores.Overall,
		"elapsed":  time.Since(start).String(),
	}).Info("profile complete")
	if p.audit != nil {
		details := fmt.Sprintf("run %s on %s (%d rows, %d columns)", prof.RunID, prof.DataCard.Source, prof.DatasetInfo.InitialRows, len(ds.Columns))
		if err := p.audit.Record(ctx, "PROFILE", details); err != nil {
			log.WithError(err).Warn("audit record failed")
		}
	}
	return prof, nil
}

// stage wraps a stage so that panics and errors surface as ErrComputation.
func (p *Profiler) stage(ctx context.Context, log *logrus.Entry, name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("stage %s: panic: %v: %w", name, r, ErrComputation)
			}
			if err != nil {
				log.WithField("stage", name).WithError(err).Error("profiling stage failed")
			}
		}()
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(); err != nil {
			return fmt.Errorf("stage %s: %v: %w", name, err, ErrComputation)
		}
		return nil
	}
}

func sourceOf(ds *dataset.Dataset) string {
	if ds.Source != "" {
		return ds.Source
	}
	return ds.Name
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Hypotheses proposes hypotheses for the dataset as loaded.
func (p *Profiler) Hypotheses(ds *dataset.Dataset, params Params) []insights.Hypothesis {
	return insights.Hypotheses(ds, dataset.Classify(ds), insights.HypothesisParams{
		StoryType:     params.StoryType,
		Audience:      params.Audience,
		IQRMultiplier: p.cfg.IQRMultiplier,
	})
}

// Questions suggests analysis questions for the dataset and story.
func (p *Profiler) Questions(ds *dataset.Dataset, params Params) []string {
	return insights.SmartQuestions(dataset.Classify(ds), params.Title, params.Context)
}

// Correlations lists notable correlations in the dataset as loaded.
func (p *Profiler) Correlations(ds *dataset.Dataset) []insights.Correlation {
	return insights.DiscoverCorrelations(ds, dataset.Classify(ds), p.cfg.CorrelationThreshold)
}

// Recommendations derives next steps from a completed profile.
func (p *Profiler) Recommendations(prof *Profile) []insights.Recommendation {
	return insights.Recommendations(prof.AutoInsights, prof.HealthScores, prof.ColumnTypes)
}

// Narrative writes a Markdown summary of a completed profile.
func (p *Profiler) Narrative(prof *Profile, title string) string {
	return insights.Narrative(title, prof.AutoInsights, prof.HealthScores, prof.DatasetInfo)
}
