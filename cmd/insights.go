package cmd

import (
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/report"
	"github.com/spf13/cobra"
)

var (
	hypFlags  targetFlags
	qFlags    targetFlags
	corrFlags targetFlags
	recFlags  targetFlags
	narFlags  targetFlags
)

var hypothesesCmd = &cobra.Command{
	Use:   "hypotheses [dataset]",
	Short: "Propose testable hypotheses tailored to the story type and audience",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := hypFlags.resolve(args)
		if err != nil {
			return err
		}
		p, done := newProfiler(cmd.Context(), hypFlags.sheet)
		defer done()
		ds, err := p.LoadFile(cmd.Context(), t.path)
		if err != nil {
			return err
		}
		hyps := p.Hypotheses(ds, t.params)
		return hypFlags.emit(cmd, rendering{
			title:    "Hypotheses",
			value:    hyps,
			markdown: func() string { return report.HypothesesMarkdown(hyps) },
			table:    func(w *strings.Builder) error { return report.HypothesisTable(w, hyps) },
		})
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions [dataset]",
	Short: "Suggest analysis questions from the story title, context and column kinds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := qFlags.resolve(args)
		if err != nil {
			return err
		}
		p, done := newProfiler(cmd.Context(), qFlags.sheet)
		defer done()
		ds, err := p.LoadFile(cmd.Context(), t.path)
		if err != nil {
			return err
		}
		qs := p.Questions(ds, t.params)
		return qFlags.emit(cmd, rendering{
			title:    "Questions to Explore",
			value:    qs,
			markdown: func() string { return report.QuestionsMarkdown(qs) },
		})
	},
}

var correlationsCmd = &cobra.Command{
	Use:   "correlations [dataset]",
	Short: "List the strongest correlations between numeric columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := corrFlags.resolve(args)
		if err != nil {
			return err
		}
		p, done := newProfiler(cmd.Context(), corrFlags.sheet)
		defer done()
		ds, err := p.LoadFile(cmd.Context(), t.path)
		if err != nil {
			return err
		}
		found := p.Correlations(ds)
		return corrFlags.emit(cmd, rendering{
			title:    "Correlations",
			value:    found,
			markdown: func() string { return report.CorrelationsMarkdown(found) },
			table:    func(w *strings.Builder) error { return report.CorrelationTable(w, found) },
		})
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend [dataset]",
	Short: "Profile a dataset and recommend next steps",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := recFlags.resolve(args)
		if err != nil {
			return err
		}
		p, done := newProfiler(cmd.Context(), recFlags.sheet)
		defer done()
		prof, err := p.RunFile(cmd.Context(), t.path, t.params)
		if err != nil {
			return err
		}
		recs := p.Recommendations(prof)
		return recFlags.emit(cmd, rendering{
			title:    "Recommendations",
			value:    recs,
			markdown: func() string { return report.RecommendationsMarkdown(recs) },
			table:    func(w *strings.Builder) error { return report.RecommendationTable(w, recs) },
		})
	},
}

var narrativeCmd = &cobra.Command{
	Use:   "narrative [dataset]",
	Short: "Profile a dataset and write a narrative summary of its findings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := narFlags.resolve(args)
		if err != nil {
			return err
		}
		p, done := newProfiler(cmd.Context(), narFlags.sheet)
		defer done()
		prof, err := p.RunFile(cmd.Context(), t.path, t.params)
		if err != nil {
			return err
		}
		title := titleOr(t.params.Title, "Data Story: "+filepath.Base(t.path))
		text := p.Narrative(prof, title)
		return narFlags.emit(cmd, rendering{
			title:    title,
			value:    map[string]string{"narrative": text},
			markdown: func() string { return text },
		})
	},
}

func init() {
	for c, f := range map[*cobra.Command]*targetFlags{
		hypothesesCmd:   &hypFlags,
		questionsCmd:    &qFlags,
		correlationsCmd: &corrFlags,
		recommendCmd:    &recFlags,
		narrativeCmd:    &narFlags,
	} {
		rootCmd.AddCommand(c)
		f.register(c, true)
	}
}
