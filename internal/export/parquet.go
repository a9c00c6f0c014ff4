// Package export writes per-column profiling statistics to Parquet files
// using github.com/parquet-go/parquet-go.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/parquet-go/parquet-go"
)

// ColumnStatsRow is one column of one profiling run. Statistics that do not
// apply to the column's kind are null.
type ColumnStatsRow struct {
	RunID       string    `parquet:"run_id,snappy"`
	Source      string    `parquet:"source,snappy"`
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
	Column      string    `parquet:"column,snappy"`
	Kind        string    `parquet:"kind,snappy"`
	// Missing counts cells missing before imputation.
	Missing int64 `parquet:"missing,snappy"`

	Count    *int64   `parquet:"count,optional,snappy"`
	Mean     *float64 `parquet:"mean,optional,snappy"`
	Std      *float64 `parquet:"std,optional,snappy"`
	Min      *float64 `parquet:"min,optional,snappy"`
	Q1       *float64 `parquet:"q1,optional,snappy"`
	Median   *float64 `parquet:"median,optional,snappy"`
	Q3       *float64 `parquet:"q3,optional,snappy"`
	Max      *float64 `parquet:"max,optional,snappy"`
	Skewness *float64 `parquet:"skewness,optional,snappy"`
	Kurtosis *float64 `parquet:"kurtosis,optional,snappy"`
	Outliers *int64   `parquet:"outliers,optional,snappy"`

	TopValue *string `parquet:"top_value,optional,snappy"`
	TopCount *int64  `parquet:"top_count,optional,snappy"`
}

func ptr[T any](v T) *T { return &v }

// Rows flattens a profile into one row per column, in column order.
func Rows(prof *profile.Profile) []ColumnStatsRow {
	out := make([]ColumnStatsRow, 0, len(prof.Columns))
	for _, name := range prof.Columns {
		kind, _ := prof.ColumnTypes.KindOf(name)
		r := ColumnStatsRow{
			RunID:       prof.RunID,
			Source:      prof.DataCard.Source,
			GeneratedAt: prof.GeneratedAt,
			Column:      name,
			Kind:        kind.String(),
			Missing:     int64(prof.DatasetInfo.MissingValues[name]),
		}
		if s, ok := prof.SummaryStats[name]; ok {
			r.Count = ptr(int64(s.Count))
			r.Mean, r.Std = ptr(s.Mean), ptr(s.Std)
			r.Min, r.Max = ptr(s.Min), ptr(s.Max)
			r.Q1, r.Median, r.Q3 = ptr(s.Q1), ptr(s.Q2), ptr(s.Q3)
		}
		if a, ok := prof.AdvancedStats[name]; ok {
			r.Skewness, r.Kurtosis = ptr(a.Skewness), ptr(a.Kurtosis)
		}
		if o, ok := prof.Outliers[name]; ok {
			r.Outliers = ptr(int64(o.Count))
		}
		if top := prof.CategoricalAnalysis[name]; len(top) > 0 {
			r.TopValue = ptr(top[0].Value)
			r.TopCount = ptr(int64(top[0].Count))
		}
		out = append(out, r)
	}
	return out
}

// WriteColumnStats writes rows to a Parquet file at outputPath.
func WriteColumnStats(rows []ColumnStatsRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ColumnStatsRow struct tags.
	writer := parquet.NewGenericWriter[ColumnStatsRow](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// ReadColumnStats reads every row of a file written by WriteColumnStats.
func ReadColumnStats(path string) ([]ColumnStatsRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[ColumnStatsRow](file)
	defer reader.Close()
	rows := make([]ColumnStatsRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}
	return rows[:n], nil
}
