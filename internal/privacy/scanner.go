// Package privacy flags columns whose values look like personal data.
package privacy

import (
	"fmt"
	"regexp"

	"github.com/KaramelBytes/insightloom/internal/dataset"
)

// DefaultSampleSize caps how many present values are inspected per column.
const DefaultSampleSize = 50

// Pattern is a named detector. Normalize, when set, rewrites a value before
// it is matched.
type Pattern struct {
	Type      string
	Expr      string
	Normalize func(string) string
}

var phoneNoise = regexp.MustCompile(`[\s\-\(\)]`)

// DefaultPatterns are tested in order against each sampled value.
var DefaultPatterns = []Pattern{
	{Type: "Email", Expr: `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`},
	{Type: "Phone", Expr: `^\+?1?\d{9,15}$`, Normalize: func(s string) string { return phoneNoise.ReplaceAllString(s, "") }},
	{Type: "SSN", Expr: `\d{3}-\d{2}-\d{4}`},
	{Type: "CreditCard", Expr: `\b(?:\d[ -]*?){13,16}\b`},
}

// Warning reports that a column holds values matching a PII pattern.
type Warning struct {
	Column     string `json:"column"`
	Type       string `json:"type"`
	MatchCount int    `json:"match_count"`
}

// ScanError records a column the scanner had to skip.
type ScanError struct {
	Column string `json:"column"`
	Err    string `json:"error"`
}

func (e ScanError) Error() string { return fmt.Sprintf("scan %s: %s", e.Column, e.Err) }

// Result is the outcome of a scan. Errors never abort the scan.
type Result struct {
	Warnings []Warning   `json:"warnings"`
	Errors   []ScanError `json:"errors,omitempty"`
}

// Scanner matches sampled column values against a pattern table.
type Scanner struct {
	SampleSize int
	Patterns   []Pattern
}

// New returns a Scanner using DefaultPatterns.
func New(sampleSize int) *Scanner {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Scanner{SampleSize: sampleSize, Patterns: DefaultPatterns}
}

type compiled struct {
	Pattern
	re *regexp.Regexp
}

func (s *Scanner) compile() ([]compiled, []ScanError) {
	var out []compiled
	var errs []ScanError
	for _, p := range s.Patterns {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			errs = append(errs, ScanError{Column: "*", Err: fmt.Sprintf("pattern %s: %v", p.Type, err)})
			continue
		}
		out = append(out, compiled{Pattern: p, re: re})
	}
	return out, errs
}

// Scan inspects the categorical columns of ds.
func (s *Scanner) Scan(ds *dataset.Dataset, cls dataset.Classification) Result {
	return s.scan(ds, cls.Categorical)
}

// ScanAll inspects every column, rendering non-text values as text.
func (s *Scanner) ScanAll(ds *dataset.Dataset) Result {
	return s.scan(ds, ds.Names())
}

func (s *Scanner) scan(ds *dataset.Dataset, names []string) Result {
	patterns, errs := s.compile()
	res := Result{Warnings: []Warning{}, Errors: errs}
	for _, name := range names {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		ws, err := s.scanColumn(c, patterns)
		if err != nil {
			res.Errors = append(res.Errors, ScanError{Column: name, Err: err.Error()})
			continue
		}
		res.Warnings = append(res.Warnings, ws...)
	}
	return res
}

func (s *Scanner) scanColumn(c *dataset.Column, patterns []compiled) (ws []Warning, err error) {
	defer func() {
		if r := recover(); r != nil {
			ws, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	sample := c.Strings()
	if s.SampleSize > 0 && len(sample) > s.SampleSize {
		sample = sample[:s.SampleSize]
	}
	if len(sample) == 0 {
		return nil, nil
	}
	for _, p := range patterns {
		n := 0
		for _, v := range sample {
			if p.Normalize != nil {
				v = p.Normalize(v)
			}
			if p.re.MatchString(v) {
				n++
			}
		}
		if n > 0 {
			ws = append(ws, Warning{Column: c.Name, Type: p.Type, MatchCount: n})
		}
	}
	return ws, nil
}

// DefaultFileRows is how many leading rows ScanFile reads.
const DefaultFileRows = 100

// ScanFile loads the first rows of a dataset file and scans all of its
// columns.
func (s *Scanner) ScanFile(path string, rows int) (Result, error) {
	if rows <= 0 {
		rows = DefaultFileRows
	}
	ds, err := dataset.Load(path, dataset.Options{MaxRows: rows})
	if err != nil {
		return Result{}, err
	}
	cp := *s
	cp.SampleSize = rows
	return cp.ScanAll(ds), nil
}
