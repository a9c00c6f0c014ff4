package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Classification partitions column names by kind, in dataset order.
type Classification struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
	Temporal    []string `json:"temporal"`
}

// Classify partitions the dataset's columns. Every column lands in exactly
// one list.
func Classify(ds *Dataset) Classification {
	cls := Classification{Numeric: []string{}, Categorical: []string{}, Temporal: []string{}}
	for _, c := range ds.Columns {
		switch c.Kind {
		case Numeric:
			cls.Numeric = append(cls.Numeric, c.Name)
		case Temporal:
			cls.Temporal = append(cls.Temporal, c.Name)
		default:
			cls.Categorical = append(cls.Categorical, c.Name)
		}
	}
	return cls
}

// KindOf returns the kind recorded for name.
func (c Classification) KindOf(name string) (Kind, bool) {
	for _, n := range c.Numeric {
		if n == name {
			return Numeric, true
		}
	}
	for _, n := range c.Categorical {
		if n == name {
			return Categorical, true
		}
	}
	for _, n := range c.Temporal {
		if n == name {
			return Temporal, true
		}
	}
	return 0, false
}

// ParseOptions controls how raw cells are typed.
type ParseOptions struct {
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing when set.
	ThousandsSeparator rune
}

// MissingTokens are the cell spellings treated as missing.
var MissingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
}

// TimeLayouts are tried in order when detecting temporal columns.
var TimeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05",
	"1/2/2006 15:04", "1/2/2006 15:04:05", "1/2/06", "01-02-06",
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(s string) bool {
	_, ok := MissingTokens[strings.TrimSpace(s)]
	return ok
}

// Infer builds a typed column from raw cells. A column is numeric when every
// present cell parses as a number, temporal when every present cell parses
// as a timestamp, and categorical otherwise. A column with no present cells
// is numeric.
func Infer(name string, raw []string, opt ParseOptions) *Column {
	null := make([]bool, len(raw))
	for i, s := range raw {
		null[i] = IsMissing(s)
	}
	if nums, ok := inferNumeric(raw, null, opt); ok {
		return &Column{Name: name, Kind: Numeric, Num: nums, Null: null}
	}
	if ts, ok := inferTemporal(raw, null); ok {
		return &Column{Name: name, Kind: Temporal, Time: ts, Null: null}
	}
	text := make([]string, len(raw))
	for i, s := range raw {
		if !null[i] {
			text[i] = s
		}
	}
	return &Column{Name: name, Kind: Categorical, Text: text, Null: null}
}

func inferNumeric(raw []string, null []bool, opt ParseOptions) ([]float64, bool) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		if null[i] {
			continue
		}
		v, ok := ParseNumber(s, opt)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func inferTemporal(raw []string, null []bool) ([]time.Time, bool) {
	out := make([]time.Time, len(raw))
	present := 0
	for i, s := range raw {
		if null[i] {
			continue
		}
		t, ok := ParseTime(s)
		if !ok {
			return nil, false
		}
		out[i] = t
		present++
	}
	return out, present > 0
}

// ParseNumber parses a decimal number, honouring configured separators.
func ParseNumber(s string, opt ParseOptions) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	if opt.ThousandsSeparator != 0 && opt.ThousandsSeparator != opt.DecimalSeparator {
		raw = strings.ReplaceAll(raw, string(opt.ThousandsSeparator), "")
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(opt.DecimalSeparator), ".")
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "-0x") || strings.HasPrefix(lower, "+0x") {
		return 0, false
	}
	if strings.Contains(raw, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders v so that ParseNumber with the same options reads it
// back unchanged. Thousands grouping is never written.
func FormatNumber(v float64, opt ParseOptions) string {
	s := FormatFloat(v)
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator != '.' {
		s = strings.Replace(s, ".", string(opt.DecimalSeparator), 1)
	}
	return s
}

// ParseTime tries each layout in TimeLayouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range TimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
