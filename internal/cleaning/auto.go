package cleaning

import (
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/montanaflynn/stats"
)

// Report records what the automatic cleaning pass did.
type Report struct {
	InitialRows       int            `json:"initial_rows"`
	FinalRows         int            `json:"final_rows"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	MissingValues     map[string]int `json:"missing_values"`
}

// Steps names the automatic cleaning steps, in order.
var Steps = []string{"Dropped Duplicates", "Imputed Missing Values"}

// Auto cleans a working copy of ds: exact duplicate rows are dropped,
// numeric gaps are filled with the column median and all other gaps with
// the column mode. Columns without any present value are left untouched.
// ds itself is never modified.
func Auto(ds *dataset.Dataset) (*dataset.Dataset, Report) {
	work := ds.Clone()
	rep := Report{InitialRows: work.Rows(), MissingValues: map[string]int{}}
	rep.DuplicatesRemoved = DropDuplicates(work)
	rep.FinalRows = work.Rows()

	for _, c := range work.Columns {
		if n := c.Missing(); n > 0 {
			rep.MissingValues[c.Name] = n
		}
	}
	for _, c := range work.Columns {
		imputeDefault(c)
	}
	return work, rep
}

// DropDuplicates removes rows identical to an earlier row, keeping the first
// occurrence. Missing cells compare equal to each other.
func DropDuplicates(ds *dataset.Dataset) int {
	n := ds.Rows()
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		k := ds.RowKey(i)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == n {
		return 0
	}
	ds.SelectRows(keep)
	return n - len(keep)
}

func imputeDefault(c *dataset.Column) int {
	if c.Missing() == 0 {
		return 0
	}
	if c.Kind == dataset.Numeric {
		m, err := stats.Median(c.Floats())
		if err != nil {
			return 0
		}
		return c.FillNumber(m)
	}
	return fillMode(c)
}

func fillMode(c *dataset.Column) int {
	mode, ok := c.Mode()
	if !ok {
		return 0
	}
	return c.FillFrom(mode.First)
}
