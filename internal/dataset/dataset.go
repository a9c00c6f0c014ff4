package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the value type shared by every cell of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Temporal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Temporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Column is a named, typed sequence of cells. Exactly one of Num, Text or
// Time is populated according to Kind; Null marks missing cells.
type Column struct {
	Name string
	Kind Kind
	Num  []float64
	Text []string
	Time []time.Time
	Null []bool
}

// Dataset is an ordered set of equally sized columns.
type Dataset struct {
	Name    string
	Source  string
	Columns []*Column
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Null) }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return c.Null[i] }

// Missing counts missing cells.
func (c *Column) Missing() int {
	n := 0
	for _, null := range c.Null {
		if null {
			n++
		}
	}
	return n
}

// NonMissing counts present cells.
func (c *Column) NonMissing() int { return c.Len() - c.Missing() }

// Floats returns the present values of a numeric column in row order.
func (c *Column) Floats() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.Num))
	for i, v := range c.Num {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Strings returns the present values of any column rendered as text.
func (c *Column) Strings() []string {
	out := make([]string, 0, c.Len())
	for i := range c.Null {
		if !c.Null[i] {
			out = append(out, c.Format(i))
		}
	}
	return out
}

// Format renders row i as text. Missing cells render as "".
func (c *Column) Format(i int) string {
	if c.Null[i] {
		return ""
	}
	switch c.Kind {
	case Numeric:
		return FormatFloat(c.Num[i])
	case Temporal:
		return FormatTime(c.Time[i])
	default:
		return c.Text[i]
	}
}

// Key returns a string identifying the value at row i for equality checks.
// Missing cells share one key distinct from every present value.
func (c *Column) Key(i int) string {
	if c.Null[i] {
		return "\x00"
	}
	switch c.Kind {
	case Numeric:
		return strconv.FormatFloat(c.Num[i], 'g', -1, 64)
	case Temporal:
		return c.Time[i].Format(time.RFC3339Nano)
	default:
		return c.Text[i]
	}
}

// CopyCell overwrites row dst with the value held at row src.
func (c *Column) CopyCell(dst, src int) {
	switch c.Kind {
	case Numeric:
		c.Num[dst] = c.Num[src]
	case Temporal:
		c.Time[dst] = c.Time[src]
	default:
		c.Text[dst] = c.Text[src]
	}
	c.Null[dst] = c.Null[src]
}

// FillNumber replaces missing cells of a numeric column with v and returns
// how many cells changed.
func (c *Column) FillNumber(v float64) int {
	if c.Kind != Numeric {
		return 0
	}
	n := 0
	for i := range c.Null {
		if c.Null[i] {
			c.Num[i] = v
			c.Null[i] = false
			n++
		}
	}
	return n
}

// FillFrom replaces missing cells with the value at row src.
func (c *Column) FillFrom(src int) int {
	if c.Null[src] {
		return 0
	}
	n := 0
	for i := range c.Null {
		if c.Null[i] {
			c.CopyCell(i, src)
			n++
		}
	}
	return n
}

// ToText converts the column to categorical, keeping missing cells missing.
func (c *Column) ToText() {
	if c.Kind == Categorical {
		return
	}
	text := make([]string, c.Len())
	for i := range text {
		text[i] = c.Format(i)
	}
	c.Kind = Categorical
	c.Text = text
	c.Num = nil
	c.Time = nil
}

func (c *Column) selectRows(rows []int) {
	null := make([]bool, len(rows))
	for j, i := range rows {
		null[j] = c.Null[i]
	}
	switch c.Kind {
	case Numeric:
		num := make([]float64, len(rows))
		for j, i := range rows {
			num[j] = c.Num[i]
		}
		c.Num = num
	case Temporal:
		ts := make([]time.Time, len(rows))
		for j, i := range rows {
			ts[j] = c.Time[i]
		}
		c.Time = ts
	default:
		text := make([]string, len(rows))
		for j, i := range rows {
			text[j] = c.Text[i]
		}
		c.Text = text
	}
	c.Null = null
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind, Null: append([]bool(nil), c.Null...)}
	switch c.Kind {
	case Numeric:
		cp.Num = append([]float64(nil), c.Num...)
	case Temporal:
		cp.Time = append([]time.Time(nil), c.Time...)
	default:
		cp.Text = append([]string(nil), c.Text...)
	}
	return cp
}

// Rows returns the row count. A dataset without columns has no rows.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// Names lists column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column or -1.
func (d *Dataset) Index(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column by exact name.
func (d *Dataset) Column(name string) (*Column, bool) {
	if i := d.Index(name); i >= 0 {
		return d.Columns[i], true
	}
	return nil, false
}

// Validate checks that every column carries the same number of cells and a
// value slice matching its kind.
func (d *Dataset) Validate() error {
	rows := d.Rows()
	for _, c := range d.Columns {
		if c.Len() != rows {
			return fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
		var n int
		switch c.Kind {
		case Numeric:
			n = len(c.Num)
		case Temporal:
			n = len(c.Time)
		case Categorical:
			n = len(c.Text)
		default:
			return fmt.Errorf("column %q has unknown kind %d", c.Name, c.Kind)
		}
		if n != rows {
			return fmt.Errorf("column %q has %d %s values, want %d", c.Name, n, c.Kind, rows)
		}
	}
	return nil
}

// Clone returns a deep working copy.
func (d *Dataset) Clone() *Dataset {
	cp := &Dataset{Name: d.Name, Source: d.Source, Columns: make([]*Column, len(d.Columns))}
	for i, c := range d.Columns {
		cp.Columns[i] = c.Clone()
	}
	return cp
}

// RowKey identifies the full contents of row i.
func (d *Dataset) RowKey(i int) string {
	var b strings.Builder
	for j, c := range d.Columns {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(c.Key(i))
	}
	return b.String()
}

// SelectRows keeps only the given rows, in the given order.
func (d *Dataset) SelectRows(rows []int) {
	for _, c := range d.Columns {
		c.selectRows(rows)
	}
}

// DropColumn removes the named column. It reports whether a column was removed.
func (d *Dataset) DropColumn(name string) bool {
	i := d.Index(name)
	if i < 0 {
		return false
	}
	d.Columns = append(d.Columns[:i], d.Columns[i+1:]...)
	return true
}

// RenameColumn renames a column. Renaming onto another existing column is refused.
func (d *Dataset) RenameColumn(oldName, newName string) bool {
	i := d.Index(oldName)
	if i < 0 || newName == "" || oldName == newName {
		return false
	}
	if d.Index(newName) >= 0 {
		return false
	}
	d.Columns[i].Name = newName
	return true
}

// FormatFloat renders a number in its shortest exact form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime renders midnight timestamps as dates and everything else with a
// time of day.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
