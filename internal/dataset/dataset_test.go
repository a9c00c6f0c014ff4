package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSVInfersKinds(t *testing.T) {
	p := writeFile(t, t.TempDir(), "sales.csv",
		"date,revenue,region,phone,empty\n"+
			"2024-01-01,10.5,North,555-123-4567,\n"+
			"2024-02-01,NA,South,(555) 987-6543,\n"+
			"2024-03-01,7,North,5550001111,\n")

	ds, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, "sales.csv", ds.Name)

	cls := Classify(ds)
	assert.Equal(t, []string{"revenue", "empty"}, cls.Numeric)
	assert.Equal(t, []string{"region", "phone"}, cls.Categorical)
	assert.Equal(t, []string{"date"}, cls.Temporal)

	rev, ok := ds.Column("revenue")
	require.True(t, ok)
	assert.Equal(t, 1, rev.Missing())
	assert.Equal(t, []float64{10.5, 7}, rev.Floats())
}

func TestClassifyEveryColumnOnce(t *testing.T) {
	p := writeFile(t, t.TempDir(), "mix.csv", "a,b,c,d\n1,x,2024-01-01,\n2,y,2024-01-02,\n")
	ds, err := Load(p, Options{})
	require.NoError(t, err)
	cls := Classify(ds)
	total := len(cls.Numeric) + len(cls.Categorical) + len(cls.Temporal)
	assert.Equal(t, len(ds.Columns), total)
	for _, name := range ds.Names() {
		_, ok := cls.KindOf(name)
		assert.True(t, ok, name)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.csv"), Options{})
	assert.True(t, errors.Is(err, ErrNotFound))

	p := writeFile(t, dir, "notes.txt", "hello")
	_, err = Load(p, Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = LoadShared(context.Background(), filepath.Join(dir, "gone.xlsx"), Options{}, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUniqueHeaderNames(t *testing.T) {
	p := writeFile(t, t.TempDir(), "dup.csv", "a,a,,a\n1,2,3,4\n")
	ds, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, ds.Names())

	ds = FromRecords("t.csv", []string{"a", "a.1", "a"}, [][]string{{"1", "2", "3"}}, ParseOptions{})
	assert.Equal(t, []string{"a", "a.1", "a.2"}, ds.Names())

	ds = FromRecords("t.csv", []string{"a", "a", "a.1"}, [][]string{{"1", "2", "3"}}, ParseOptions{})
	assert.Equal(t, []string{"a", "a.1", "a.1.1"}, ds.Names())
	c, ok := ds.Column("a.1.1")
	require.True(t, ok)
	assert.Equal(t, []float64{3}, c.Num)
}

func TestParseNumberLocale(t *testing.T) {
	v, ok := ParseNumber("1.234,5", ParseOptions{DecimalSeparator: ',', ThousandsSeparator: '.'})
	require.True(t, ok)
	assert.InDelta(t, 1234.5, v, 1e-9)

	_, ok = ParseNumber("1,5", ParseOptions{})
	assert.False(t, ok)
	_, ok = ParseNumber("inf", ParseOptions{})
	assert.False(t, ok)
	_, ok = ParseNumber("0x10", ParseOptions{})
	assert.False(t, ok)
}

func TestSaveRoundTripCSV(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "in.csv", "id,score,when\n1,2.5,2024-01-01\n2,,2024-01-02 10:30:00\n")
	ds, err := Load(p, Options{})
	require.NoError(t, err)
	require.True(t, ds.RenameColumn("score", "points"))

	out := filepath.Join(dir, "out.csv")
	require.NoError(t, Save(ds, out, Options{}))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "id,points,when\n1,2.5,2024-01-01\n2,,2024-01-02 10:30:00\n", string(b))
}

func TestLoadSharedReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	dir := t.TempDir()
	p := writeFile(t, dir, "ro.csv", "x\n1\n2\n")
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	ds, err := LoadShared(context.Background(), p, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	_, err = os.Stat(p + ".lock")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLockUnavailable(t *testing.T) {
	assert.True(t, lockUnavailable(&fs.PathError{Op: "open", Path: "x.lock", Err: fs.ErrPermission}))
	assert.True(t, lockUnavailable(fmt.Errorf("wrapped: %w", syscall.EROFS)))
	assert.False(t, lockUnavailable(errors.New("boom")))
}

func TestSaveKeepsLocale(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "eu.csv", "price;note\n1,5;a\n1.000,5;b\n")
	opt := Options{Delimiter: ';', Parse: ParseOptions{DecimalSeparator: ',', ThousandsSeparator: '.'}}
	ds, err := Load(p, opt)
	require.NoError(t, err)
	require.NoError(t, Save(ds, p, opt))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "price;note\n1,5;a\n1000,5;b\n", string(b))

	again, err := Load(p, opt)
	require.NoError(t, err)
	price, _ := again.Column("price")
	assert.Equal(t, Numeric, price.Kind)
	assert.Equal(t, []float64{1.5, 1000.5}, price.Num)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "-2.25", FormatNumber(-2.25, ParseOptions{}))
	assert.Equal(t, "-2,25", FormatNumber(-2.25, ParseOptions{DecimalSeparator: ','}))
	assert.Equal(t, "1234567", FormatNumber(1234567, ParseOptions{DecimalSeparator: ',', ThousandsSeparator: '.'}))
}

func TestXLSIsUnsupported(t *testing.T) {
	p := writeFile(t, t.TempDir(), "legacy.xls", "\xd0\xcf\x11\xe0")
	_, err := Load(p, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("legacy.XLS"))
	assert.True(t, Supported("book.xlsm"))
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "book.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"name", "amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"alpha", 3}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"beta", 4}))
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	ds, err := Load(p, Options{})
	require.NoError(t, err)
	cls := Classify(ds)
	assert.Equal(t, []string{"amount"}, cls.Numeric)
	assert.Equal(t, []string{"name"}, cls.Categorical)

	require.True(t, ds.DropColumn("name"))
	require.NoError(t, Save(ds, p, Options{}))
	again, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"amount"}, again.Names())
	assert.Equal(t, 2, again.Rows())
}

func TestValueCountsTieOrder(t *testing.T) {
	c := Infer("c", []string{"b", "a", "", "a", "b", "c"}, ParseOptions{})
	vc := c.ValueCounts()
	require.Len(t, vc, 3)
	assert.Equal(t, "b", vc[0].Value)
	assert.Equal(t, "a", vc[1].Value)
	assert.Equal(t, 3, c.Distinct())

	mode, ok := c.Mode()
	require.True(t, ok)
	assert.Equal(t, "b", mode.Value)
	assert.Equal(t, 0, mode.First)
}

func TestCloneIsDeep(t *testing.T) {
	ds := FromRecords("x", []string{"n"}, [][]string{{"1"}, {""}}, ParseOptions{})
	cp := ds.Clone()
	cp.Columns[0].FillNumber(9)
	assert.Equal(t, 1, ds.Columns[0].Missing())
	assert.Equal(t, 0, cp.Columns[0].Missing())
}
