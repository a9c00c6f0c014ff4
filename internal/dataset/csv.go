package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/utils"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = delimiterFor(path, opt.Delimiter)

	name := filepath.Base(path)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Name: name, Source: path}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var records [][]string
	for {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		records = append(records, rec)
	}
	ds := FromRecords(name, header, records, opt.Parse)
	ds.Source = path
	return ds, nil
}

func delimiterFor(path string, d rune) rune {
	if d != 0 {
		return d
	}
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func (csvLoader) save(ds *Dataset, path string, opt Options) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiterFor(path, opt.Delimiter)
	if err := w.Write(ds.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(ds.Columns))
	for i := 0; i < ds.Rows(); i++ {
		for j, c := range ds.Columns {
			if c.Kind == Numeric && !c.Null[i] {
				row[j] = FormatNumber(c.Num[i], opt.Parse)
				continue
			}
			row[j] = c.Format(i)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
