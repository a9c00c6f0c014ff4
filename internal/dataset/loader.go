package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Options controls how a dataset file is read.
type Options struct {
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, ',' is used (or '\t' for .tsv files).
	Delimiter rune
	// Sheet selects an XLSX sheet by name; the first sheet is used when empty.
	Sheet string
	Parse ParseOptions
}

// Loader reads one family of tabular file formats.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// Load reads the file at path with the first loader that accepts its
// extension. Missing files yield ErrNotFound and unknown extensions
// ErrUnsupportedFormat.
func Load(path string, opt Options) (*Dataset, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}
	l, err := loaderFor(path)
	if err != nil {
		return nil, err
	}
	ds, err := l.Load(path, opt)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// CheckFile verifies that path exists and has a supported extension.
func CheckFile(path string) error {
	if err := checkExists(path); err != nil {
		return err
	}
	_, err := loaderFor(path)
	return err
}

// Supported reports whether some loader accepts path.
func Supported(path string) bool {
	_, err := loaderFor(path)
	return err == nil
}

func loaderFor(path string) (Loader, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l, nil
		}
	}
	ext := filepath.Ext(path)
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("extension %s: %w", ext, ErrUnsupportedFormat)
}

func checkExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrNotFound)
	}
	return nil
}

// FromRecords builds a dataset from a header row and string records. Short
// records are padded with missing cells; blank and repeated header names are
// made unique.
func FromRecords(name string, header []string, records [][]string, opt ParseOptions) *Dataset {
	names := uniqueNames(header)
	ds := &Dataset{Name: name, Columns: make([]*Column, len(names))}
	for j, n := range names {
		raw := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				raw[i] = strings.TrimSpace(rec[j])
			}
		}
		ds.Columns[j] = Infer(n, raw, opt)
	}
	return ds
}

func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int)
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = "Unnamed: " + strconv.Itoa(i)
		}
		if c, ok := seen[n]; ok {
			base := n
			for {
				c++
				n = base + "." + strconv.Itoa(c)
				if _, taken := seen[n]; !taken {
					break
				}
			}
			seen[base] = c
		}
		seen[n] = 0
		out[i] = n
	}
	return out
}
