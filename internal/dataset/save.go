package dataset

import (
	"fmt"
	"path/filepath"
)

// Save writes ds back to path in the format implied by its extension. opt
// should be the options the file was loaded with, so CSV output keeps its
// delimiter and numbers keep their decimal separator.
func Save(ds *Dataset, path string, opt Options) error {
	l, err := loaderFor(path)
	if err != nil {
		return err
	}
	switch w := l.(type) {
	case csvLoader:
		return w.save(ds, path, opt)
	case xlsxLoader:
		return w.save(ds, path)
	default:
		return fmt.Errorf("no writer for %s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}
