package cleaning

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// Ad-hoc operation names.
const (
	OpDropDuplicates = "drop_duplicates"
	OpDropColumn     = "drop_column"
	OpRenameColumn   = "rename_column"
	OpImpute         = "impute"
	OpAnonymize      = "anonymize"
)

// Imputation methods accepted by OpImpute.
const (
	MethodMean     = "mean"
	MethodMedian   = "median"
	MethodMode     = "mode"
	MethodConstant = "constant"
)

// ErrUnknownOperation is returned for operation names Apply does not know.
var ErrUnknownOperation = errors.New("unknown cleaning operation")

// Operation is a single user-requested mutation of a stored dataset.
type Operation struct {
	Name    string `json:"operation"`
	Column  string `json:"column,omitempty"`
	OldName string `json:"old_name,omitempty"`
	NewName string `json:"new_name,omitempty"`
	Method  string `json:"method,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Result describes the outcome of an applied operation.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Changed bool   `json:"changed"`
}

// Recorder receives an audit trail entry for each persisted operation.
type Recorder interface {
	Record(ctx context.Context, action, details string) error
}

// Applier applies ad-hoc operations to dataset files.
type Applier struct {
	log   *logrus.Logger
	audit Recorder
	opt   dataset.Options
}

// NewApplier constructs an Applier. audit may be nil.
func NewApplier(log *logrus.Logger, audit Recorder, opt dataset.Options) *Applier {
	if log == nil {
		log = logrus.New()
	}
	return &Applier{log: log, audit: audit, opt: opt}
}

// Apply loads the dataset at path, applies op and writes the result back,
// holding the file's exclusive lock for the whole cycle. Operations naming
// columns that do not exist succeed without changing anything.
func (a *Applier) Apply(ctx context.Context, path string, op Operation) (*Result, error) {
	if !Known(op.Name) {
		return nil, fmt.Errorf("%q: %w", op.Name, ErrUnknownOperation)
	}
	if err := dataset.CheckFile(path); err != nil {
		return nil, err
	}

	fl := dataset.Lock(path)
	ok, err := fl.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire write lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire write lock on %s: not granted", path)
	}
	defer fl.Unlock()

	opt := a.opt
	opt.MaxRows = 0
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	changed, err := ApplyTo(ds, op)
	if err != nil {
		return nil, err
	}
	entry := a.log.WithFields(logrus.Fields{"dataset": filepath.Base(path), "operation": op.Name, "column": op.Column})
	if changed {
		if err := dataset.Save(ds, path, opt); err != nil {
			return nil, fmt.Errorf("save dataset: %w", err)
		}
		entry.Info("cleaning operation applied")
	} else {
		entry.Debug("cleaning operation made no changes")
	}
	if a.audit != nil {
		details := fmt.Sprintf("%s on %s (changed=%t)", op.Name, filepath.Base(path), changed)
		if err := a.audit.Record(ctx, "CLEAN", details); err != nil {
			entry.WithError(err).Warn("audit record failed")
		}
	}
	return &Result{
		Status:  "success",
		Message: fmt.Sprintf("Operation '%s' applied successfully", op.Name),
		Changed: changed,
	}, nil
}

// Known reports whether name is a supported operation.
func Known(name string) bool {
	switch name {
	case OpDropDuplicates, OpDropColumn, OpRenameColumn, OpImpute, OpAnonymize:
		return true
	}
	return false
}

// ApplyTo applies op to ds in memory and reports whether ds changed.
func ApplyTo(ds *dataset.Dataset, op Operation) (bool, error) {
	switch op.Name {
	case OpDropDuplicates:
		return DropDuplicates(ds) > 0, nil
	case OpDropColumn:
		return ds.DropColumn(op.Column), nil
	case OpRenameColumn:
		return ds.RenameColumn(op.OldName, op.NewName), nil
	case OpImpute:
		c, ok := ds.Column(op.Column)
		if !ok {
			return false, nil
		}
		return impute(c, op.Method, op.Value) > 0, nil
	case OpAnonymize:
		c, ok := ds.Column(op.Column)
		if !ok {
			return false, nil
		}
		return Anonymize(c) > 0, nil
	default:
		return false, fmt.Errorf("%q: %w", op.Name, ErrUnknownOperation)
	}
}

func impute(c *dataset.Column, method, value string) int {
	if c.Missing() == 0 {
		return 0
	}
	switch method {
	case MethodMean, "":
		if c.Kind != dataset.Numeric {
			return 0
		}
		m, err := stats.Mean(c.Floats())
		if err != nil {
			return 0
		}
		return c.FillNumber(m)
	case MethodMedian:
		if c.Kind != dataset.Numeric {
			return 0
		}
		m, err := stats.Median(c.Floats())
		if err != nil {
			return 0
		}
		return c.FillNumber(m)
	case MethodMode:
		return fillMode(c)
	case MethodConstant:
		return fillConstant(c, value)
	}
	return 0
}

func fillConstant(c *dataset.Column, value string) int {
	switch c.Kind {
	case dataset.Numeric:
		if v, ok := dataset.ParseNumber(value, dataset.ParseOptions{}); ok {
			return c.FillNumber(v)
		}
	case dataset.Temporal:
		if t, ok := dataset.ParseTime(value); ok {
			n := 0
			for i := range c.Null {
				if c.Null[i] {
					c.Time[i] = t
					c.Null[i] = false
					n++
				}
			}
			return n
		}
	}
	c.ToText()
	n := 0
	for i := range c.Null {
		if c.Null[i] {
			c.Text[i] = value
			c.Null[i] = false
			n++
		}
	}
	return n
}

// Anonymize replaces every present value with the hex BLAKE2b-256 digest of
// its text form. Missing cells stay missing.
func Anonymize(c *dataset.Column) int {
	c.ToText()
	n := 0
	for i := range c.Null {
		if c.Null[i] {
			continue
		}
		sum := blake2b.Sum256([]byte(c.Text[i]))
		c.Text[i] = hex.EncodeToString(sum[:])
		n++
	}
	return n
}
