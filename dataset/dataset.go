// Package dataset loads binary-classification tables from CSV and splits
// them into training and test partitions.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/pkg/log"
	"github.com/basiskit/basiskit/preprocessing"
	"github.com/basiskit/basiskit/stats"
)

// values closer to zero than this count as missing when cleaning
const zeroTol = 1e-6

// Options describes the CSV layout and the preprocessing to apply.
type Options struct {
	// Class0 and Class1 are the label strings mapped to 0 and 1.
	Class0 string
	Class1 string

	// Skip is the number of leading columns to ignore, e.g. an id column.
	Skip int

	// Split is the percentage of rows, in file order, used for training.
	Split float64

	// LabelAtStart puts the label in the first column after the skipped
	// ones. Otherwise the label is the last column.
	LabelAtStart bool

	// Header drops the first record.
	Header bool

	// Clean replaces zero features with the median of the column's
	// non-zero values.
	Clean bool

	// Scale maps every feature column onto [0, 1].
	Scale bool
}

// Split holds the training and test partitions. A partition with no rows
// is nil.
type Split struct {
	XTrain *mat.Dense
	YTrain *mat.Dense
	XTest  *mat.Dense
	YTest  *mat.Dense
}

func (o Options) validate() error {
	if o.Split < 0 || o.Split > 100 || math.IsNaN(o.Split) {
		return errors.NewValidationError("split", "must be a percentage in [0, 100]", o.Split)
	}
	if o.Skip < 0 {
		return errors.NewValidationError("skip", "must not be negative", o.Skip)
	}
	if o.Class0 == "" || o.Class1 == "" || o.Class0 == o.Class1 {
		return errors.NewValidationError("classes", "two distinct non-empty class names are required", []string{o.Class0, o.Class1})
	}
	return nil
}

// LoadBinaryCSV reads path and returns its rows split per opts.
func LoadBinaryCSV(path string, opts Options) (*Split, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()
	return ReadBinaryCSV(f, opts)
}

// ReadBinaryCSV is LoadBinaryCSV over an io.Reader.
func ReadBinaryCSV(r io.Reader, opts Options) (*Split, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read dataset")
	}
	if opts.Header && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.ReadBinaryCSV", "empty data", errors.ErrEmptyData)
	}

	X, y, err := parse(records, opts)
	if err != nil {
		return nil, err
	}
	if opts.Clean {
		CleanZeros(X)
	}
	if opts.Scale {
		scaler := preprocessing.NewMinMaxScalerDefault()
		if X, err = scaler.FitTransform(X); err != nil {
			return nil, err
		}
	}

	split, err := TrainTestSplit(X, y, opts.Split)
	if err != nil {
		return nil, err
	}
	n, features := X.Dims()
	log.GetLoggerWithName("dataset").Info("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, n,
		log.FeaturesKey, features,
	)
	return split, nil
}

func parse(records [][]string, opts Options) (*mat.Dense, *mat.Dense, error) {
	width := len(records[0]) - opts.Skip
	if width < 2 {
		return nil, nil, errors.NewValidationError("skip", "a row needs a label and at least one feature after the skipped columns", opts.Skip)
	}
	labelCol := width - 1
	if opts.LabelAtStart {
		labelCol = 0
	}

	X := mat.NewDense(len(records), width-1, nil)
	y := mat.NewDense(len(records), 1, nil)
	for i, record := range records {
		fields := record[opts.Skip:]
		switch label := strings.TrimSpace(fields[labelCol]); label {
		case opts.Class0:
		case opts.Class1:
			y.Set(i, 0, 1)
		default:
			return nil, nil, errors.NewValidationError("label", "row "+strconv.Itoa(i+1)+" has an unknown class", label)
		}

		j := 0
		for k, field := range fields {
			if k == labelCol {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "row %d column %d", i+1, opts.Skip+k+1)
			}
			X.Set(i, j, v)
			j++
		}
	}
	return X, y, nil
}

// CleanZeros replaces every zero entry of X with the median of the non-zero
// entries in its column. Columns that are entirely zero are left alone.
func CleanZeros(X *mat.Dense) {
	r, c := X.Dims()
	for j := 0; j < c; j++ {
		present := lo.Filter(stats.Column(X, j), func(v float64, _ int) bool {
			return math.Abs(v) >= zeroTol
		})
		if len(present) == 0 {
			continue
		}
		median := stats.Median(present)
		for i := 0; i < r; i++ {
			if math.Abs(X.At(i, j)) < zeroTol {
				X.Set(i, j, median)
			}
		}
	}
}

// TrainTestSplit keeps row order: the first int(n*split/100) rows train and
// the rest test.
func TrainTestSplit(X, y *mat.Dense, split float64) (*Split, error) {
	if split < 0 || split > 100 || math.IsNaN(split) {
		return nil, errors.NewValidationError("split", "must be a percentage in [0, 100]", split)
	}
	n, _ := X.Dims()
	if yr, _ := y.Dims(); yr != n {
		return nil, errors.NewDimensionError("dataset.TrainTestSplit", n, yr, 0)
	}

	mid := int(float64(n) * split / 100)
	return &Split{
		XTrain: rows(X, 0, mid),
		YTrain: rows(y, 0, mid),
		XTest:  rows(X, mid, n),
		YTest:  rows(y, mid, n),
	}, nil
}

func rows(m *mat.Dense, from, to int) *mat.Dense {
	if from == to {
		return nil
	}
	_, c := m.Dims()
	return mat.DenseCopyOf(m.Slice(from, to, 0, c))
}
