// Package classify determines which standardized interval-file dialect a
// table conforms to and how many of its columns follow the BED schema.
//
// Columns are checked left to right against the canonical BED rules. The
// walk stops at the first column that fails; when it stops at thickStart or
// beyond, the table's shape is matched against the ENCODE peak formats
// before falling back to a generic BED-like verdict.
package classify

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/databio/bedboss-sub000/internal/table"
)

// Output is the verdict of a classification pass.
type Output struct {
	BedCompliance       string     `json:"bed_compliance" yaml:"bed_compliance"`
	DataFormat          DataFormat `json:"data_format" yaml:"data_format"`
	CompliantColumns    int        `json:"compliant_columns" yaml:"compliant_columns"`
	NonCompliantColumns int        `json:"non_compliant_columns" yaml:"non_compliant_columns"`
}

func newOutput(format DataFormat, compliant, nonCompliant int) *Output {
	return &Output{
		BedCompliance:       FormatCompliance(compliant, nonCompliant),
		DataFormat:          format,
		CompliantColumns:    compliant,
		NonCompliantColumns: nonCompliant,
	}
}

// Unknown returns the verdict used when the input could not be parsed.
func Unknown() *Output {
	return newOutput(UnknownFormat, 0, 0)
}

// Classifier reads tabular sources and classifies them.
type Classifier struct {
	Options table.Options
	Logger  logrus.FieldLogger
}

// New returns a Classifier with default table options.
func New() *Classifier {
	return &Classifier{
		Options: table.DefaultOptions(),
		Logger:  logrus.StandardLogger(),
	}
}

func (c *Classifier) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// ClassifyFile classifies the interval file at path. When allowPartial is
// set, a source that cannot be parsed yields the unknown verdict instead of
// a *table.FormatError.
func (c *Classifier) ClassifyFile(path string, allowPartial bool) (*Output, error) {
	m, err := table.ReadFile(path, c.Options)
	return c.finish(m, err, allowPartial, path)
}

// ClassifyReader classifies tab-delimited data read from r.
func (c *Classifier) ClassifyReader(r io.Reader, allowPartial bool) (*Output, error) {
	m, err := table.Read(r, c.Options)
	return c.finish(m, err, allowPartial, "")
}

// ClassifyRows classifies rows that were already split into cells.
func (c *Classifier) ClassifyRows(rows [][]string, allowPartial bool) (*Output, error) {
	m, err := table.FromRows(rows)
	return c.finish(m, err, allowPartial, "")
}

func (c *Classifier) finish(m *table.Matrix, err error, allowPartial bool, source string) (*Output, error) {
	log := c.logger().WithField("source", source)
	if err != nil {
		var fe *table.FormatError
		if allowPartial && errors.As(err, &fe) {
			log.WithError(err).Debug("unparseable input, reporting unknown format")
			return Unknown(), nil
		}
		return nil, err
	}

	out := Classify(m)
	log.WithFields(logrus.Fields{
		"skipped_rows":   m.Skipped,
		"data_format":    out.DataFormat.String(),
		"bed_compliance": out.BedCompliance,
	}).Debug("classified table")
	return out, nil
}

// Classify classifies a parsed matrix.
func Classify(m *table.Matrix) *Output {
	ncol := m.NumCols()
	if ncol == 0 || m.NumRows() == 0 {
		return Unknown()
	}

	compliant := 0
	relaxed := false

	variant := func(f DataFormat) DataFormat {
		if relaxed {
			return f.Relaxed()
		}
		return f
	}

	for idx := 0; idx < ncol && idx < CanonicalColumns; idx++ {
		rule := bedRules[idx]
		col := m.Column(idx)

		switch {
		case rule.Strict(col):
			compliant++
		case rule.Relaxed != nil && rule.Relaxed(col):
			compliant++
			relaxed = true
		default:
			if idx >= 6 {
				if f, ok := detectPeakShape(m, idx); ok {
					return newOutput(variant(f), compliant, ncol-compliant)
				}
			}
			return newOutput(variant(BedLike), compliant, ncol-compliant)
		}
	}

	if ncol > CanonicalColumns {
		if f, ok := detectPeakShape(m, CanonicalColumns); ok {
			return newOutput(variant(f), compliant, ncol-compliant)
		}
		return newOutput(variant(BedLike), compliant, ncol-compliant)
	}

	if compliant < 3 {
		return newOutput(variant(BedLike), compliant, 0)
	}
	return newOutput(variant(UCSCBed), compliant, 0)
}

// detectPeakShape matches the table against the ENCODE peak formats given
// the column index at which the BED walk stopped.
func detectPeakShape(m *table.Matrix, brk int) (DataFormat, bool) {
	ncol := m.NumCols()
	floats := func(idx ...int) bool {
		for _, i := range idx {
			if !IsFloatOrMinusOne(m.Column(i)) {
				return false
			}
		}
		return true
	}

	switch {
	case brk == 6 && ncol == 10:
		if floats(6, 7, 8) && IsIntColumn(m.Column(9)) {
			return EncodeNarrowPeak, true
		}
	case brk == 6 && ncol == 9:
		if floats(6, 7, 8) {
			return EncodeBroadPeak, true
		}
		if floats(6, 7) && IsIntFirstNotMinusOne(m.Column(8)) {
			return EncodeRNAElements, true
		}
	case brk == 12 && ncol == 15:
		if floats(12, 13, 14) {
			return EncodeGappedPeak, true
		}
	}
	return UnknownFormat, false
}
