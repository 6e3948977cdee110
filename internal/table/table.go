// Package table reads tab-delimited interval data into a rectangular matrix
// of string cells.
//
// Interval files frequently start with a handful of header, track or comment
// lines. Read retries the parse with an increasing number of leading lines
// skipped and keeps the first attempt that yields a consistent column count.
package table

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/gzip"
)

const (
	// DefaultMaxHeaderRows is the largest number of leading rows skipped.
	DefaultMaxHeaderRows = 5
	// DefaultSampleRows is the number of data rows parsed per attempt.
	DefaultSampleRows = 4
)

// Options controls how much of a source is examined.
type Options struct {
	// MaxHeaderRows is the largest number of leading rows to skip.
	MaxHeaderRows int
	// SampleRows limits the data rows parsed per attempt. Zero or less
	// reads every row.
	SampleRows int
}

// DefaultOptions returns the options used by the classifier.
func DefaultOptions() Options {
	return Options{
		MaxHeaderRows: DefaultMaxHeaderRows,
		SampleRows:    DefaultSampleRows,
	}
}

// Matrix is a parsed table. Every row has the same number of cells; cells
// that were empty in the source are empty strings.
type Matrix struct {
	Rows    [][]string
	Skipped int
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int {
	return len(m.Rows)
}

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// Column returns the cells of column i, top to bottom.
func (m *Matrix) Column(i int) []string {
	col := make([]string, len(m.Rows))
	for r, row := range m.Rows {
		col[r] = row[i]
	}
	return col
}

// FromRows builds a matrix from rows already split into cells. Ragged rows
// are rejected.
func FromRows(rows [][]string) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, &FormatError{Reason: "no rows"}
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, &FormatError{
				Reason: fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), width),
			}
		}
	}
	return &Matrix{Rows: rows}, nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts Options) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	m, err := Read(f, opts)
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Source = path
		}
		return nil, err
	}
	return m, nil
}

// Read parses r as tab-delimited text, transparently decompressing gzip
// input. It tries skipping 0..MaxHeaderRows leading lines, in order, and
// returns the first structurally consistent parse. Columns that are empty
// in every row are dropped.
func Read(r io.Reader, opts Options) (*Matrix, error) {
	if opts.MaxHeaderRows < 0 {
		opts.MaxHeaderRows = 0
	}

	src, err := Decompress(r)
	if err != nil {
		return nil, &FormatError{Reason: "invalid gzip stream", Err: err}
	}

	limit := -1
	if opts.SampleRows > 0 {
		limit = opts.MaxHeaderRows + opts.SampleRows
	}
	lines, err := readLines(src, limit)
	if err != nil {
		return nil, &FormatError{Reason: "reading input", Err: err}
	}

	var lastErr error
	attempts := 0
	for skip := 0; skip <= opts.MaxHeaderRows; skip++ {
		if skip >= len(lines) {
			break
		}
		attempts++

		body := lines[skip:]
		if opts.SampleRows > 0 && len(body) > opts.SampleRows {
			body = body[:opts.SampleRows]
		}

		m, err := parse(body)
		if err != nil {
			lastErr = err
			continue
		}
		m.Skipped = skip
		return m, nil
	}

	return nil, &FormatError{
		Reason:   "no consistent tab-delimited layout",
		Attempts: attempts,
		Err:      lastErr,
	}
}

func parse(lines []string) (*Matrix, error) {
	df := dataframe.ReadCSV(
		strings.NewReader(strings.Join(lines, "\n")),
		dataframe.HasHeader(false),
		dataframe.WithDelimiter('\t'),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	nrow, ncol := df.Nrow(), df.Ncol()
	keep := make([]int, 0, ncol)
	for c := 0; c < ncol; c++ {
		for r := 0; r < nrow; r++ {
			if !df.Elem(r, c).IsNA() {
				keep = append(keep, c)
				break
			}
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("all columns are empty")
	}

	rows := make([][]string, nrow)
	for r := 0; r < nrow; r++ {
		row := make([]string, len(keep))
		for i, c := range keep {
			e := df.Elem(r, c)
			if !e.IsNA() {
				row[i] = e.String()
			}
		}
		rows[r] = row
	}
	return &Matrix{Rows: rows}, nil
}

// readLines returns up to limit non-blank lines; limit < 0 reads all.
func readLines(r io.Reader, limit int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if limit >= 0 && len(lines) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// Decompress returns a reader yielding the decompressed content of r when r
// starts with the gzip magic bytes, and r's content unchanged otherwise.
func Decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil || !bytes.Equal(head, gzipMagic) {
		return br, nil
	}
	return gzip.NewReader(br)
}
