// Package footprint reduces an interval file to its chromosome footprint:
// the largest end coordinate observed on each chromosome.
package footprint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/databio/bedboss-sub000/internal/table"
)

// Footprint maps chromosome names to the maximum end coordinate seen for
// them. A Footprint is immutable once built.
type Footprint struct {
	ends map[string]int64
}

// New returns a Footprint holding a copy of ends.
func New(ends map[string]int64) Footprint {
	cp := make(map[string]int64, len(ends))
	for k, v := range ends {
		cp[k] = v
	}
	return Footprint{ends: cp}
}

// Len returns the number of distinct chromosomes.
func (f Footprint) Len() int {
	return len(f.ends)
}

// Get returns the maximum end recorded for chrom.
func (f Footprint) Get(chrom string) (int64, bool) {
	v, ok := f.ends[chrom]
	return v, ok
}

// Names returns the chromosome names in lexical order.
func (f Footprint) Names() []string {
	names := make([]string, 0, len(f.ends))
	for k := range f.ends {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the footprint as a plain map.
func (f Footprint) Map() map[string]int64 {
	return New(f.ends).ends
}

// MarshalJSON encodes the footprint as a JSON object.
func (f Footprint) MarshalJSON() ([]byte, error) {
	if f.ends == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.ends)
}

// UnmarshalJSON decodes a JSON object of chromosome to end coordinate.
func (f *Footprint) UnmarshalJSON(data []byte) error {
	var ends map[string]int64
	if err := json.Unmarshal(data, &ends); err != nil {
		return err
	}
	for chrom, end := range ends {
		if end < 0 {
			return fmt.Errorf("chromosome %s: negative end %d", chrom, end)
		}
	}
	*f = New(ends)
	return nil
}

// builder accumulates interval records into a footprint.
type builder struct {
	ends   map[string]int64
	source string
	line   int
}

func newBuilder(source string) *builder {
	return &builder{ends: make(map[string]int64), source: source}
}

func (b *builder) addLine(line string) error {
	b.line++
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isHeader(trimmed) {
		return nil
	}
	fields := strings.Split(trimmed, "\t")
	if len(fields) < 3 {
		fields = strings.Fields(trimmed)
	}
	return b.add(fields)
}

func (b *builder) add(fields []string) error {
	if len(fields) < 3 {
		return &table.FormatError{
			Source: b.source,
			Reason: fmt.Sprintf("line %d: expected at least 3 columns, found %d", b.line, len(fields)),
		}
	}
	chrom := strings.TrimSpace(fields[0])
	end, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil || end < 0 {
		return &table.FormatError{
			Source: b.source,
			Reason: fmt.Sprintf("line %d: invalid end coordinate %q", b.line, fields[2]),
		}
	}
	if cur, ok := b.ends[chrom]; !ok || end > cur {
		b.ends[chrom] = end
	}
	return nil
}

func (b *builder) footprint() Footprint {
	return Footprint{ends: b.ends}
}

func isHeader(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "track") ||
		strings.HasPrefix(line, "browser")
}

// FromFile extracts the footprint of a plain or gzip-compressed interval
// file. Compression is detected from the content, not the file name.
func FromFile(path string) (Footprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Footprint{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return read(f, path)
}

// FromReader extracts the footprint of interval data read from r.
func FromReader(r io.Reader) (Footprint, error) {
	return read(r, "")
}

func read(r io.Reader, source string) (Footprint, error) {
	src, err := table.Decompress(r)
	if err != nil {
		return Footprint{}, &table.FormatError{Source: source, Reason: "invalid gzip stream", Err: err}
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	b := newBuilder(source)
	for scanner.Scan() {
		if err := b.addLine(scanner.Text()); err != nil {
			return Footprint{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Footprint{}, &table.FormatError{Source: source, Reason: "reading input", Err: err}
	}
	return b.footprint(), nil
}

// FromMatrix extracts the footprint of an already parsed table.
func FromMatrix(m *table.Matrix) (Footprint, error) {
	b := newBuilder("")
	for _, row := range m.Rows {
		b.line++
		if err := b.add(row); err != nil {
			return Footprint{}, err
		}
	}
	return b.footprint(), nil
}
