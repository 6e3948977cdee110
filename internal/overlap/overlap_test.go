package overlap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExcludedRangesCount(t *testing.T) {
	x := NewExcludedRanges()
	require.NoError(t, x.Add("chr1", 100, 200, "blacklist"))
	require.NoError(t, x.Add("chr1", 150, 300, "gaps"))
	require.NoError(t, x.Add("chr2", 0, 50, "blacklist"))
	require.NoError(t, x.Add("chr3", 10, 10, "empty"))

	assert.Equal(t, 3, x.Len())
	assert.Equal(t, []string{"blacklist", "empty", "gaps"}, x.Sources())

	tests := []struct {
		name  string
		chrom string
		start int
		end   int
		want  map[string]int
	}{
		{"both sources", "chr1", 160, 170, map[string]int{"blacklist": 1, "gaps": 1}},
		{"touching end is not overlap", "chr1", 300, 400, map[string]int{}},
		{"touching start is not overlap", "chr1", 50, 100, map[string]int{}},
		{"single", "chr2", 10, 20, map[string]int{"blacklist": 1}},
		{"unknown chrom", "chrX", 0, 1000, map[string]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := map[string]int{}
			x.Count(tt.chrom, tt.start, tt.end, hits)
			assert.Equal(t, tt.want, hits)
		})
	}

	assert.Error(t, x.Add("chr1", 10, 5, "bad"))
}

func TestExcludedRangesOverlaps(t *testing.T) {
	db := writeFile(t, "excluded.bed", "chr1\t100\t200\tblacklist\nchr1\t500\t600\tgaps\nchr2\t0\t10\tblacklist\n")
	bed := writeFile(t, "query.bed", "track name=q\nchr1\t150\t160\tx\nchr1\t190\t550\ty\nchr3\t0\t10\tz\n")

	x, err := LoadExcludedRanges(db)
	require.NoError(t, err)

	hits, err := x.Overlaps(context.Background(), bed)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"blacklist": 2, "gaps": 1}, hits)
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExcludedRangesFileLayouts(t *testing.T) {
	const db = "chr1\t100\t200\tblacklist\nchr1\t500\t600\tgaps"
	const query = "# comment\nchr1\t150\t160\tx\nchr1\t190\t550\ty"

	tests := []struct {
		name  string
		file  string
		db    []byte
		query []byte
	}{
		{"no trailing newline", ".bed", []byte(db), []byte(query)},
		{"gzip without gz suffix", ".bed", gzipBytes(t, db), gzipBytes(t, query)},
		{"plain text with gz suffix", ".bed.gz", []byte(db + "\n"), []byte(query + "\n")},
		{"crlf line endings", ".bed", []byte("chr1\t100\t200\tblacklist\r\nchr1\t500\t600\tgaps\r\n"), []byte(query)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dbPath := filepath.Join(dir, "excluded"+tt.file)
			queryPath := filepath.Join(dir, "query"+tt.file)
			require.NoError(t, os.WriteFile(dbPath, tt.db, 0o644))
			require.NoError(t, os.WriteFile(queryPath, tt.query, 0o644))

			x, err := LoadExcludedRanges(dbPath)
			require.NoError(t, err)
			assert.Equal(t, 2, x.Len())

			hits, err := x.Overlaps(context.Background(), queryPath)
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"blacklist": 2, "gaps": 1}, hits)
		})
	}
}

func TestOverlapsEmptyFile(t *testing.T) {
	x := NewExcludedRanges()
	require.NoError(t, x.Add("chr1", 0, 10, "blacklist"))

	hits, err := x.Overlaps(context.Background(), writeFile(t, "empty.bed", ""))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"blacklist": 0}, hits)
}

func TestLoadExcludedRangesDefaultSource(t *testing.T) {
	db := writeFile(t, "hg38-blacklist.bed", "chr1\t100\t200\n")

	x, err := LoadExcludedRanges(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"hg38-blacklist"}, x.Sources())
}

func TestLoadExcludedRangesErrors(t *testing.T) {
	_, err := LoadExcludedRanges(filepath.Join(t.TempDir(), "missing.bed"))
	assert.Error(t, err)

	_, err = LoadExcludedRanges(writeFile(t, "short.bed", "chr1\t100\n"))
	assert.Error(t, err)

	_, err = LoadExcludedRanges(writeFile(t, "bad.bed", "chr1\tx\t100\n"))
	assert.Error(t, err)
}

func TestOverlapsMissingFile(t *testing.T) {
	x := NewExcludedRanges()
	_, err := x.Overlaps(context.Background(), filepath.Join(t.TempDir(), "nope.bed"))
	assert.Error(t, err)
}

func TestProviderFunc(t *testing.T) {
	var p Provider = ProviderFunc(func(ctx context.Context, bedPath string) (map[string]int, error) {
		return map[string]int{bedPath: 1}, nil
	})

	hits, err := p.Overlaps(context.Background(), "a.bed")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a.bed": 1}, hits)
}
