package bedboss

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const narrowPeak = "chr1\t100\t200\tpeak1\t500\t.\t5.1\t3.2\t2.1\t50\n" +
	"chr1\t300\t400\tpeak2\t600\t.\t6.2\t4.3\t3.0\t40\n" +
	"chr2\t50\t900\tpeak3\t700\t.\t7.3\t5.4\t4.1\t30\n" +
	"chr2\t950\t1000\tpeak4\t800\t.\t8.4\t6.5\t5.2\t20\n"

func writeBed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peaks.narrowPeak")
	require.NoError(t, os.WriteFile(path, []byte(narrowPeak), 0o644))
	return path
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	hg, err := NewGenomeModel("hg38", "", map[string]int64{"chr1": 5000, "chr2": 5000})
	require.NoError(t, err)
	mm, err := NewGenomeModel("mm10", "", map[string]int64{"chr1": 150, "chrX": 9000})
	require.NoError(t, err)
	reg, err := NewRegistry(hg, mm)
	require.NoError(t, err)
	return reg
}

func TestClassifyFile(t *testing.T) {
	out, err := ClassifyFile(writeBed(t))
	require.NoError(t, err)

	assert.Equal(t, "bed6+4", out.BedCompliance)
	assert.Equal(t, "encode_narrowpeak", out.DataFormat.String())

	n, m, err := ParseCompliance(out.BedCompliance)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 4, m)
}

func TestPredict(t *testing.T) {
	fp, err := ExtractFootprint(writeBed(t))
	require.NoError(t, err)

	alias, ok, err := Predict(context.Background(), fp, testRegistry(t).Models())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hg38", alias)
}

func TestPipelineProcess(t *testing.T) {
	p := NewPipeline(testRegistry(t))

	res, err := p.Process(context.Background(), writeBed(t))
	require.NoError(t, err)

	assert.Equal(t, "bed6+4", res.Classification.BedCompliance)
	require.NotNil(t, res.Footprint)
	assert.Equal(t, 2, res.Footprint.Count)
	require.NotNil(t, res.Report)
	assert.Len(t, res.Report.Results, 2)
	assert.Equal(t, "hg38", res.Prediction)

	dist := Tiers(res.Report)
	assert.Equal(t, 1, dist.Excellent)
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

func TestPipelineProcessFileLayouts(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"no trailing newline", []byte(strings.TrimSuffix(narrowPeak, "\n"))},
		{"gzip without gz suffix", gzipBytes(t, narrowPeak)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "peaks.bed")
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))
			excluded := filepath.Join(dir, "blacklist.bed")
			require.NoError(t, os.WriteFile(excluded, gzipBytes(t, "chr1\t150\t160\tblacklist"), 0o644))

			x, err := LoadExcludedRanges(excluded)
			require.NoError(t, err)
			p := NewPipeline(testRegistry(t))
			p.Validator.Overlaps = x

			res, err := p.Process(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, "bed6+4", res.Classification.BedCompliance)
			require.NotNil(t, res.Footprint)
			assert.Equal(t, int64(1400), res.Footprint.TotalSpan)
			assert.Equal(t, "hg38", res.Prediction)
			assert.Equal(t, map[string]int{"blacklist": 1}, res.Report.Results[0].Stats.IGDStats)
		})
	}
}

func TestPipelineWithoutRegistry(t *testing.T) {
	res, err := NewPipeline(nil).Process(context.Background(), writeBed(t))
	require.NoError(t, err)
	assert.Nil(t, res.Report)
	assert.Empty(t, res.Prediction)
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), Version())
}
