package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databio/bedboss-sub000/internal/table"
)

func rows(lines ...string) [][]string {
	out := make([][]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Split(l, "\t")
	}
	return out
}

func classifyRows(t *testing.T, r [][]string) *Output {
	t.Helper()
	m, err := table.FromRows(r)
	require.NoError(t, err)
	return Classify(m)
}

func TestClassifyUCSCBed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		ncol  int
	}{
		{"bed3", []string{"chr1\t100\t200", "chr2\t0\t50"}, 3},
		{"bed4", []string{"chr1\t100\t200\tpeak1", "chrX\t5\t10\tpeak 2"}, 4},
		{"bed5", []string{"chr1\t100\t200\tp\t0", "chr1\t300\t400\tq\t1000"}, 5},
		{"bed6", []string{"chr1\t100\t200\tp\t500\t+", "chr1\t300\t400\tq\t10\t."}, 6},
		{"bed9", []string{
			"chr1\t100\t200\tp\t500\t+\t100\t200\t255,0,0",
			"chr1\t300\t400\tq\t10\t-\t300\t400\t0",
		}, 9},
		{"bed12", []string{
			"chr1\t100\t200\tp\t500\t+\t100\t200\t0\t2\t10,20,\t0,80,",
			"chr1\t300\t400\tq\t10\t-\t300\t400\t0\t1\t100\t0",
		}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := classifyRows(t, rows(tt.lines...))

			assert.Equal(t, UCSCBed, out.DataFormat)
			assert.Equal(t, tt.ncol, out.CompliantColumns)
			assert.Equal(t, 0, out.NonCompliantColumns)
			assert.Equal(t, FormatCompliance(tt.ncol, 0), out.BedCompliance)
		})
	}
}

func TestClassifyRelaxedScore(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t100\t200\tp\t5000\t+",
		"chr1\t300\t400\tq\t10\t-",
	))

	assert.Equal(t, UCSCBedRelaxed, out.DataFormat)
	assert.Equal(t, "bed6+0", out.BedCompliance)
}

func TestClassifyNegativeScoreBreaks(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t100\t200\tp\t-5\t+",
	))

	assert.Equal(t, BedLike, out.DataFormat)
	assert.Equal(t, 4, out.CompliantColumns)
	assert.Equal(t, 2, out.NonCompliantColumns)
}

func TestClassifyNarrowPeak(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t9356548\t9356648\t.\t0\t.\t182\t5.0945\t-1\t50",
		"chr1\t9358722\t9358822\t.\t0\t.\t91\t4.6052\t-1\t40",
		"chr1\t9361082\t9361182\t.\t0\t.\t4.5\t9.2103\t-1\t75",
	))

	assert.Equal(t, EncodeNarrowPeak, out.DataFormat)
	assert.Equal(t, "bed6+4", out.BedCompliance)
	assert.Equal(t, 6, out.CompliantColumns)
	assert.Equal(t, 4, out.NonCompliantColumns)
}

func TestClassifyNarrowPeakRelaxed(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t100\t200\t.\t2000\t.\t1.5\t-1\t-1\t50",
		"chr1\t300\t400\t.\t10\t.\t2.5\t-1\t-1\t-1",
	))

	assert.Equal(t, EncodeNarrowPeakRelaxed, out.DataFormat)
	assert.Equal(t, "bed6+4", out.BedCompliance)
}

func TestClassifyBroadPeak(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t100\t200\t.\t0\t.\t3.2\t-1\t0.01",
		"chr1\t300\t400\t.\t0\t.\t1.7\t-1\t0.2",
	))

	assert.Equal(t, EncodeBroadPeak, out.DataFormat)
	assert.Equal(t, "bed6+3", out.BedCompliance)
}

func TestClassifyRNAElements(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t100\t200\t.\t0\t+\t3.2\t0.5\t12",
		"chr1\t300\t400\t.\t0\t-\t1.7\t-1\t7",
	))

	assert.Equal(t, EncodeRNAElements, out.DataFormat)
	assert.Equal(t, "bed6+3", out.BedCompliance)
}

func TestClassifyGappedPeak(t *testing.T) {
	out := classifyRows(t, rows(
		"chr1\t100\t200\t.\t0\t.\t100\t200\t0\t2\t10,20\t0,80\t3.5\t-1\t0.25",
		"chr1\t300\t400\t.\t0\t.\t300\t400\t0\t1\t100\t0\t1.5\t-1\t0.5",
	))

	assert.Equal(t, EncodeGappedPeak, out.DataFormat)
	assert.Equal(t, "bed12+3", out.BedCompliance)
}

func TestClassifyBedLike(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		compliance string
	}{
		{
			name:       "bad strand",
			lines:      []string{"chr1\t1\t2\tx\t0\tup\textra"},
			compliance: "bed5+2",
		},
		{
			name:       "bed12 plus extras",
			lines:      []string{"chr1\t1\t2\tx\t0\t+\t1\t2\t0\t1\t1\t0\tfoo\tbar"},
			compliance: "bed12+2",
		},
		{
			name:       "bad start",
			lines:      []string{"chr1\tabc\t2"},
			compliance: "bed1+2",
		},
		{
			name:       "ten columns not narrowPeak",
			lines:      []string{"chr1\t1\t2\tx\t0\t+\tfoo\tbar\tbaz\tqux"},
			compliance: "bed6+4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := classifyRows(t, rows(tt.lines...))
			assert.Equal(t, BedLike, out.DataFormat)
			assert.Equal(t, tt.compliance, out.BedCompliance)
		})
	}
}

func TestClassifyBedLikeRelaxed(t *testing.T) {
	out := classifyRows(t, rows("chr1\t1\t2\tx\t9999\t+\tfoo"))

	assert.Equal(t, BedLikeRelaxed, out.DataFormat)
	assert.Equal(t, "bed6+1", out.BedCompliance)
}

func TestClassifyTooFewColumns(t *testing.T) {
	out := classifyRows(t, rows("chr1\t100"))

	assert.Equal(t, BedLike, out.DataFormat)
	assert.Equal(t, "bed2+0", out.BedCompliance)
}

func TestClassifyColumnCountInvariant(t *testing.T) {
	inputs := [][]string{
		{"chr1\t1\t2"},
		{"chr1\t1\t2\tx\t0\t.\t1.5\t-1\t-1\t5"},
		{"chr1\t1\t2\tx\t0\t+\t1\t2\t0\t1\t1\t0\t1.5\t-1\t-1"},
		{"chr1\t1\t2\tx\t0\tup\textra\tmore"},
		{"weird name!\t1\t2"},
	}

	for _, in := range inputs {
		r := rows(in...)
		out := classifyRows(t, r)

		assert.Equal(t, len(r[0]), out.CompliantColumns+out.NonCompliantColumns)

		c, n, err := ParseCompliance(out.BedCompliance)
		require.NoError(t, err)
		assert.Equal(t, out.CompliantColumns, c)
		assert.Equal(t, out.NonCompliantColumns, n)
	}
}

func TestClassifierReaderWithHeader(t *testing.T) {
	input := "track name=\"peaks\" description=\"demo\"\n" +
		"chr1\t100\t200\t.\t0\t.\t5.5\t-1\t-1\t50\n" +
		"chr2\t300\t400\t.\t0\t.\t2.25\t-1\t-1\t20\n"

	out, err := New().ClassifyReader(strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, EncodeNarrowPeak, out.DataFormat)
}

func TestClassifierAllowPartial(t *testing.T) {
	ragged := "a\nb\tc\nd\ne\tf\tg\nh\ni\tj\tk\tl\nm\n"

	_, err := New().ClassifyReader(strings.NewReader(ragged), false)
	require.Error(t, err)
	var fe *table.FormatError
	assert.ErrorAs(t, err, &fe)

	out, err := New().ClassifyReader(strings.NewReader(ragged), true)
	require.NoError(t, err)
	assert.Equal(t, UnknownFormat, out.DataFormat)
	assert.Equal(t, 0, out.CompliantColumns)
	assert.Equal(t, "bed0+0", out.BedCompliance)
}

func TestClassifierFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bed")
	content := "#comment\nchr1\t10\t20\tname\t100\t+\nchr1\t30\t40\tname\t200\t-\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := New().ClassifyFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, UCSCBed, out.DataFormat)
	assert.Equal(t, "bed6+0", out.BedCompliance)
}

func TestClassifierMissingFile(t *testing.T) {
	_, err := New().ClassifyFile(filepath.Join(t.TempDir(), "nope.bed"), true)
	require.Error(t, err)
}

func TestClassifyRowsRagged(t *testing.T) {
	_, err := New().ClassifyRows([][]string{{"chr1", "1", "2"}, {"chr1"}}, false)
	require.Error(t, err)

	out, err := New().ClassifyRows([][]string{{"chr1", "1", "2"}, {"chr1"}}, true)
	require.NoError(t, err)
	assert.Equal(t, UnknownFormat, out.DataFormat)
}
