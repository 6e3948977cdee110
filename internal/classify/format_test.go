package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFormatRelaxed(t *testing.T) {
	tests := []struct {
		strict  DataFormat
		relaxed DataFormat
	}{
		{UCSCBed, UCSCBedRelaxed},
		{BedLike, BedLikeRelaxed},
		{EncodeNarrowPeak, EncodeNarrowPeakRelaxed},
		{EncodeBroadPeak, EncodeBroadPeakRelaxed},
		{EncodeGappedPeak, EncodeGappedPeakRelaxed},
		{EncodeRNAElements, EncodeRNAElementsRelaxed},
	}

	for _, tt := range tests {
		t.Run(tt.strict.String(), func(t *testing.T) {
			assert.Equal(t, tt.relaxed, tt.strict.Relaxed())
			assert.Equal(t, tt.relaxed, tt.relaxed.Relaxed())
			assert.Equal(t, tt.strict, tt.relaxed.Base())
			assert.True(t, tt.relaxed.IsRelaxed())
			assert.False(t, tt.strict.IsRelaxed())
		})
	}

	assert.Equal(t, UnknownFormat, UnknownFormat.Relaxed())
}

func TestDataFormatText(t *testing.T) {
	for _, f := range Formats() {
		text, err := f.MarshalText()
		require.NoError(t, err)

		var back DataFormat
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, f, back)
	}

	_, err := ParseDataFormat("bigwig")
	assert.Error(t, err)

	_, err = DataFormat(99).MarshalText()
	assert.Error(t, err)
}

func TestOutputJSON(t *testing.T) {
	data, err := json.Marshal(newOutput(EncodeBroadPeak, 6, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"bed_compliance": "bed6+3",
		"data_format": "encode_broadpeak",
		"compliant_columns": 6,
		"non_compliant_columns": 3
	}`, string(data))
}

func TestParseCompliance(t *testing.T) {
	tests := []struct {
		in      string
		c, n    int
		wantErr bool
	}{
		{"bed3+0", 3, 0, false},
		{"bed6+4", 6, 4, false},
		{"bed12+3", 12, 3, false},
		{"bed6", 0, 0, true},
		{"6+4", 0, 0, true},
		{"bedx+1", 0, 0, true},
		{"bed1+-1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, n, err := ParseCompliance(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.c, c)
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		index   int
		col     []string
		strict  bool
		relaxed bool
	}{
		{0, []string{"chr1", "chrUn_KI270302v1"}, true, false},
		{0, []string{"chr1:2"}, false, false},
		{0, []string{"chr1 extra"}, false, false},
		{1, []string{"0", "15"}, true, false},
		{1, []string{"-1"}, false, false},
		{3, []string{"peak 1"}, true, false},
		{3, []string{"tab\x01"}, false, false},
		{4, []string{"1000"}, true, true},
		{4, []string{"1001"}, false, true},
		{4, []string{"-3"}, false, false},
		{5, []string{"+", "-", "."}, true, false},
		{8, []string{"255,255,255", "0"}, true, false},
		{8, []string{"256,0,0"}, false, false},
		{9, []string{"-2", "3"}, true, false},
		{10, []string{"10,20,", "5"}, true, false},
		{11, []string{"1,,2"}, false, false},
	}

	rules := Rules()
	require.Len(t, rules, CanonicalColumns)

	for _, tt := range tests {
		rule := rules[tt.index]
		t.Run(rule.Name, func(t *testing.T) {
			assert.Equal(t, tt.strict, rule.Strict(tt.col))
			if rule.Relaxed != nil {
				assert.Equal(t, tt.relaxed, rule.Relaxed(tt.col))
			}
		})
	}
}

func TestExtendedPredicates(t *testing.T) {
	assert.True(t, IsFloatOrMinusOne([]string{"1.5", "2"}))
	assert.True(t, IsFloatOrMinusOne([]string{"-1", "-1"}))
	assert.False(t, IsFloatOrMinusOne([]string{"1", "2"}))
	assert.False(t, IsFloatOrMinusOne([]string{"x"}))
	assert.False(t, IsFloatOrMinusOne(nil))

	assert.True(t, IsIntFirstNotMinusOne([]string{"3", "-1"}))
	assert.False(t, IsIntFirstNotMinusOne([]string{"-1", "3"}))
	assert.False(t, IsIntFirstNotMinusOne([]string{"1.5"}))
}
