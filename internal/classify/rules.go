package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Predicate reports whether every cell of a column satisfies a rule.
type Predicate func(col []string) bool

// Rule is the compliance rule for one canonical BED column. Relaxed, when
// set, is a weaker rule that still counts the column as compliant but marks
// the classification as relaxed.
type Rule struct {
	Index   int
	Name    string
	Strict  Predicate
	Relaxed Predicate
}

var (
	// Patterns match the whole cell; a valid prefix followed by junk fails.
	chromPattern     = regexp.MustCompile(`^[A-Za-z0-9_]{1,255}$`)
	namePattern      = regexp.MustCompile(`^[\x20-\x7e]{1,255}$`)
	rgbPattern       = regexp.MustCompile(`^(\d{1,3}),(\d{1,3}),(\d{1,3})$`)
	blockListPattern = regexp.MustCompile(`^\d+(,\d+)*,?$`)
)

// bedRules covers the twelve canonical BED columns. Columns from index 12
// on are extended columns and are handled by shape detection instead.
var bedRules = [...]Rule{
	{Index: 0, Name: "chrom", Strict: all(matches(chromPattern))},
	{Index: 1, Name: "chromStart", Strict: all(isNonNegInt)},
	{Index: 2, Name: "chromEnd", Strict: all(isNonNegInt)},
	{Index: 3, Name: "name", Strict: all(matches(namePattern))},
	{Index: 4, Name: "score", Strict: all(isScore), Relaxed: all(isNonNegInt)},
	{Index: 5, Name: "strand", Strict: all(isStrand)},
	{Index: 6, Name: "thickStart", Strict: all(isNonNegInt)},
	{Index: 7, Name: "thickEnd", Strict: all(isNonNegInt)},
	{Index: 8, Name: "itemRgb", Strict: all(isRGB)},
	{Index: 9, Name: "blockCount", Strict: IsIntColumn},
	{Index: 10, Name: "blockSizes", Strict: all(matches(blockListPattern))},
	{Index: 11, Name: "blockStarts", Strict: all(matches(blockListPattern))},
}

// Rules returns the canonical BED column rules in column order.
func Rules() []Rule {
	out := make([]Rule, len(bedRules))
	copy(out, bedRules[:])
	return out
}

// CanonicalColumns is the number of columns in the canonical BED schema.
const CanonicalColumns = len(bedRules)

func all(check func(string) bool) Predicate {
	return func(col []string) bool {
		if len(col) == 0 {
			return false
		}
		for _, v := range col {
			if !check(strings.TrimSpace(v)) {
				return false
			}
		}
		return true
	}
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

func parseInt(v string) (int64, bool) {
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

func isNonNegInt(v string) bool {
	n, ok := parseInt(v)
	return ok && n >= 0
}

func isScore(v string) bool {
	n, ok := parseInt(v)
	return ok && n >= 0 && n <= 1000
}

func isStrand(v string) bool {
	return v == "+" || v == "-" || v == "."
}

func isRGB(v string) bool {
	if v == "0" {
		return true
	}
	m := rgbPattern.FindStringSubmatch(v)
	if m == nil {
		return false
	}
	for _, part := range m[1:] {
		n, _ := strconv.Atoi(part)
		if n > 255 {
			return false
		}
	}
	return true
}

// IsIntColumn reports whether every cell is an integer of any sign.
func IsIntColumn(col []string) bool {
	return all(func(v string) bool {
		_, ok := parseInt(v)
		return ok
	})(col)
}

// IsFloatOrMinusOne reports whether a column holds floating point values or
// is the constant -1 placeholder. A column of whole numbers only counts when
// every value is -1; at least one cell must carry a fractional or exponent
// part for the column to be read as floating point.
func IsFloatOrMinusOne(col []string) bool {
	if len(col) == 0 {
		return false
	}
	allMinusOne := true
	allInt := true
	for _, raw := range col {
		v := strings.TrimSpace(raw)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		if f != -1 {
			allMinusOne = false
		}
		if _, ok := parseInt(v); !ok {
			allInt = false
		}
	}
	return allMinusOne || !allInt
}

// IsIntFirstNotMinusOne reports whether a column is integer valued and its
// first cell is not the -1 placeholder.
func IsIntFirstNotMinusOne(col []string) bool {
	if !IsIntColumn(col) {
		return false
	}
	first, _ := parseInt(strings.TrimSpace(col[0]))
	return first != -1
}
