package classify

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCompliance renders a compliance string such as "bed6+4".
func FormatCompliance(compliant, nonCompliant int) string {
	return fmt.Sprintf("bed%d+%d", compliant, nonCompliant)
}

// ParseCompliance parses a compliance string back into its compliant and
// non-compliant column counts.
func ParseCompliance(s string) (int, int, error) {
	rest, ok := strings.CutPrefix(s, "bed")
	if !ok {
		return 0, 0, fmt.Errorf("compliance %q: missing bed prefix", s)
	}
	left, right, ok := strings.Cut(rest, "+")
	if !ok {
		return 0, 0, fmt.Errorf("compliance %q: missing '+'", s)
	}
	compliant, err := strconv.Atoi(left)
	if err != nil || compliant < 0 {
		return 0, 0, fmt.Errorf("compliance %q: bad compliant count", s)
	}
	nonCompliant, err := strconv.Atoi(right)
	if err != nil || nonCompliant < 0 {
		return 0, 0, fmt.Errorf("compliance %q: bad non-compliant count", s)
	}
	return compliant, nonCompliant, nil
}
