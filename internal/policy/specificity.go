package policy

import "strings"

// Specificity assigns an integer precedence to a pattern, higher meaning
// more specific. A pattern containing "**" is always least specific (1).
// Otherwise specificity is the segment count minus the wildcard segment
// count, where a wildcard segment is exactly "*" or contains a "${...}"
// substring.
//
// SpecificityCalculator is stateless; the zero value is ready to use.
type SpecificityCalculator struct{}

// NewSpecificityCalculator returns a ready-to-use calculator.
func NewSpecificityCalculator() SpecificityCalculator {
	return SpecificityCalculator{}
}

// Specificity computes the precedence of pattern as described above.
func (SpecificityCalculator) Specificity(pattern string) int {
	if strings.Contains(pattern, "**") {
		return 1
	}

	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return 0
	}

	segs := strings.Split(trimmed, "/")
	wildcards := 0
	for _, seg := range segs {
		if seg == "*" || strings.Contains(seg, "${") {
			wildcards++
		}
	}
	return len(segs) - wildcards
}
