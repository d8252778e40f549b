// Package matcher recognizes control numbers embedded in free text and maps document
// type codes and text to candidate regulatory elements. Everything here is pure.
package matcher

import (
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// MaxResolvedControlNumbers caps how many distinct matches callers resolve against the store.
const MaxResolvedControlNumbers = 10

// controlNumberPattern is "2-6 letters, hyphen, 2-4 letters, hyphen, 3-4 digits", e.g. NCCI-POL-001.
// Matching is case-sensitive on uppercase letters; lookups use the upper-cased key.
var controlNumberPattern = regexp.MustCompile(`\b[A-Z]{2,6}-[A-Z]{2,4}-[0-9]{3,4}\b`)

var exactControlNumber = regexp.MustCompile(`^[A-Z]{2,6}-[A-Z]{2,4}-[0-9]{3,4}$`)

// ControlNumber is one match: Display keeps the text as written, Key is the lookup form.
type ControlNumber struct {
	Display string
	Key     string
}

// NormalizeControlNumber returns the case-insensitive lookup key for a control number.
func NormalizeControlNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsControlNumber reports whether s, once normalized, has the control number shape.
func IsControlNumber(s string) bool {
	return exactControlNumber.MatchString(NormalizeControlNumber(s))
}

// ExtractControlNumbers returns the distinct control numbers in text in order of first appearance.
func ExtractControlNumbers(text string) []ControlNumber {
	if text == "" {
		return nil
	}
	hits := controlNumberPattern.FindAllString(text, -1)
	if len(hits) == 0 {
		return nil
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]ControlNumber, 0, len(hits))
	for _, h := range hits {
		key := NormalizeControlNumber(h)
		if !seen.Add(key) {
			continue
		}
		out = append(out, ControlNumber{Display: h, Key: key})
	}
	return out
}

// FirstN truncates matches to at most n entries.
func FirstN(matches []ControlNumber, n int) []ControlNumber {
	if n >= 0 && len(matches) > n {
		return matches[:n]
	}
	return matches
}
