// Package postal normalizes Canadian postal codes. Lookups compare the
// normalized form (upper-case, no spaces); display uses the standard
// "A1A 1A1" form.
package postal

import (
	"regexp"
	"strings"
)

var canadianPattern = regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z]\s*[0-9][A-Za-z][0-9]$`)

// IsValid reports whether the input matches the Canadian postal code
// pattern, with or without the internal space.
func IsValid(code string) bool {
	return canadianPattern.MatchString(strings.TrimSpace(code))
}

// Normalize upper-cases the code and strips all spaces. This is the storage
// and comparison form.
func Normalize(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}

// Format returns the display form with a single space after the third
// character. Inputs that do not normalize to six characters are returned
// normalized but unspaced.
func Format(code string) string {
	normalized := Normalize(code)
	if len(normalized) != 6 {
		return normalized
	}
	return normalized[:3] + " " + normalized[3:]
}
