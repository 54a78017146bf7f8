package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Clean normalizes text extracted from a table cell.
//
// Surrounding whitespace is trimmed, newline+tab sequences become a single
// space, remaining tabs are dropped and double spaces are collapsed once.
// The result is NFC-normalized so visually identical titles compare equal.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n\t", " ")
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.ReplaceAll(s, "  ", " ")
	return norm.NFC.String(s)
}

// YesNoND translates the short answer vocabulary used throughout the
// report forms. Matching is case-insensitive; unknown values pass through.
//
//	y, yes  -> Yes
//	n, no   -> No
//	"", nd  -> nd
//	na      -> Not Applicable
func YesNoND(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return "Yes"
	case "n", "no":
		return "No"
	case "", "nd":
		return "nd"
	case "na":
		return "Not Applicable"
	}
	return s
}

// Fold returns the case-folded form of s for case-insensitive comparison.
func Fold(s string) string {
	return folder.String(s)
}

// EqualFold reports whether a and b are equal under case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// HasPrefixFold reports whether s begins with prefix, ignoring case.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Tokens splits s on whitespace and commas, dropping empty tokens.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Overlap scores how many words of a also appear in b. Each token of a
// contributes one point for every occurrence in b, so repeated words count
// with repetition. Comparison is case-folded.
func Overlap(a, b string) int {
	counts := make(map[string]int)
	for _, tok := range Tokens(Fold(b)) {
		counts[tok]++
	}
	score := 0
	for _, tok := range Tokens(Fold(a)) {
		score += counts[tok]
	}
	return score
}
