// Package text provides normalization helpers for strings lifted out of
// report tables.
//
// # Cell Text
//
// [Clean] applies the whitespace rules the report exports need: the HTML
// renders multi-line cells with newline+tab runs that must collapse into
// ordinary spacing before titles can be compared.
//
//	text.Clean("  Bone\n\tdensity ") // "Bone density"
//
// # Answer Vocabulary
//
// [YesNoND] maps the short answer tokens used across the forms onto the
// canonical values stored for each data point:
//
//   - y, yes - Yes
//   - n, no - No
//   - blank, nd - nd (no data)
//   - na - Not Applicable
//
// Anything else is returned unchanged.
//
// # Matching
//
// [Fold], [EqualFold], [HasPrefixFold] and [Tokens] support the outcome and
// arm resolution rules, and [Overlap] computes the word-overlap score used
// when no exact title match exists.
package text
