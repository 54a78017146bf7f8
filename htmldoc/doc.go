// Package htmldoc locates and converts the semantic tables of an exported
// study report.
//
// # Opening Reports
//
//	doc, err := htmldoc.Open("report.html")
//
// # Locating Regions
//
// The export has no schema beyond heading text, so each table is found by
// the heading that precedes it. [Locate] returns the [Regions] it found:
//
//	regions := htmldoc.Locate(doc)
//	eligibility := regions.Grid(htmldoc.Eligibility)
//
// Heading text and the way each heading leads to its table live in a single
// table in locator.go. Headings are matched against an element's own text;
// line breaks inside a heading match any whitespace.
//
// # Grids
//
// [ToGrid] turns a region into a [model.Grid] of cleaned strings, padding
// positions covered by rowspans so continuation rows keep their columns.
//
// # Structure Queries
//
// The results classifier needs document-order relations that CSS selectors
// cannot express. [Document.ElementsContaining], [Document.Precedes],
// [Document.Follows] and [Document.TableAfter] provide them.
package htmldoc
