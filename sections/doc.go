// Package sections writes the non-results parts of a report: publication,
// key questions, quality assessment, design details, arms, baseline
// characteristics, the outcomes list and confounders.
//
// Each method reads one or two grids through the positions in package
// fieldmap and stamps the field ids of a [catalog.Catalog]. An empty grid,
// or an empty catalog section, writes nothing.
package sections
