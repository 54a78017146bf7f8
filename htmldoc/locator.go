package htmldoc

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

// RegionName identifies one semantic table in a report.
type RegionName string

const (
	Eligibility           RegionName = "eligibility"
	Population            RegionName = "population"
	Background            RegionName = "background"
	Intervention          RegionName = "intervention"
	OutcomesList          RegionName = "outcomes"
	MeanData              RegionName = "mean_data"
	OtherResults          RegionName = "other_results"
	QualityInterventional RegionName = "quality_interventional"
	QualityCohort         RegionName = "quality_cohort"
	Comments              RegionName = "comments"
	ResultsComments       RegionName = "results_comments"
	Confounders           RegionName = "confounders"
)

// strategy says how to get from a heading element to its table.
type strategy int

const (
	// tableAfterParagraph takes the first sibling table following the
	// heading's nearest enclosing p.
	tableAfterParagraph strategy = iota
	// tableAfterElement takes the first sibling table following the
	// heading element itself.
	tableAfterElement
	// enclosingTable takes the nearest table containing the heading.
	enclosingTable
)

// locatorSpec binds a region to the heading text that anchors it.
type locatorSpec struct {
	name     RegionName
	heading  string
	strategy strategy
	inCell   bool // only headings inside a td count
	nth      int  // which matching heading to use
	fallback *locatorSpec
}

// locatorSpecs is the single place where report heading text is coupled to
// document structure.
var locatorSpecs = []locatorSpec{
	{
		name:     Eligibility,
		heading:  "ELIGIBILITY\nCRITERIA AND OTHER CHARACTERISTICS",
		strategy: tableAfterParagraph,
		fallback: &locatorSpec{name: Eligibility, heading: "ELIGIBILITY", strategy: tableAfterElement},
	},
	{name: Population, heading: "POPULATION\n(BASELINE)", strategy: tableAfterParagraph},
	{name: Background, heading: "Background\nDiet", strategy: tableAfterParagraph},
	{name: Intervention, heading: "INTERVENTION(S),\nSKIP IF OBSERVATIONAL STUDY", strategy: tableAfterParagraph},
	{name: OutcomesList, heading: "LIST\nOF ALL OUTCOMES", strategy: tableAfterParagraph},
	{name: MeanData, heading: "MEAN\nDATA. THIS SHOULD ONLY APPLY TO CASE-COHORT STUDIES", strategy: tableAfterParagraph},
	{name: OtherResults, heading: "OTHER\nRESULTS", strategy: tableAfterParagraph},
	{name: QualityInterventional, heading: "QUALITY\nof INTERVENTIONAL STUDIES", strategy: tableAfterParagraph},
	{name: QualityCohort, heading: "QUALITY\nof COHORT OR NESTED CASE-CONTROL STUDIES", strategy: tableAfterParagraph},
	{name: Comments, heading: "Comments", strategy: enclosingTable, inCell: true, nth: 0},
	{name: ResultsComments, heading: "Comments", strategy: enclosingTable, inCell: true, nth: 1},
	{name: Confounders, heading: "----Confounders:", strategy: tableAfterParagraph},
}

// RegionNames returns every known region in locator order.
func RegionNames() []RegionName {
	names := make([]RegionName, len(locatorSpecs))
	for i, spec := range locatorSpecs {
		names[i] = spec.name
	}
	return names
}

// Region is a handle on one located table.
type Region struct {
	sel *goquery.Selection
}

// Node returns the underlying table element.
func (r *Region) Node() *html.Node {
	if r == nil || r.sel == nil {
		return nil
	}
	return r.sel.Get(0)
}

// Regions maps region names to located tables. Missing regions are absent.
type Regions map[RegionName]*Region

// Found reports whether the region was located.
func (rs Regions) Found(name RegionName) bool {
	return rs[name] != nil
}

// Grid converts the named region, returning an empty grid when it is
// missing.
func (rs Regions) Grid(name RegionName) model.Grid {
	return ToGrid(rs[name])
}

// Locate finds every known region in the document. A heading that cannot
// be found leaves its region absent.
func Locate(d *Document) Regions {
	regions := make(Regions, len(locatorSpecs))
	for _, spec := range locatorSpecs {
		if r := d.locate(spec); r != nil {
			regions[spec.name] = r
		}
	}
	return regions
}

func (d *Document) locate(spec locatorSpec) *Region {
	headings := d.ElementsContaining(spec.heading)
	if spec.inCell {
		headings = d.insideCells(headings)
	}
	if spec.nth >= len(headings) {
		if spec.fallback != nil {
			return d.locate(*spec.fallback)
		}
		return nil
	}

	heading := d.query.FindNodes(headings[spec.nth])
	var table *goquery.Selection
	switch spec.strategy {
	case tableAfterParagraph:
		p := heading.Closest("p")
		if p.Length() == 0 {
			break
		}
		table = p.NextAllFiltered("table").First()
	case tableAfterElement:
		table = heading.NextAllFiltered("table").First()
	case enclosingTable:
		table = heading.Closest("table")
	}

	if table == nil || table.Length() == 0 {
		if spec.fallback != nil {
			return d.locate(*spec.fallback)
		}
		return nil
	}
	return &Region{sel: table}
}

// insideCells keeps the nodes that sit within a td.
func (d *Document) insideCells(nodes []*html.Node) []*html.Node {
	var kept []*html.Node
	for _, n := range nodes {
		if d.query.FindNodes(n).Closest("td").Length() > 0 {
			kept = append(kept, n)
		}
	}
	return kept
}
