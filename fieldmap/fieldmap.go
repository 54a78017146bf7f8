// Package fieldmap holds the fixed positions of logical fields within the
// report's non-results tables.
//
// Positions are (row, column) pairs into a [model.Grid]. Field indexes refer
// to the ordered field lists of the catalog, so the catalog supplies ids and
// this package supplies where each value sits on the page.
package fieldmap

import "github.com/jensjap/SRDR-ImportProject2/model"

// Cell addresses one grid cell. A negative Row counts back from the last row.
type Cell struct {
	Row, Col int
}

// In returns the value at c in g.
func (c Cell) In(g model.Grid) string {
	r := c.Row
	if r < 0 {
		r = g.RowCount() + r
	}
	return g.Cell(r, c.Col)
}

// Field maps the Index-th catalog field to a cell.
type Field struct {
	Index int
	Name  string
	Cell  Cell
}

// Matrix places one matrix question's answers along a single grid row.
type Matrix struct {
	Name string
	Row  int
	Cols []int
}

// Needed returns how many catalog fields a field map refers to.
func Needed(fields []Field) int {
	n := 0
	for _, f := range fields {
		if f.Index+1 > n {
			n = f.Index + 1
		}
	}
	return n
}

// PublicationID is where the eligibility table carries the publication
// identifier.
var PublicationID = Cell{1, 0}

// TrialTitle is the eligibility cell copied onto the publication.
var TrialTitle = Cell{1, 6}

// DesignDetails are the eligibility answers, in design question order.
var DesignDetails = []Field{
	{0, "study design", Cell{1, 2}},
	{1, "inclusion", Cell{1, 3}},
	{2, "exclusion", Cell{1, 4}},
	{3, "enrollment years", Cell{1, 5}},
	{4, "trial or cohort", Cell{1, 6}},
	{5, "funding source", Cell{1, 7}},
	{6, "extractor", Cell{1, 8}},
}

// BackgroundMatrices are the background diet matrix questions.
var BackgroundMatrices = []Matrix{
	// biomarker assay, analytical validity, time between, season/date, background exposure
	{Name: "biomarker", Row: 1, Cols: []int{6, 7, 8, 9, 10}},
	// dietary assessment method, food composition, internal calibration,
	// biomarker assay, analytical validity, season/date, background
	{Name: "dietary intake", Row: 2, Cols: []int{3, 4, 5, 6, 7, 9, 10}},
}

// QualityInterventional maps the quality-of-interventional-studies table.
var QualityInterventional = []Field{
	{0, "appropriate randomization", Cell{1, 3}},
	{1, "allocation concealment", Cell{1, 4}},
	{2, "dropout rate < 20%", Cell{1, 6}},
	{3, "blinded outcome", Cell{1, 7}},
	{4, "intention to treat", Cell{1, 8}},
	{5, "appropriate statistical analysis", Cell{1, 9}},
	{6, "assessment for confounding", Cell{1, 10}},
	{7, "clear reporting", Cell{1, 11}},
	{8, "appropriate washout period", Cell{1, 5}},
	{9, "design", Cell{1, 2}},
	{10, "adverse events", Cell{2, 1}},
}

// QualityInterventionalRating and QualityInterventionalNotes locate the
// overall grade and its explanation.
var (
	QualityInterventionalRating = Cell{1, 12}
	QualityInterventionalNotes  = Cell{3, 1}
)

// QualityCohort maps the quality-of-cohort-or-nested-case-control table.
// Questions are laid out over three rows in alternating label/value cells.
var QualityCohort = []Field{
	{0, "eligibility criteria clear", Cell{1, 3}},
	{2, "exposure assessor blinded", Cell{1, 5}},
	{4, "method reported", Cell{1, 7}},
	{7, "one of the prespecified methods", Cell{1, 9}},
	{9, "level of the exposure", Cell{1, 11}},
	{10, "adjusted or matched", Cell{1, 13}},
	{12, "clear definition", Cell{1, 15}},
	{15, "prospective collection", Cell{1, 17}},
	{1, "sampling of population", Cell{2, 1}},
	{3, "outcome assessor", Cell{2, 3}},
	{5, "food composition database", Cell{2, 5}},
	{8, "time from sample", Cell{2, 7}},
	{13, "loss to follow up", Cell{2, 9}},
	{16, "analysis was planned", Cell{2, 11}},
	{6, "internal calibration", Cell{3, 5}},
	{11, "justification", Cell{3, 11}},
	{14, "do the authors specify", Cell{3, 13}},
	{17, "justification of sample size", Cell{3, 15}},
}

// QualityCohortRating and QualityCohortNotes locate the overall grade and
// its explanation.
var (
	QualityCohortRating = Cell{4, 1}
	QualityCohortNotes  = Cell{5, 1}
)

// Intervention table layout. Arm rows run from row 1 to the third-last row;
// the last two rows carry study-wide answers copied onto every arm.
const (
	ArmTitleCol     = 2
	ArmDetailOffset = 3
	ArmTrailingRows = 2
)

// CoInterventions and Compliance are the study-wide intervention answers.
var (
	CoInterventions = Cell{-2, 1}
	Compliance      = Cell{-1, 1}
)

// Baseline characteristics are read along population row 1 from this
// column on.
const (
	BaselineRow    = 1
	BaselineOffset = 3
)

// Outcomes list columns.
const (
	OutcomeMarkerCol      = 0
	OutcomeNotesCol       = 2
	OutcomeTitleCol       = 3
	OutcomeDescriptionCol = 4
)

// OutcomeComments is the general comment copied onto each listed outcome.
var OutcomeComments = Cell{1, 2}

// ConfounderValue returns the confounders grid position of matrix cell
// (m, n). The first data row carries two leading label cells.
func ConfounderValue(m, n int) Cell {
	if m == 0 {
		return Cell{1, n + 3}
	}
	return Cell{m + 1, n + 1}
}
