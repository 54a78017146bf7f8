package tables

import (
	"github.com/rotisserie/eris"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

// Column names one value column of a results table.
type Column struct {
	Title string
	Col   int
}

// CompareMode says how a schema's comparison columns become records.
type CompareMode int

const (
	// CompareNone means the layout has no between-arm statistics.
	CompareNone CompareMode = iota
	// ComparePair creates one comparison per opened entry whose values are
	// attached once the pair's second arm is known.
	ComparePair
	// CompareEach creates one comparison per opened entry and one
	// comparator per row, each row carrying its own values.
	CompareEach
)

// HeaderRange derives measures from header cells [From, len-TrimEnd).
type HeaderRange struct {
	From    int
	TrimEnd int
}

// Schema is the named column layout of one bucket.
type Schema struct {
	Bucket      Bucket
	HeaderRows  int
	MinColumns  int
	TitleCol    int
	UnitCol     int // -1 when the layout has no unit column
	ArmCol      int
	SkipUnless  int // the table is skipped when this data-row-0 cell is blank; -1 never skips
	Paired      bool
	OutcomeType string

	Measures []Column
	// HeaderMeasures, when set, replaces Measures with the header cells in
	// its range.
	HeaderMeasures *HeaderRange
	// HeaderNames renames each measure after the non-blank header cell above
	// it and drops measures past the header's last cell.
	HeaderNames bool
	// MetricCol is carried in the cursor so the second row of a pair
	// inherits it; -1 when unused.
	MetricCol int

	Compare    CompareMode
	Comparison []Column
}

// Validate checks the grid's header rows against the schema.
func (s Schema) Validate(g model.Grid) error {
	width := 0
	for r := 0; r < s.HeaderRows; r++ {
		width = max(width, g.Width(r))
	}
	if width < s.MinColumns {
		return eris.Wrapf(ErrTableShape, "%s: header has %d columns, want at least %d",
			s.Bucket, width, s.MinColumns)
	}
	return nil
}

// Bind resolves the measure columns against the grid's header row.
func (s Schema) Bind(g model.Grid) Schema {
	header := g.Row(0)
	switch {
	case s.HeaderMeasures != nil:
		var cols []Column
		for c := s.HeaderMeasures.From; c < len(header)-s.HeaderMeasures.TrimEnd; c++ {
			cols = append(cols, Column{Title: header[c], Col: c})
		}
		s.Measures = cols
	case s.HeaderNames:
		var cols []Column
		for _, m := range s.Measures {
			if m.Col >= len(header) {
				continue
			}
			if !header.Blank(m.Col) {
				m.Title = header[m.Col]
			}
			cols = append(cols, m)
		}
		s.Measures = cols
	}
	return s
}

func columns(from int, titles ...string) []Column {
	cols := make([]Column, len(titles))
	for i, t := range titles {
		cols[i] = Column{Title: t, Col: from + i}
	}
	return cols
}

var (
	multiContinuous = Schema{
		HeaderRows:     1,
		MinColumns:     6,
		TitleCol:       2,
		UnitCol:        3,
		ArmCol:         4,
		SkipUnless:     4,
		OutcomeType:    model.OutcomeContinuous,
		HeaderMeasures: &HeaderRange{From: 5, TrimEnd: 3},
		MetricCol:      -1,
	}

	twoContinuous = Schema{
		HeaderRows:  1,
		MinColumns:  6,
		TitleCol:    2,
		UnitCol:     3,
		ArmCol:      4,
		SkipUnless:  -1,
		Paired:      true,
		OutcomeType: model.OutcomeContinuous,
		Measures: columns(5,
			"Mean Follow-up, mo",
			"No. Analyzed",
			"Baseline",
			"Baseline CI / SE / SD*",
			"Final or Delta**",
			"Final or Delta CI / SE / SD*"),
		HeaderNames: true,
		MetricCol:   -1,
		Compare:     ComparePair,
		Comparison: columns(11,
			"Net difference",
			"Net difference CI / SE / SD*",
			"P between"),
	}

	dichotomousMeasures = columns(4,
		"Mean Vit D level/dose",
		"Mean Ca level/dose",
		"No. of Cases",
		"No. of Non-cases",
		"Crude or Adjusted analysis?",
		"Outcome Metric (e.g. OR, RR, HR, %)",
		"Outcome effect size",
		"CI")

	mainMultiDichotomous = Schema{
		HeaderRows:  1,
		MinColumns:  5,
		TitleCol:    2,
		UnitCol:     -1,
		ArmCol:      3,
		SkipUnless:  0,
		OutcomeType: model.OutcomeCategorical,
		Measures:    dichotomousMeasures,
		MetricCol:   -1,
		Compare:     CompareEach,
		Comparison: []Column{
			{Title: "P between groups***", Col: 12},
			{Title: "P for trend****", Col: 13},
		},
	}

	subMultiDichotomous = Schema{
		HeaderRows:  1,
		MinColumns:  5,
		TitleCol:    2,
		UnitCol:     -1,
		ArmCol:      3,
		SkipUnless:  -1,
		OutcomeType: model.OutcomeCategorical,
		Measures:    append(append([]Column(nil), dichotomousMeasures...), Column{Title: "P for trend***", Col: 13}),
		MetricCol:   -1,
	}

	twoDichotomous = Schema{
		HeaderRows:  2,
		MinColumns:  5,
		TitleCol:    2,
		UnitCol:     -1,
		ArmCol:      3,
		SkipUnless:  0,
		Paired:      true,
		OutcomeType: model.OutcomeCategorical,
		Measures: columns(4,
			"Mean Follow-up, mo",
			"N Event",
			"N Total",
			"Outcome Metric (e.g. OR, RR, HR, %) and direction of comparison*"),
		MetricCol: 7,
		Compare:   ComparePair,
		Comparison: columns(8,
			"Unadjusted - Result",
			"Unadjusted - 95% CI",
			"Unadjusted - P btw",
			"Adjusted - Result",
			"Adjusted - 95% CI",
			"Adjusted - P btw"),
	}
)

// SchemaRegistry holds one schema per bucket.
type SchemaRegistry struct {
	schemas map[Bucket]Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		schemas: make(map[Bucket]Schema),
	}
}

// Register registers a schema under its bucket.
func (r *SchemaRegistry) Register(s Schema) {
	r.schemas[s.Bucket] = s
}

// Get retrieves the schema for a bucket.
func (r *SchemaRegistry) Get(b Bucket) (Schema, bool) {
	s, ok := r.schemas[b]
	return s, ok
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterSchema registers a schema globally, replacing any schema already
// registered for its bucket.
func RegisterSchema(s Schema) {
	globalRegistry.Register(s)
}

// Lookup returns the globally registered schema for a bucket.
func Lookup(b Bucket) Schema {
	s, _ := globalRegistry.Get(b)
	return s
}

func withBucket(s Schema, b Bucket) Schema {
	s.Bucket = b
	return s
}

func init() {
	RegisterSchema(withBucket(multiContinuous, MainMultiContinuous))
	RegisterSchema(withBucket(multiContinuous, SubMultiContinuous))
	RegisterSchema(withBucket(twoContinuous, MainTwoContinuous))
	RegisterSchema(withBucket(twoContinuous, SubTwoContinuous))
	RegisterSchema(withBucket(mainMultiDichotomous, MainMultiDichotomous))
	RegisterSchema(withBucket(subMultiDichotomous, SubMultiDichotomous))
	RegisterSchema(withBucket(twoDichotomous, MainTwoDichotomous))
	RegisterSchema(withBucket(twoDichotomous, SubTwoDichotomous))
}
