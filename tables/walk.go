package tables

import (
	"github.com/rotisserie/eris"

	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// StepKind says what a data row contributes.
type StepKind int

const (
	// Skip rows contribute nothing.
	Skip StepKind = iota
	// New rows open an outcome data entry for their arm.
	New
	// Continue rows add their arm's values to the open entry.
	Continue
)

// String returns the string representation of the step kind.
func (k StepKind) String() string {
	switch k {
	case Skip:
		return "skip"
	case New:
		return "new"
	case Continue:
		return "continue"
	default:
		return "unknown"
	}
}

// Value is one cell bound to the measure it reports.
type Value struct {
	Measure string
	Value   string
}

// Step is the plan for one data row.
type Step struct {
	Kind   StepKind
	Row    int // data row index, header rows excluded
	Title  string
	Unit   string
	Arm    string
	Values []Value
	// Compare holds comparison values read from this row.
	Compare []Value
}

// Cursor is the state carried from one data row to the next within a
// bucket: the outcome the rows currently describe.
type Cursor struct {
	Title  string
	Unit   string
	Metric string
	// Open is set once an entry has been opened that later rows may
	// continue.
	Open bool

	pairSkipped bool
}

// Next plans one data row. i is the row's index among the table's data
// rows; for paired schemas its parity decides whether the row opens or
// continues a pair.
func (s Schema) Next(cur Cursor, i int, row model.Row) (Step, Cursor, error) {
	step := Step{Kind: Skip, Row: i, Arm: row.Cell(s.ArmCol)}

	if s.Paired {
		if i%2 == 1 {
			if cur.pairSkipped || row.Blank(s.ArmCol) {
				return step, cur, nil
			}
			return s.continueRow(step, cur, row)
		}
		if row.Blank(s.ArmCol) {
			cur.pairSkipped = true
			cur.Open = false
			return step, cur, nil
		}
		cur.pairSkipped = false
		return s.newRow(step, cur, row)
	}

	if row.Blank(s.ArmCol) {
		return step, cur, nil
	}
	if row.Blank(s.TitleCol) {
		return s.continueRow(step, cur, row)
	}
	return s.newRow(step, cur, row)
}

func (s Schema) newRow(step Step, cur Cursor, row model.Row) (Step, Cursor, error) {
	title, unit := row.Cell(s.TitleCol), s.unit(row)
	if title == "" {
		if cur.Title == "" {
			return step, cur, eris.Wrapf(ErrMissingPriorRecord,
				"%s row %d: blank outcome title with no earlier outcome", s.Bucket, step.Row)
		}
		title = cur.Title
		if unit == "" {
			unit = cur.Unit
		}
	}

	cur.Title, cur.Unit, cur.Open = title, unit, true
	if s.MetricCol >= 0 {
		cur.Metric = row.Cell(s.MetricCol)
	}

	step.Kind = New
	step.Title, step.Unit = title, unit
	step.Values = s.values(cur, row)
	if s.Compare != CompareNone {
		step.Compare = read(s.Comparison, row)
	}
	return step, cur, nil
}

func (s Schema) continueRow(step Step, cur Cursor, row model.Row) (Step, Cursor, error) {
	if !cur.Open {
		return step, cur, eris.Wrapf(ErrMissingPriorRecord,
			"%s row %d: continuation row with no open outcome", s.Bucket, step.Row)
	}

	step.Kind = Continue
	step.Title, step.Unit = cur.Title, cur.Unit
	step.Values = s.values(cur, row)
	if s.Compare == CompareEach {
		step.Compare = read(s.Comparison, row)
	}
	return step, cur, nil
}

func (s Schema) unit(row model.Row) string {
	if s.UnitCol < 0 {
		return ""
	}
	return row.Cell(s.UnitCol)
}

// values reads the row's measure cells. A blank metric cell inherits the
// cursor's metric.
func (s Schema) values(cur Cursor, row model.Row) []Value {
	vals := make([]Value, len(s.Measures))
	for i, m := range s.Measures {
		v := row.Cell(m.Col)
		if m.Col == s.MetricCol && v == "" {
			v = cur.Metric
		}
		vals[i] = Value{Measure: m.Title, Value: text.YesNoND(v)}
	}
	return vals
}

func read(cols []Column, row model.Row) []Value {
	vals := make([]Value, len(cols))
	for i, c := range cols {
		vals[i] = Value{Measure: c.Title, Value: text.YesNoND(row.Cell(c.Col))}
	}
	return vals
}

// Walk plans every data row of one grid, starting from cur and returning
// the cursor left by the last row. A grid whose schema skip cell is blank
// yields no steps.
func Walk(g model.Grid, s Schema, cur Cursor) ([]Step, Cursor, error) {
	if g.Empty() {
		return nil, cur, nil
	}
	if err := s.Validate(g); err != nil {
		return nil, cur, err
	}
	s = s.Bind(g)

	rows := g.Data(s.HeaderRows)
	if s.SkipUnless >= 0 && (len(rows) == 0 || rows[0].Blank(s.SkipUnless)) {
		return nil, cur, nil
	}

	cur.pairSkipped = false
	steps := make([]Step, 0, len(rows))
	for i, row := range rows {
		step, next, err := s.Next(cur, i, row)
		if err != nil {
			return nil, cur, err
		}
		steps = append(steps, step)
		cur = next
	}
	return steps, cur, nil
}
