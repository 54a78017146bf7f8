package tables

import (
	"context"
	"errors"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/resolver"
	"github.com/jensjap/SRDR-ImportProject2/store"
)

const (
	outcomeMeasureType    = 0
	comparisonMeasureType = 1
	betweenArms           = "between"
)

// Stats counts what a Writer created.
type Stats struct {
	Tables        int
	Entries       int
	Continuations int
	Comparisons   int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Tables += o.Tables
	s.Entries += o.Entries
	s.Continuations += o.Continuations
	s.Comparisons += o.Comparisons
}

// Writer persists walked steps for one study.
type Writer struct {
	repo    store.Repository
	resolve *resolver.Resolver
	studyID int64
	formID  int64
	logger  *zap.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithExtractionForm sets the form id stamped on created records.
func WithExtractionForm(id int64) WriterOption {
	return func(w *Writer) { w.formID = id }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter returns a writer that creates records for studyID through repo,
// resolving outcome and arm titles with res.
func NewWriter(repo store.Repository, res *resolver.Resolver, studyID int64, opts ...WriterOption) *Writer {
	w := &Writer{
		repo:    repo,
		resolve: res,
		studyID: studyID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// handle is a created record reachable by title.
type handle struct {
	title string
	id    int64
}

// entry holds the records opened by the last New step.
type entry struct {
	outcomeID   int64
	timepointID int64
	subgroupID  int64
	id          int64
	refArmID    int64
	measures    []handle

	comparisonID int64
	comparison   []handle
	pending      []Value
}

// measure returns the most recently created measure titled title.
func (e *entry) measure(title string) (int64, bool) {
	for i := len(e.measures) - 1; i >= 0; i-- {
		if e.measures[i].title == title {
			return e.measures[i].id, true
		}
	}
	return 0, false
}

// bucketRun is the state of one bucket pass.
type bucketRun struct {
	*Writer
	schema Schema
	open   *entry
	stats  Stats
}

// WriteBucket walks every grid of bucket b with its registered schema and
// persists the result. The cursor is carried across the bucket's grids.
func (w *Writer) WriteBucket(ctx context.Context, b Bucket, grids []model.Grid) (Stats, error) {
	return w.Write(ctx, Lookup(b), grids)
}

// Write walks grids with schema s and persists the result.
func (w *Writer) Write(ctx context.Context, s Schema, grids []model.Grid) (Stats, error) {
	run := &bucketRun{Writer: w, schema: s}
	var cur Cursor
	for i, g := range grids {
		steps, next, err := Walk(g, s, cur)
		if err != nil {
			return run.stats, eris.Wrapf(err, "%s table %d", s.Bucket, i+1)
		}
		cur = next
		if len(steps) == 0 {
			continue
		}
		run.stats.Tables++
		w.logger.Debug("walking results table",
			zap.Stringer("bucket", s.Bucket),
			zap.Int("table", i+1),
			zap.Int("rows", len(steps)))

		for _, step := range steps {
			if err := run.apply(ctx, step); err != nil {
				return run.stats, eris.Wrapf(err, "%s table %d row %d", s.Bucket, i+1, step.Row)
			}
		}
		if err := run.flush(ctx); err != nil {
			return run.stats, eris.Wrapf(err, "%s table %d", s.Bucket, i+1)
		}
	}
	return run.stats, nil
}

func (r *bucketRun) apply(ctx context.Context, step Step) error {
	switch step.Kind {
	case New:
		if err := r.flush(ctx); err != nil {
			return err
		}
		return r.openEntry(ctx, step)
	case Continue:
		return r.continueEntry(ctx, step)
	}
	return nil
}

func (r *bucketRun) openEntry(ctx context.Context, step Step) error {
	outcome, err := r.resolve.Outcome(ctx, step.Title, step.Unit, r.schema.OutcomeType)
	if err != nil {
		return err
	}
	arm, err := r.resolve.Arm(ctx, step.Arm)
	if err != nil {
		return err
	}
	r.logger.Debug("data entry opened",
		zap.Stringer("bucket", r.schema.Bucket),
		zap.String("outcome", step.Title),
		zap.Stringer("resolution", outcome.Kind),
		zap.String("arm", step.Arm))
	tp, err := r.repo.LastOutcomeTimepoint(ctx, outcome.ID)
	if errors.Is(err, store.ErrNotFound) {
		return eris.Wrapf(ErrMissingPriorRecord, "no timepoint for outcome %q", step.Title)
	}
	if err != nil {
		return eris.Wrapf(err, "finding timepoint for outcome %q", step.Title)
	}

	sg := &model.OutcomeSubgroup{OutcomeID: outcome.ID, Title: step.Title}
	if err := r.repo.CreateOutcomeSubgroup(ctx, sg); err != nil {
		return eris.Wrapf(err, "creating subgroup for %q", step.Title)
	}
	de := &model.OutcomeDataEntry{
		OutcomeID:        outcome.ID,
		TimepointID:      tp.ID,
		SubgroupID:       sg.ID,
		StudyID:          r.studyID,
		ExtractionFormID: r.formID,
	}
	if err := r.repo.CreateOutcomeDataEntry(ctx, de); err != nil {
		return eris.Wrapf(err, "creating data entry for %q", step.Title)
	}

	e := &entry{
		outcomeID:   outcome.ID,
		timepointID: tp.ID,
		subgroupID:  sg.ID,
		id:          de.ID,
		refArmID:    arm.ID,
	}
	for _, v := range step.Values {
		m := &model.OutcomeMeasure{OutcomeDataEntryID: de.ID, Title: v.Measure, MeasureType: outcomeMeasureType}
		if err := r.repo.CreateOutcomeMeasure(ctx, m); err != nil {
			return eris.Wrapf(err, "creating measure %q", v.Measure)
		}
		e.measures = append(e.measures, handle{title: v.Measure, id: m.ID})
		if err := r.dataPoint(ctx, m.ID, arm.ID, v.Value); err != nil {
			return err
		}
	}
	r.open = e
	r.stats.Entries++

	switch r.schema.Compare {
	case ComparePair:
		if err := r.openComparison(ctx); err != nil {
			return err
		}
		e.pending = step.Compare
	case CompareEach:
		if err := r.openComparison(ctx); err != nil {
			return err
		}
		return r.comparator(ctx, arm.ID, step.Compare)
	}
	return nil
}

func (r *bucketRun) continueEntry(ctx context.Context, step Step) error {
	e := r.open
	if e == nil {
		return eris.Wrapf(ErrMissingPriorRecord, "no open data entry for %q", step.Title)
	}
	arm, err := r.resolve.Arm(ctx, step.Arm)
	if err != nil {
		return err
	}
	for _, v := range step.Values {
		id, ok := e.measure(v.Measure)
		if !ok {
			return eris.Wrapf(ErrMissingPriorRecord, "no measure %q in data entry %d", v.Measure, e.id)
		}
		if err := r.dataPoint(ctx, id, arm.ID, v.Value); err != nil {
			return err
		}
	}
	r.stats.Continuations++

	switch r.schema.Compare {
	case ComparePair:
		if e.pending == nil {
			return nil
		}
		vals := e.pending
		e.pending = nil
		return r.comparator(ctx, arm.ID, vals)
	case CompareEach:
		return r.comparator(ctx, arm.ID, step.Compare)
	}
	return nil
}

func (r *bucketRun) dataPoint(ctx context.Context, measureID, armID int64, value string) error {
	dp := &model.OutcomeDataPoint{OutcomeMeasureID: measureID, ArmID: armID, Value: value}
	return eris.Wrapf(r.repo.CreateOutcomeDataPoint(ctx, dp), "creating data point for measure %d", measureID)
}

func (r *bucketRun) openComparison(ctx context.Context) error {
	e := r.open
	c := &model.Comparison{
		WithinOrBetween:  betweenArms,
		StudyID:          r.studyID,
		ExtractionFormID: r.formID,
		OutcomeID:        e.outcomeID,
		GroupID:          e.timepointID,
		SubgroupID:       e.subgroupID,
	}
	if err := r.repo.CreateComparison(ctx, c); err != nil {
		return eris.Wrap(err, "creating comparison")
	}
	e.comparisonID = c.ID
	for _, col := range r.schema.Comparison {
		m := &model.ComparisonMeasure{ComparisonID: c.ID, Title: col.Title, MeasureType: comparisonMeasureType}
		if err := r.repo.CreateComparisonMeasure(ctx, m); err != nil {
			return eris.Wrapf(err, "creating comparison measure %q", col.Title)
		}
		e.comparison = append(e.comparison, handle{title: col.Title, id: m.ID})
	}
	r.stats.Comparisons++
	return nil
}

// comparator records one arm pair of the open comparison with its values.
func (r *bucketRun) comparator(ctx context.Context, armID int64, vals []Value) error {
	e := r.open
	c := &model.Comparator{ComparisonID: e.comparisonID, Comparator: comparatorLabel(e.refArmID, armID)}
	if err := r.repo.CreateComparator(ctx, c); err != nil {
		return eris.Wrap(err, "creating comparator")
	}
	for i, v := range vals {
		if i >= len(e.comparison) {
			break
		}
		dp := &model.ComparisonDataPoint{
			ComparisonMeasureID: e.comparison[i].id,
			ComparatorID:        c.ID,
			Value:               v.Value,
		}
		if err := r.repo.CreateComparisonDataPoint(ctx, dp); err != nil {
			return eris.Wrapf(err, "creating comparison data point %q", v.Measure)
		}
	}
	return nil
}

// flush attaches comparison values still waiting for a second arm to a
// single-arm comparator.
func (r *bucketRun) flush(ctx context.Context) error {
	if r.open == nil || r.open.pending == nil {
		return nil
	}
	vals := r.open.pending
	r.open.pending = nil
	return r.comparator(ctx, r.open.refArmID, vals)
}

// comparatorLabel encodes an arm pair as "a_b", or a lone arm as "a".
func comparatorLabel(a, b int64) string {
	if a == b {
		return strconv.FormatInt(a, 10)
	}
	return strconv.FormatInt(a, 10) + "_" + strconv.FormatInt(b, 10)
}
