package tables

import (
	"context"
	"errors"
	"testing"

	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/resolver"
	"github.com/jensjap/SRDR-ImportProject2/store"
)

// writeGrids runs grids through a fresh study in an in-memory store and
// returns what was committed.
func writeGrids(t *testing.T, b Bucket, grids ...model.Grid) (Stats, store.Data, error) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	tx, err := mem.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	study := &model.Study{ProjectID: 135, CreatorID: 1}
	if err := tx.CreateStudy(ctx, study); err != nil {
		t.Fatalf("CreateStudy() failed: %v", err)
	}

	res := resolver.New(tx, study.ID, resolver.WithExtractionForm(194))
	w := NewWriter(tx, res, study.ID, WithExtractionForm(194))
	stats, werr := w.WriteBucket(ctx, b, grids)
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	return stats, mem.Snapshot(), werr
}

func TestWriter_TwoArmContinuous(t *testing.T) {
	stats, data, err := writeGrids(t, MainTwoContinuous, bmdGrid())
	if err != nil {
		t.Fatalf("WriteBucket() failed: %v", err)
	}

	if len(data.Outcomes) != 1 || data.Outcomes[0].Title != "BMD" {
		t.Fatalf("Outcomes = %+v, want one BMD", data.Outcomes)
	}
	if data.Outcomes[0].OutcomeType != model.OutcomeContinuous {
		t.Errorf("OutcomeType = %q, want %q", data.Outcomes[0].OutcomeType, model.OutcomeContinuous)
	}
	if len(data.Arms) != 2 || data.Arms[0].Title != "Placebo" || data.Arms[1].Title != "Vitamin D" {
		t.Fatalf("Arms = %+v, want Placebo and Vitamin D", data.Arms)
	}
	if len(data.DataEntries) != 1 {
		t.Errorf("len(DataEntries) = %d, want 1", len(data.DataEntries))
	}
	if len(data.Measures) != 2 {
		t.Fatalf("len(Measures) = %d, want 2", len(data.Measures))
	}

	values := make(map[[2]int64]string)
	for _, dp := range data.DataPoints {
		values[[2]int64{dp.OutcomeMeasureID, dp.ArmID}] = dp.Value
	}
	placebo, vitD := data.Arms[0].ID, data.Arms[1].ID
	m1, m2 := data.Measures[0].ID, data.Measures[1].ID
	checks := []struct {
		measure, arm int64
		want         string
	}{
		{m1, placebo, "1.2"},
		{m2, placebo, "0.9"},
		{m1, vitD, "1.5"},
		{m2, vitD, "1.1"},
	}
	for _, c := range checks {
		if got := values[[2]int64{c.measure, c.arm}]; got != c.want {
			t.Errorf("value(measure %d, arm %d) = %q, want %q", c.measure, c.arm, got, c.want)
		}
	}
	if len(data.DataPoints) != 4 {
		t.Errorf("len(DataPoints) = %d, want 4", len(data.DataPoints))
	}

	if len(data.Comparisons) != 1 {
		t.Fatalf("len(Comparisons) = %d, want 1", len(data.Comparisons))
	}
	cmp := data.Comparisons[0]
	if cmp.WithinOrBetween != "between" || cmp.GroupID != data.Timepoints[0].ID {
		t.Errorf("Comparison = %+v", cmp)
	}
	if len(data.Comparators) != 1 {
		t.Fatalf("len(Comparators) = %d, want 1", len(data.Comparators))
	}
	if want := comparatorLabel(placebo, vitD); data.Comparators[0].Comparator != want {
		t.Errorf("Comparator = %q, want %q", data.Comparators[0].Comparator, want)
	}
	if len(data.ComparisonMeasures) != 3 || len(data.ComparisonDataPoints) != 3 {
		t.Errorf("comparison measures/points = %d/%d, want 3/3",
			len(data.ComparisonMeasures), len(data.ComparisonDataPoints))
	}

	want := Stats{Tables: 1, Entries: 1, Continuations: 1, Comparisons: 1}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
}

func TestWriter_UnpairedComparisonFlushed(t *testing.T) {
	g := model.NewGrid(
		[]string{"", "", "Outcome", "Unit", "Arm", "Measure1"},
		[]string{"", "", "BMD", "g/cm2", "Placebo", "1.2"},
	)
	_, data, err := writeGrids(t, MainTwoContinuous, g)
	if err != nil {
		t.Fatalf("WriteBucket() failed: %v", err)
	}
	if len(data.Comparators) != 1 {
		t.Fatalf("len(Comparators) = %d, want 1", len(data.Comparators))
	}
	if want := comparatorLabel(data.Arms[0].ID, data.Arms[0].ID); data.Comparators[0].Comparator != want {
		t.Errorf("Comparator = %q, want %q", data.Comparators[0].Comparator, want)
	}
}

func TestWriter_MultiArmDichotomous(t *testing.T) {
	g := model.NewGrid(
		[]string{"", "", "Outcome", "Tertiles", "Vit D", "Ca", "Cases", "Non-cases", "Crude?", "Metric", "Effect", "CI", "P between", "P trend"},
		[]string{"x", "", "Fracture", "Low", "10", "", "5", "95", "crude", "OR", "1.0", "", "0.04", "0.01"},
		[]string{"", "", "", "Middle", "20", "", "4", "96", "crude", "OR", "0.8", "0.5-1.2", "", ""},
		[]string{"", "", "", "High", "30", "", "3", "97", "crude", "OR", "0.6", "0.3-0.9", "", ""},
	)
	stats, data, err := writeGrids(t, MainMultiDichotomous, g)
	if err != nil {
		t.Fatalf("WriteBucket() failed: %v", err)
	}

	if len(data.Arms) != 3 {
		t.Errorf("len(Arms) = %d, want 3", len(data.Arms))
	}
	if len(data.Measures) != 8 {
		t.Errorf("len(Measures) = %d, want 8", len(data.Measures))
	}
	if len(data.DataPoints) != 24 {
		t.Errorf("len(DataPoints) = %d, want 24", len(data.DataPoints))
	}
	if len(data.Comparisons) != 1 || len(data.Comparators) != 3 {
		t.Errorf("comparisons/comparators = %d/%d, want 1/3", len(data.Comparisons), len(data.Comparators))
	}
	if got := data.Outcomes[0].OutcomeType; got != model.OutcomeCategorical {
		t.Errorf("OutcomeType = %q, want %q", got, model.OutcomeCategorical)
	}
	low, high := data.Arms[0].ID, data.Arms[2].ID
	if want := comparatorLabel(low, high); data.Comparators[2].Comparator != want {
		t.Errorf("last comparator = %q, want %q", data.Comparators[2].Comparator, want)
	}
	if stats.Continuations != 2 {
		t.Errorf("Continuations = %d, want 2", stats.Continuations)
	}
}

func TestWriter_CursorSpansTables(t *testing.T) {
	first := model.NewGrid(
		[]string{"", "", "Outcome", "Tertiles", "Vit D"},
		[]string{"", "", "Fracture", "Low", "10"},
	)
	second := model.NewGrid(
		[]string{"", "", "Outcome", "Tertiles", "Vit D"},
		[]string{"", "", "", "High", "30"},
	)
	stats, data, err := writeGrids(t, SubMultiDichotomous, first, second)
	if err != nil {
		t.Fatalf("WriteBucket() failed: %v", err)
	}
	if stats.Tables != 2 || stats.Entries != 1 || stats.Continuations != 1 {
		t.Errorf("Stats = %+v", stats)
	}
	if len(data.DataEntries) != 1 {
		t.Errorf("len(DataEntries) = %d, want 1", len(data.DataEntries))
	}
}

func TestWriter_ExistingOutcomeReused(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	tx, err := mem.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	study := &model.Study{ProjectID: 135}
	if err := tx.CreateStudy(ctx, study); err != nil {
		t.Fatalf("CreateStudy() failed: %v", err)
	}

	res := resolver.New(tx, study.ID)
	w := NewWriter(tx, res, study.ID)
	for i := 0; i < 2; i++ {
		if _, err := w.WriteBucket(ctx, MainTwoContinuous, []model.Grid{bmdGrid()}); err != nil {
			t.Fatalf("pass %d: WriteBucket() failed: %v", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	data := mem.Snapshot()
	if len(data.Outcomes) != 1 {
		t.Errorf("len(Outcomes) = %d, want 1", len(data.Outcomes))
	}
	if len(data.Arms) != 2 {
		t.Errorf("len(Arms) = %d, want 2", len(data.Arms))
	}
	if len(data.DataEntries) != 2 || len(data.Subgroups) != 2 {
		t.Fatalf("entries/subgroups = %d/%d, want 2/2", len(data.DataEntries), len(data.Subgroups))
	}
	if data.DataEntries[0].OutcomeID != data.DataEntries[1].OutcomeID {
		t.Error("second pass opened an entry on a different outcome")
	}
}

func TestWriter_MissingPriorRecord(t *testing.T) {
	g := model.NewGrid(
		[]string{"", "", "Outcome", "Tertiles", "Vit D"},
		[]string{"", "", "", "High", "30"},
	)
	_, _, err := writeGrids(t, SubMultiDichotomous, g)
	if !errors.Is(err, ErrMissingPriorRecord) {
		t.Errorf("WriteBucket() error = %v, want ErrMissingPriorRecord", err)
	}
}
