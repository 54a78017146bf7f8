package sections

import (
	"context"
	"errors"
	"testing"

	"github.com/jensjap/SRDR-ImportProject2/catalog"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/store"
	"github.com/jensjap/SRDR-ImportProject2/tables"
)

// run executes fn against a fresh study and returns the committed data.
func run(t *testing.T, cat *catalog.Catalog, fn func(ctx context.Context, w *Writer) error) (store.Data, error) {
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
	ferr := fn(ctx, New(tx, cat, study.ID))
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	return mem.Snapshot(), ferr
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("../catalog/testdata/vitd.yaml")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return cat
}

func TestPublicationAndKeyQuestions(t *testing.T) {
	data, err := run(t, nil, func(ctx context.Context, w *Writer) error {
		pp, err := w.Publication(ctx, "12345")
		if err != nil {
			return err
		}
		if err := w.TrialTitle(ctx, model.NewGrid(nil, []string{"12345", "", "", "", "", "", "y"}), pp.ID); err != nil {
			return err
		}
		return w.KeyQuestions(ctx)
	})
	if err != nil {
		t.Fatalf("writing failed: %v", err)
	}

	if len(data.Publications) != 1 || data.Publications[0].PMID != "12345" {
		t.Fatalf("Publications = %+v", data.Publications)
	}
	if got := data.Publications[0].TrialTitle; got != "Yes" {
		t.Errorf("TrialTitle = %q, want %q", got, "Yes")
	}
	if len(data.PublicationNumbers) != 1 || data.PublicationNumbers[0].NumberType != "internal" {
		t.Errorf("PublicationNumbers = %+v", data.PublicationNumbers)
	}
	if len(data.KeyQuestions) != 5 {
		t.Errorf("len(KeyQuestions) = %d, want 5", len(data.KeyQuestions))
	}
	if len(data.ExtractionForms) != 1 || data.ExtractionForms[0].ExtractionFormID != 194 {
		t.Errorf("ExtractionForms = %+v", data.ExtractionForms)
	}
}

func TestQuality(t *testing.T) {
	qoi := model.NewGrid(
		[]string{"UI", "Design", "", "Randomization"},
		[]string{"12345", "RCT", "parallel", "y", "n", "", "y", "nd", "y", "y", "n", "y", "B"},
		[]string{"Adverse events", "none reported"},
		[]string{"Explanation", "small trial"},
	)
	blank := model.NewGrid([]string{"UI"}, []string{""})

	data, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		ok, err := w.QualityInterventional(ctx, qoi)
		if err != nil {
			return err
		}
		if !ok {
			t.Error("QualityInterventional() = false, want true")
		}
		ok, err = w.QualityCohort(ctx, blank)
		if ok {
			t.Error("QualityCohort() on blank table = true, want false")
		}
		return err
	})
	if err != nil {
		t.Fatalf("writing failed: %v", err)
	}

	if len(data.QualityDimensions) != 11 {
		t.Errorf("len(QualityDimensions) = %d, want 11", len(data.QualityDimensions))
	}
	byField := make(map[int64]string)
	for _, dp := range data.QualityDimensions {
		byField[dp.FieldID] = dp.Value
	}
	if got := byField[3001]; got != "Yes" {
		t.Errorf("randomization = %q, want %q", got, "Yes")
	}
	if got := byField[3011]; got != "none reported" {
		t.Errorf("adverse events = %q, want %q", got, "none reported")
	}
	if len(data.QualityRatings) != 1 {
		t.Fatalf("len(QualityRatings) = %d, want 1", len(data.QualityRatings))
	}
	r := data.QualityRatings[0]
	if r.CurrentOverallRating != "B" || r.Notes != "small trial" || r.ExtractionFormID != 190 {
		t.Errorf("QualityRating = %+v", r)
	}
	if len(data.KeyQuestions) != 1 || data.KeyQuestions[0].KeyQuestionID != 361 {
		t.Errorf("KeyQuestions = %+v", data.KeyQuestions)
	}
	if len(data.Arms) != 0 {
		t.Errorf("len(Arms) = %d, want 0", len(data.Arms))
	}
}

func TestQualityCohort_AllParticipants(t *testing.T) {
	qoc := model.NewGrid(
		[]string{"UI"},
		[]string{"12345", "", "", "y"},
		[]string{"", "n"},
		[]string{"", ""},
		[]string{"Grade", "C"},
		[]string{"Explanation", "unadjusted"},
	)
	data, err := run(t, nil, func(ctx context.Context, w *Writer) error {
		_, err := w.QualityCohort(ctx, qoc)
		return err
	})
	if err != nil {
		t.Fatalf("writing failed: %v", err)
	}
	if len(data.Arms) != 1 || data.Arms[0].Title != AllParticipants {
		t.Errorf("Arms = %+v, want one %q", data.Arms, AllParticipants)
	}
	// the default catalog has no dimension fields
	if len(data.QualityDimensions) != 0 {
		t.Errorf("len(QualityDimensions) = %d, want 0", len(data.QualityDimensions))
	}
	if len(data.QualityRatings) != 1 || data.QualityRatings[0].CurrentOverallRating != "C" {
		t.Errorf("QualityRatings = %+v", data.QualityRatings)
	}
}

func TestDesignDetails(t *testing.T) {
	eligibility := model.NewGrid(
		[]string{"UI"},
		[]string{"12345", "", "RCT", "adults", "none", "2001-2003", "y", "NIH", "AB"},
	)
	background := model.NewGrid(
		[]string{"header"},
		[]string{"", "", "", "", "", "", "RIA", "y", "", "winter", "n"},
		[]string{"", "", "", "FFQ", "USDA", "n", "", "", "", "", "y"},
	)
	data, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		return w.DesignDetails(ctx, eligibility, background)
	})
	if err != nil {
		t.Fatalf("writing failed: %v", err)
	}

	if want := 7 + 5 + 7; len(data.DesignDetails) != want {
		t.Fatalf("len(DesignDetails) = %d, want %d", len(data.DesignDetails), want)
	}
	first := data.DesignDetails[0]
	if first.FieldID != 1920 || first.Value != "RCT" || first.RowFieldID != 0 {
		t.Errorf("first design detail = %+v", first.DetailPoint)
	}
	biomarker := data.DesignDetails[7]
	if biomarker.FieldID != 1927 || biomarker.RowFieldID != 8678 || biomarker.ColumnFieldID != 8683 || biomarker.Value != "RIA" {
		t.Errorf("biomarker matrix cell = %+v", biomarker.DetailPoint)
	}
	last := data.DesignDetails[len(data.DesignDetails)-1]
	if last.ColumnFieldID != 8669 || last.Value != "Yes" {
		t.Errorf("last matrix cell = %+v", last.DetailPoint)
	}
}

func TestArms(t *testing.T) {
	intervention := model.NewGrid(
		[]string{"UI", "", "Arm", "Dose", "Route", "Duration"},
		[]string{"12345", "", "Placebo", "0", "oral", "12 mo"},
		[]string{"12345", "", "Vitamin D", "800 IU", "oral", "12 mo"},
		[]string{"Co-interventions", "calcium"},
		[]string{"Compliance", "y"},
	)
	cat := catalog.Default()
	cat.ArmDetailFields = []int64{1, 2, 3, 4, 5}

	var arms []model.Arm
	data, err := run(t, cat, func(ctx context.Context, w *Writer) error {
		var err error
		arms, err = w.Arms(ctx, intervention)
		return err
	})
	if err != nil {
		t.Fatalf("Arms() failed: %v", err)
	}

	if len(arms) != 2 || arms[1].Title != "Vitamin D" || arms[1].DisplayNumber != 2 {
		t.Fatalf("arms = %+v", arms)
	}
	if len(data.ArmDetails) != 10 {
		t.Fatalf("len(ArmDetails) = %d, want 10", len(data.ArmDetails))
	}
	got := make(map[[2]int64]string)
	for _, dp := range data.ArmDetails {
		got[[2]int64{dp.ArmID, dp.FieldID}] = dp.Value
	}
	checks := []struct {
		arm   int64
		field int64
		want  string
	}{
		{arms[0].ID, 1, "0"},
		{arms[1].ID, 1, "800 IU"},
		{arms[1].ID, 3, "12 mo"},
		{arms[0].ID, 4, "calcium"},
		{arms[1].ID, 5, "Yes"},
	}
	for _, c := range checks {
		if v := got[[2]int64{c.arm, c.field}]; v != c.want {
			t.Errorf("arm %d field %d = %q, want %q", c.arm, c.field, v, c.want)
		}
	}
}

func TestArms_NoInterventions(t *testing.T) {
	g := model.NewGrid(
		[]string{"UI", "", "Arm"},
		[]string{"", "", ""},
		[]string{"Co-interventions", ""},
		[]string{"Compliance", ""},
	)
	data, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		_, err := w.Arms(ctx, g)
		return err
	})
	if err != nil {
		t.Fatalf("Arms() failed: %v", err)
	}
	if len(data.Arms) != 0 || len(data.ArmDetails) != 0 {
		t.Errorf("arms/details = %d/%d, want 0/0", len(data.Arms), len(data.ArmDetails))
	}
}

func TestArms_SingleDetailField(t *testing.T) {
	intervention := model.NewGrid(
		[]string{"UI", "", "Arm", "Dose"},
		[]string{"12345", "", "Placebo", "0"},
		[]string{"Co-interventions", "calcium"},
		[]string{"Compliance", "y"},
	)
	cat := catalog.Default()
	cat.ArmDetailFields = []int64{1}

	data, err := run(t, cat, func(ctx context.Context, w *Writer) error {
		_, err := w.Arms(ctx, intervention)
		return err
	})
	if err == nil {
		t.Fatal("Arms() with one arm detail field succeeded, want an error")
	}
	if len(data.ArmDetails) != 0 {
		t.Errorf("len(ArmDetails) = %d, want 0", len(data.ArmDetails))
	}
}

func TestBaseline(t *testing.T) {
	population := model.NewGrid(
		[]string{"UI", "", "", "Age", "Sex"},
		[]string{"12345", "", "", "62", "F"},
	)
	data, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		return w.Baseline(ctx, population)
	})
	if err != nil {
		t.Fatalf("Baseline() failed: %v", err)
	}
	want := []string{"62", "F", "nd", "nd"}
	if len(data.BaselineCharacteristics) != len(want) {
		t.Fatalf("len(BaselineCharacteristics) = %d, want %d", len(data.BaselineCharacteristics), len(want))
	}
	for i, w := range want {
		if got := data.BaselineCharacteristics[i].Value; got != w {
			t.Errorf("characteristic %d = %q, want %q", i, got, w)
		}
	}
}

var outcomesList = model.NewGrid(
	[]string{"UI", "", "Primary?", "Outcome", "Definition"},
	[]string{"12345", "", "y", "BMD", "hip DXA"},
	[]string{"", "", "n", "Falls", "self report"},
	[]string{"12345", "", "y", "BMD", "duplicate row"},
	[]string{"", "", "", "", ""},
)

func TestOutcomes(t *testing.T) {
	comments := model.NewGrid([]string{"Comments"}, []string{"", "", "well reported"})
	data, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		n, err := w.Outcomes(ctx, outcomesList)
		if err != nil {
			return err
		}
		if n != 2 {
			t.Errorf("Outcomes() created %d, want 2", n)
		}
		return w.OutcomeDetails(ctx, outcomesList, comments)
	})
	if err != nil {
		t.Fatalf("writing failed: %v", err)
	}

	if len(data.Outcomes) != 2 || len(data.Timepoints) != 2 {
		t.Fatalf("outcomes/timepoints = %d/%d, want 2/2", len(data.Outcomes), len(data.Timepoints))
	}
	bmd := data.Outcomes[0]
	if bmd.Description != "hip DXA" || bmd.Notes != "y" || !bmd.IsPrimary {
		t.Errorf("BMD outcome = %+v", bmd)
	}
	if tp := data.Timepoints[0]; tp.Number != "N/A" || tp.TimeUnit != "years" {
		t.Errorf("timepoint = %+v", tp)
	}

	// two marked rows, both BMD, four answers each
	if len(data.OutcomeDetails) != 8 {
		t.Fatalf("len(OutcomeDetails) = %d, want 8", len(data.OutcomeDetails))
	}
	d := data.OutcomeDetails[0]
	if d.OutcomeID != bmd.ID || d.FieldID != 2301 || d.Value != "Yes" {
		t.Errorf("primary/secondary detail = %+v", d.DetailPoint)
	}
	if got := data.OutcomeDetails[3].Value; got != "well reported" {
		t.Errorf("comment detail = %q, want %q", got, "well reported")
	}
}

func TestOutcomeDetails_MissingOutcome(t *testing.T) {
	_, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		return w.OutcomeDetails(ctx, outcomesList, model.Grid{})
	})
	if !errors.Is(err, tables.ErrMissingPriorRecord) {
		t.Errorf("OutcomeDetails() error = %v, want ErrMissingPriorRecord", err)
	}
}

func TestConfounders(t *testing.T) {
	confounders := model.NewGrid(
		[]string{"", "", "Age", "Sex", "BMI"},
		[]string{"12345", "label", "Adjusted", "y", "n", "nd"},
		[]string{"Matched", "n", "y", ""},
	)
	data, err := run(t, testCatalog(t), func(ctx context.Context, w *Writer) error {
		if _, err := w.Outcomes(ctx, outcomesList); err != nil {
			return err
		}
		return w.Confounders(ctx, confounders)
	})
	if err != nil {
		t.Fatalf("Confounders() failed: %v", err)
	}

	// 2 outcomes x 2 rows x 3 columns
	if len(data.OutcomeDetails) != 12 {
		t.Fatalf("len(OutcomeDetails) = %d, want 12", len(data.OutcomeDetails))
	}
	first := data.OutcomeDetails[0]
	if first.FieldID != 2305 || first.RowFieldID != 9001 || first.ColumnFieldID != 9101 || first.Value != "Yes" {
		t.Errorf("first cell = %+v", first.DetailPoint)
	}
	second := data.OutcomeDetails[3]
	if second.RowFieldID != 9002 || second.ColumnFieldID != 9101 || second.Value != "No" {
		t.Errorf("second row first cell = %+v", second.DetailPoint)
	}
}
