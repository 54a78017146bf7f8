package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

func openTestSQL(t *testing.T) *SQL {
	t.Helper()
	s, err := OpenSQL(context.Background(), "sqlite", filepath.Join(t.TempDir(), "srdr.db"))
	if err != nil {
		t.Fatalf("OpenSQL() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQL_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	defer tx.Rollback()

	study := &model.Study{ProjectID: 135, CreatorID: 1}
	if err := tx.CreateStudy(ctx, study); err != nil {
		t.Fatalf("CreateStudy() failed: %v", err)
	}

	pub := &model.PrimaryPublication{StudyID: study.ID, PMID: "12345"}
	if err := tx.CreatePrimaryPublication(ctx, pub); err != nil {
		t.Fatalf("CreatePrimaryPublication() failed: %v", err)
	}
	if err := tx.UpdateTrialTitle(ctx, pub.ID, "Yes"); err != nil {
		t.Fatalf("UpdateTrialTitle() failed: %v", err)
	}

	for i, title := range []string{"Placebo", "Vitamin D"} {
		if err := tx.CreateArm(ctx, &model.Arm{StudyID: study.ID, Title: title, DisplayNumber: i + 1, ExtractionFormID: 194}); err != nil {
			t.Fatalf("CreateArm() failed: %v", err)
		}
	}
	arms, err := tx.ListArms(ctx, study.ID)
	if err != nil {
		t.Fatalf("ListArms() failed: %v", err)
	}
	if len(arms) != 2 || arms[1].Title != "Vitamin D" {
		t.Errorf("ListArms() = %+v", arms)
	}

	outcome := &model.Outcome{StudyID: study.ID, Title: "BMD", Units: "g/cm2", OutcomeType: model.OutcomeContinuous, IsPrimary: true, ExtractionFormID: 194}
	if err := tx.CreateOutcome(ctx, outcome); err != nil {
		t.Fatalf("CreateOutcome() failed: %v", err)
	}
	outcome.Units = "mg"
	if err := tx.UpdateOutcome(ctx, outcome); err != nil {
		t.Fatalf("UpdateOutcome() failed: %v", err)
	}
	outcomes, err := tx.ListOutcomes(ctx, study.ID)
	if err != nil {
		t.Fatalf("ListOutcomes() failed: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Units != "mg" || !outcomes[0].IsPrimary {
		t.Errorf("ListOutcomes() = %+v", outcomes)
	}

	if _, err := tx.LastOutcomeTimepoint(ctx, outcome.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("LastOutcomeTimepoint() = %v, want ErrNotFound", err)
	}
	if err := tx.CreateOutcomeTimepoint(ctx, &model.OutcomeTimepoint{OutcomeID: outcome.ID, Number: "N/A", TimeUnit: "years"}); err != nil {
		t.Fatalf("CreateOutcomeTimepoint() failed: %v", err)
	}
	tp, err := tx.LastOutcomeTimepoint(ctx, outcome.ID)
	if err != nil || tp.TimeUnit != "years" {
		t.Errorf("LastOutcomeTimepoint() = %+v, %v", tp, err)
	}

	entry := &model.OutcomeDataEntry{OutcomeID: outcome.ID, TimepointID: tp.ID, SubgroupID: 1, StudyID: study.ID}
	if err := tx.CreateOutcomeDataEntry(ctx, entry); err != nil {
		t.Fatalf("CreateOutcomeDataEntry() failed: %v", err)
	}
	second := *entry
	if err := tx.CreateOutcomeDataEntry(ctx, &second); err != nil {
		t.Fatalf("CreateOutcomeDataEntry() failed: %v", err)
	}
	if second.DisplayNumber != 2 {
		t.Errorf("DisplayNumber = %d, want 2", second.DisplayNumber)
	}

	dp := &model.DesignDetailDataPoint{DetailPoint: model.DetailPoint{FieldID: 1927, Value: "Yes", StudyID: study.ID, RowFieldID: 8678, ColumnFieldID: 8683}}
	if err := tx.CreateDesignDetailDataPoint(ctx, dp); err != nil {
		t.Fatalf("CreateDesignDetailDataPoint() failed: %v", err)
	}
	if dp.ID == 0 {
		t.Error("CreateDesignDetailDataPoint() did not assign an ID")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
}

func TestSQL_Rollback(t *testing.T) {
	ctx := context.Background()
	s := openTestSQL(t)

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if err := tx.CreateArm(ctx, &model.Arm{StudyID: 1, Title: "Placebo", DisplayNumber: 1}); err != nil {
		t.Fatalf("CreateArm() failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() failed: %v", err)
	}

	tx, err = s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	defer tx.Rollback()
	arms, err := tx.ListArms(ctx, 1)
	if err != nil {
		t.Fatalf("ListArms() failed: %v", err)
	}
	if len(arms) != 0 {
		t.Errorf("ListArms() after rollback = %d arms, want 0", len(arms))
	}
}

func TestDialect(t *testing.T) {
	tests := []struct {
		driver string
		want   Dialect
		ok     bool
	}{
		{"sqlite", SQLite, true},
		{"", SQLite, true},
		{"mysql", MySQL, true},
		{"postgres", Postgres, true},
		{"oracle", SQLite, false},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.driver)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDialect(%q) error = %v, want ok=%v", tt.driver, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseDialect(%q) = %v, want %v", tt.driver, got, tt.want)
		}
	}

	if got := Postgres.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("rebind() = %q", got)
	}
	if got := MySQL.rebind("a = ?"); got != "a = ?" {
		t.Errorf("rebind() = %q", got)
	}
}
