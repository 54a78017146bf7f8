package store

import (
	"context"
	"errors"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

// ErrNotFound is returned by lookups that expect a record to exist.
var ErrNotFound = errors.New("record not found")

// Repository is the set of create/find operations the importer issues for
// one study. Create methods assign the new record's ID (and, for data
// entries, its display number) on the value passed in.
type Repository interface {
	CreateStudy(ctx context.Context, s *model.Study) error
	CreatePrimaryPublication(ctx context.Context, p *model.PrimaryPublication) error
	UpdateTrialTitle(ctx context.Context, publicationID int64, title string) error
	CreatePublicationNumber(ctx context.Context, n *model.PublicationNumber) error
	CreateStudyKeyQuestion(ctx context.Context, kq *model.StudyKeyQuestion) error
	CreateStudyExtractionForm(ctx context.Context, ef *model.StudyExtractionForm) error

	CreateArm(ctx context.Context, a *model.Arm) error
	// ListArms returns the study's arms ordered by display number.
	ListArms(ctx context.Context, studyID int64) ([]model.Arm, error)

	CreateOutcome(ctx context.Context, o *model.Outcome) error
	UpdateOutcome(ctx context.Context, o *model.Outcome) error
	// ListOutcomes returns the study's outcomes in creation order.
	ListOutcomes(ctx context.Context, studyID int64) ([]model.Outcome, error)

	CreateOutcomeTimepoint(ctx context.Context, tp *model.OutcomeTimepoint) error
	// LastOutcomeTimepoint returns the most recently created timepoint for
	// the outcome, or ErrNotFound.
	LastOutcomeTimepoint(ctx context.Context, outcomeID int64) (model.OutcomeTimepoint, error)
	CreateOutcomeSubgroup(ctx context.Context, sg *model.OutcomeSubgroup) error
	CreateOutcomeDataEntry(ctx context.Context, e *model.OutcomeDataEntry) error
	CreateOutcomeMeasure(ctx context.Context, m *model.OutcomeMeasure) error
	CreateOutcomeDataPoint(ctx context.Context, dp *model.OutcomeDataPoint) error

	CreateComparison(ctx context.Context, c *model.Comparison) error
	CreateComparisonMeasure(ctx context.Context, m *model.ComparisonMeasure) error
	CreateComparator(ctx context.Context, c *model.Comparator) error
	CreateComparisonDataPoint(ctx context.Context, dp *model.ComparisonDataPoint) error

	CreateDesignDetailDataPoint(ctx context.Context, dp *model.DesignDetailDataPoint) error
	CreateQualityDimensionDataPoint(ctx context.Context, dp *model.QualityDimensionDataPoint) error
	CreateQualityRatingDataPoint(ctx context.Context, dp *model.QualityRatingDataPoint) error
	CreateBaselineCharacteristicDataPoint(ctx context.Context, dp *model.BaselineCharacteristicDataPoint) error
	CreateArmDetailDataPoint(ctx context.Context, dp *model.ArmDetailDataPoint) error
	CreateOutcomeDetailDataPoint(ctx context.Context, dp *model.OutcomeDetailDataPoint) error
}

// Tx is a Repository bound to one all-or-nothing unit of work.
type Tx interface {
	Repository
	Commit() error
	Rollback() error
}

// Store opens transactions. Each imported document runs in its own Tx.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// FindOutcome returns the first of the study's outcomes, in creation order,
// that satisfies match.
func FindOutcome(ctx context.Context, repo Repository, studyID int64, match func(model.Outcome) bool) (model.Outcome, bool, error) {
	outcomes, err := repo.ListOutcomes(ctx, studyID)
	if err != nil {
		return model.Outcome{}, false, err
	}
	for _, o := range outcomes {
		if match(o) {
			return o, true, nil
		}
	}
	return model.Outcome{}, false, nil
}

// FindArm returns the first of the study's arms, in display order, that
// satisfies match.
func FindArm(ctx context.Context, repo Repository, studyID int64, match func(model.Arm) bool) (model.Arm, bool, error) {
	arms, err := repo.ListArms(ctx, studyID)
	if err != nil {
		return model.Arm{}, false, err
	}
	for _, a := range arms {
		if match(a) {
			return a, true, nil
		}
	}
	return model.Arm{}, false, nil
}
