package sections

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// AllParticipants is the single arm given to cohort studies.
const AllParticipants = "All Participants"

// qualityForm describes one quality-assessment table.
type qualityForm struct {
	name        string
	formID      int64
	keyQuestion int64
	fieldIDs    []int64
	fields      []fieldmap.Field
	rating      fieldmap.Cell
	notes       fieldmap.Cell
}

// Completed reports whether a quality table was filled in: its first data
// row starts with a value.
func Completed(g model.Grid) bool {
	return !g.Blank(1, 0)
}

// QualityInterventional writes the quality-of-interventional-studies table
// when it was completed. It reports whether anything was written.
func (w *Writer) QualityInterventional(ctx context.Context, g model.Grid) (bool, error) {
	return w.quality(ctx, g, qualityForm{
		name:        "interventional",
		formID:      w.cat.Forms.QualityInterventional,
		keyQuestion: w.cat.KeyQuestions.QualityInterventional,
		fieldIDs:    w.cat.QualityDimensionFields.Interventional,
		fields:      fieldmap.QualityInterventional,
		rating:      fieldmap.QualityInterventionalRating,
		notes:       fieldmap.QualityInterventionalNotes,
	})
}

// QualityCohort writes the quality-of-cohort-studies table when it was
// completed, and gives the study its "All Participants" arm. It reports
// whether anything was written.
func (w *Writer) QualityCohort(ctx context.Context, g model.Grid) (bool, error) {
	ok, err := w.quality(ctx, g, qualityForm{
		name:        "cohort",
		formID:      w.cat.Forms.QualityCohort,
		keyQuestion: w.cat.KeyQuestions.QualityCohort,
		fieldIDs:    w.cat.QualityDimensionFields.Cohort,
		fields:      fieldmap.QualityCohort,
		rating:      fieldmap.QualityCohortRating,
		notes:       fieldmap.QualityCohortNotes,
	})
	if !ok || err != nil {
		return ok, err
	}

	arms, err := w.repo.ListArms(ctx, w.studyID)
	if err != nil {
		return true, eris.Wrap(err, "listing arms")
	}
	arm := &model.Arm{
		StudyID:          w.studyID,
		Title:            AllParticipants,
		DisplayNumber:    len(arms) + 1,
		ExtractionFormID: w.cat.Forms.Main,
	}
	return true, eris.Wrap(w.repo.CreateArm(ctx, arm), "creating all-participants arm")
}

func (w *Writer) quality(ctx context.Context, g model.Grid, q qualityForm) (bool, error) {
	if !Completed(g) {
		return false, nil
	}
	if err := w.keyQuestion(ctx, q.keyQuestion, q.formID); err != nil {
		return true, err
	}
	if err := w.associate(ctx, q.formID); err != nil {
		return true, err
	}

	if len(q.fieldIDs) > 0 {
		for _, f := range q.fields {
			dp := &model.QualityDimensionDataPoint{DetailPoint: model.DetailPoint{
				FieldID:          fieldID(q.fieldIDs, f),
				Value:            text.YesNoND(f.Cell.In(g)),
				StudyID:          w.studyID,
				ExtractionFormID: q.formID,
			}}
			if err := w.repo.CreateQualityDimensionDataPoint(ctx, dp); err != nil {
				return true, eris.Wrapf(err, "creating quality dimension %q", f.Name)
			}
		}
	}

	rating := &model.QualityRatingDataPoint{
		StudyID:              w.studyID,
		CurrentOverallRating: q.rating.In(g),
		Notes:                q.notes.In(g),
		ExtractionFormID:     q.formID,
	}
	if err := w.repo.CreateQualityRatingDataPoint(ctx, rating); err != nil {
		return true, eris.Wrapf(err, "creating %s quality rating", q.name)
	}
	w.logger.Debug("quality assessment written",
		zap.String("form", q.name),
		zap.String("rating", rating.CurrentOverallRating))
	return true, nil
}
