package sections

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// HasInterventions reports whether the intervention table lists arms: its
// first data row starts with a value.
func HasInterventions(g model.Grid) bool {
	return !g.Blank(1, 0)
}

// Arms creates one arm per intervention row and writes each arm's details.
// The last two catalog arm-detail fields take the study-wide
// co-interventions and compliance answers; the others are read along the
// arm's row. It returns the arms created.
func (w *Writer) Arms(ctx context.Context, intervention model.Grid) ([]model.Arm, error) {
	if !HasInterventions(intervention) {
		return nil, nil
	}
	rows := armRows(intervention)

	existing, err := w.repo.ListArms(ctx, w.studyID)
	if err != nil {
		return nil, eris.Wrap(err, "listing arms")
	}
	arms := make([]model.Arm, 0, len(rows))
	for i, row := range rows {
		a := model.Arm{
			StudyID:          w.studyID,
			Title:            row.Cell(fieldmap.ArmTitleCol),
			DisplayNumber:    len(existing) + i + 1,
			ExtractionFormID: w.cat.Forms.Main,
		}
		if err := w.repo.CreateArm(ctx, &a); err != nil {
			return arms, eris.Wrapf(err, "creating arm %q", a.Title)
		}
		arms = append(arms, a)
	}

	fields := w.cat.ArmDetailFields
	if len(fields) == 0 {
		return arms, nil
	}
	if len(fields) < fieldmap.ArmTrailingRows {
		return arms, eris.Errorf("catalog has %d arm detail fields, want at least %d", len(fields), fieldmap.ArmTrailingRows)
	}
	rowFields := fields[:len(fields)-2]
	trailing := []struct {
		id    int64
		value string
	}{
		{fields[len(fields)-2], fieldmap.CoInterventions.In(intervention)},
		{fields[len(fields)-1], fieldmap.Compliance.In(intervention)},
	}

	for i, arm := range arms {
		for m, id := range rowFields {
			if err := w.armDetail(ctx, arm.ID, id, rows[i].Cell(fieldmap.ArmDetailOffset+m)); err != nil {
				return arms, err
			}
		}
		for _, t := range trailing {
			if err := w.armDetail(ctx, arm.ID, t.id, t.value); err != nil {
				return arms, err
			}
		}
	}
	return arms, nil
}

func (w *Writer) armDetail(ctx context.Context, armID, fieldID int64, value string) error {
	dp := &model.ArmDetailDataPoint{DetailPoint: model.DetailPoint{
		FieldID:          fieldID,
		Value:            text.YesNoND(value),
		StudyID:          w.studyID,
		ExtractionFormID: w.cat.Forms.Main,
		ArmID:            armID,
	}}
	return eris.Wrapf(w.repo.CreateArmDetailDataPoint(ctx, dp), "creating arm detail %d", fieldID)
}

// armRows returns the rows between the header and the study-wide trailing
// rows.
func armRows(g model.Grid) []model.Row {
	end := g.RowCount() - fieldmap.ArmTrailingRows
	if end <= 1 {
		return nil
	}
	return g.Rows[1:end]
}
