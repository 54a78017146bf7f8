package sections

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// TrialTitle copies the eligibility table's trial-or-cohort answer onto the
// publication.
func (w *Writer) TrialTitle(ctx context.Context, eligibility model.Grid, publicationID int64) error {
	title := text.YesNoND(fieldmap.TrialTitle.In(eligibility))
	return eris.Wrap(w.repo.UpdateTrialTitle(ctx, publicationID, title), "updating trial title")
}

// DesignDetails writes the eligibility design answers and the background
// diet matrices.
func (w *Writer) DesignDetails(ctx context.Context, eligibility, background model.Grid) error {
	if len(w.cat.DesignDetailFields) > 0 {
		for _, f := range fieldmap.DesignDetails {
			dp := &model.DesignDetailDataPoint{DetailPoint: w.point(fieldID(w.cat.DesignDetailFields, f), f.Cell.In(eligibility))}
			if err := w.repo.CreateDesignDetailDataPoint(ctx, dp); err != nil {
				return eris.Wrapf(err, "creating design detail %q", f.Name)
			}
		}
	}

	if background.Empty() {
		return nil
	}
	for i, m := range w.cat.DesignMatrices {
		layout := fieldmap.BackgroundMatrices[i]
		for j, col := range layout.Cols {
			p := w.point(m.Field, background.Cell(layout.Row, col))
			p.RowFieldID = m.RowField
			p.ColumnFieldID = m.ColumnFields[j]
			dp := &model.DesignDetailDataPoint{DetailPoint: p}
			if err := w.repo.CreateDesignDetailDataPoint(ctx, dp); err != nil {
				return eris.Wrapf(err, "creating %s matrix cell %d", layout.Name, j)
			}
		}
	}
	return nil
}

// Baseline writes the population's baseline characteristics, one per
// catalog field along the first data row.
func (w *Writer) Baseline(ctx context.Context, population model.Grid) error {
	if population.Empty() {
		return nil
	}
	for n, id := range w.cat.BaselineCharacteristicFields {
		v := population.Cell(fieldmap.BaselineRow, fieldmap.BaselineOffset+n)
		dp := &model.BaselineCharacteristicDataPoint{DetailPoint: w.point(id, v)}
		if err := w.repo.CreateBaselineCharacteristicDataPoint(ctx, dp); err != nil {
			return eris.Wrapf(err, "creating baseline characteristic %d", id)
		}
	}
	return nil
}
