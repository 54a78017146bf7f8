package sections

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/store"
	"github.com/jensjap/SRDR-ImportProject2/tables"
)

// Default timepoint given to every listed outcome.
const (
	DefaultTimepoint = "N/A"
	DefaultTimeUnit  = "years"
)

// Outcomes creates one outcome per titled row of the outcomes list, each
// with the default timepoint. A title already present in the study is not
// created twice. It returns the number of outcomes created.
func (w *Writer) Outcomes(ctx context.Context, list model.Grid) (int, error) {
	created := 0
	for _, row := range list.Data(1) {
		title := row.Cell(fieldmap.OutcomeTitleCol)
		if title == "" {
			continue
		}
		_, found, err := w.outcome(ctx, title)
		if err != nil {
			return created, err
		}
		if found {
			continue
		}

		o := &model.Outcome{
			StudyID:          w.studyID,
			Title:            title,
			Description:      row.Cell(fieldmap.OutcomeDescriptionCol),
			Notes:            row.Cell(fieldmap.OutcomeNotesCol),
			IsPrimary:        true,
			ExtractionFormID: w.cat.Forms.Main,
		}
		if err := w.repo.CreateOutcome(ctx, o); err != nil {
			return created, eris.Wrapf(err, "creating outcome %q", title)
		}
		tp := &model.OutcomeTimepoint{OutcomeID: o.ID, Number: DefaultTimepoint, TimeUnit: DefaultTimeUnit}
		if err := w.repo.CreateOutcomeTimepoint(ctx, tp); err != nil {
			return created, eris.Wrapf(err, "creating timepoint for %q", title)
		}
		created++
	}
	return created, nil
}

// OutcomeDetails writes the per-outcome answers of each marked row of the
// outcomes list. The general comment is read from the comments table.
func (w *Writer) OutcomeDetails(ctx context.Context, list, comments model.Grid) error {
	od := w.cat.OutcomeDetails
	comment := fieldmap.OutcomeComments.In(comments)

	for _, row := range list.Data(1) {
		if row.Blank(fieldmap.OutcomeMarkerCol) {
			continue
		}
		title := row.Cell(fieldmap.OutcomeTitleCol)
		if title == "" {
			continue
		}
		o, found, err := w.outcome(ctx, title)
		if err != nil {
			return err
		}
		if !found {
			return eris.Wrapf(tables.ErrMissingPriorRecord, "no listed outcome titled %q", title)
		}

		answers := []struct {
			field int64
			value string
		}{
			{od.PrimarySecondary, row.Cell(fieldmap.OutcomeNotesCol)},
			{od.Outcome, title},
			{od.Definition, row.Cell(fieldmap.OutcomeDescriptionCol)},
			{od.Comments, comment},
		}
		for _, a := range answers {
			if a.field == 0 {
				continue
			}
			if err := w.outcomeDetail(ctx, o.ID, w.point(a.field, a.value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Confounders writes every confounder matrix for every outcome of the
// study.
func (w *Writer) Confounders(ctx context.Context, confounders model.Grid) error {
	if confounders.Empty() || len(w.cat.ConfounderMatrices) == 0 {
		return nil
	}
	outcomes, err := w.repo.ListOutcomes(ctx, w.studyID)
	if err != nil {
		return eris.Wrap(err, "listing outcomes")
	}

	for _, o := range outcomes {
		for _, mx := range w.cat.ConfounderMatrices {
			for m, rowField := range mx.Rows {
				for n, colField := range mx.Columns {
					p := w.point(mx.Field, fieldmap.ConfounderValue(m, n).In(confounders))
					p.RowFieldID = rowField
					p.ColumnFieldID = colField
					if err := w.outcomeDetail(ctx, o.ID, p); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (w *Writer) outcomeDetail(ctx context.Context, outcomeID int64, p model.DetailPoint) error {
	p.OutcomeID = outcomeID
	dp := &model.OutcomeDetailDataPoint{DetailPoint: p}
	return eris.Wrapf(w.repo.CreateOutcomeDetailDataPoint(ctx, dp), "creating outcome detail %d", p.FieldID)
}

// outcome finds the study's outcome with exactly this title.
func (w *Writer) outcome(ctx context.Context, title string) (model.Outcome, bool, error) {
	o, found, err := store.FindOutcome(ctx, w.repo, w.studyID, func(o model.Outcome) bool {
		return o.Title == title
	})
	return o, found, eris.Wrapf(err, "finding outcome %q", title)
}
