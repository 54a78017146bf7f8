package sections

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jensjap/SRDR-ImportProject2/catalog"
	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/store"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// PublicationNumberType is the number type recorded for the report's
// identifier.
const PublicationNumberType = "internal"

// Writer creates section records for one study.
type Writer struct {
	repo    store.Repository
	cat     *catalog.Catalog
	studyID int64
	logger  *zap.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// New returns a section writer for studyID. A nil catalog means
// [catalog.Default].
func New(repo store.Repository, cat *catalog.Catalog, studyID int64, opts ...Option) *Writer {
	if cat == nil {
		cat = catalog.Default()
	}
	w := &Writer{
		repo:    repo,
		cat:     cat,
		studyID: studyID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Publication records the report identifier as the study's primary
// publication and its internal publication number.
func (w *Writer) Publication(ctx context.Context, identifier string) (model.PrimaryPublication, error) {
	pp := model.PrimaryPublication{StudyID: w.studyID, PMID: identifier}
	if err := w.repo.CreatePrimaryPublication(ctx, &pp); err != nil {
		return pp, eris.Wrapf(err, "creating publication %s", identifier)
	}
	n := &model.PublicationNumber{
		PrimaryPublicationID: pp.ID,
		Number:               identifier,
		NumberType:           PublicationNumberType,
	}
	if err := w.repo.CreatePublicationNumber(ctx, n); err != nil {
		return pp, eris.Wrapf(err, "creating publication number %s", identifier)
	}
	return pp, nil
}

// KeyQuestions associates the study with the main extraction form and its
// key questions.
func (w *Writer) KeyQuestions(ctx context.Context) error {
	if err := w.associate(ctx, w.cat.Forms.Main); err != nil {
		return err
	}
	for _, kq := range w.cat.KeyQuestions.Main {
		if err := w.keyQuestion(ctx, kq, w.cat.Forms.Main); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) associate(ctx context.Context, formID int64) error {
	ef := &model.StudyExtractionForm{StudyID: w.studyID, ExtractionFormID: formID}
	return eris.Wrapf(w.repo.CreateStudyExtractionForm(ctx, ef), "associating extraction form %d", formID)
}

func (w *Writer) keyQuestion(ctx context.Context, kq, formID int64) error {
	skq := &model.StudyKeyQuestion{StudyID: w.studyID, KeyQuestionID: kq, ExtractionFormID: formID}
	return eris.Wrapf(w.repo.CreateStudyKeyQuestion(ctx, skq), "associating key question %d", kq)
}

// point builds a detail point on the main form with its value translated.
func (w *Writer) point(fieldID int64, value string) model.DetailPoint {
	return model.DetailPoint{
		FieldID:          fieldID,
		Value:            text.YesNoND(value),
		StudyID:          w.studyID,
		ExtractionFormID: w.cat.Forms.Main,
	}
}

// fieldID returns the catalog id for a field map entry.
func fieldID(ids []int64, f fieldmap.Field) int64 {
	return ids[f.Index]
}
