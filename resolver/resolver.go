package resolver

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/store"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// Kind says how a title was resolved.
type Kind int

const (
	// Found means an existing record matched exactly (outcomes) or by
	// prefix (arms).
	Found Kind = iota
	// Created means nothing matched and a new record was made.
	Created
	// Ambiguous means no exact match existed and the best word-overlap
	// candidate was chosen.
	Ambiguous
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Created:
		return "created"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving a title to a record.
type Resolution struct {
	ID    int64
	Kind  Kind
	Score int // overlap score, set for Ambiguous
}

// Recorder receives titles that could not be matched and were created.
type Recorder interface {
	Unmatched(title string) error
}

// Resolver matches free-text outcome and arm labels against the records
// already created for one study.
type Resolver struct {
	repo    store.Repository
	studyID int64
	formID  int64
	issues  Recorder
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtractionForm sets the form id stamped on created records.
func WithExtractionForm(id int64) Option {
	return func(r *Resolver) { r.formID = id }
}

// WithRecorder sets where unmatched outcome titles are reported.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) { r.issues = rec }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a resolver for one study.
func New(repo store.Repository, studyID int64, opts ...Option) *Resolver {
	r := &Resolver{
		repo:    repo,
		studyID: studyID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome resolves title to one of the study's outcomes.
//
// An exact case-insensitive title match wins and has its unit and type
// refreshed. Otherwise the outcome sharing the most words with title wins,
// the earliest created winning ties, and is likewise refreshed. When no
// outcome shares a word, a new outcome is created with a default
// ("N/A", "years") timepoint and the title is reported to the recorder.
func (r *Resolver) Outcome(ctx context.Context, title, unit, outcomeType string) (Resolution, error) {
	outcomes, err := r.repo.ListOutcomes(ctx, r.studyID)
	if err != nil {
		return Resolution{}, eris.Wrapf(err, "listing outcomes for %q", title)
	}

	best, bestScore := -1, 0
	for i, o := range outcomes {
		if text.EqualFold(o.Title, title) {
			if err := r.refresh(ctx, o, unit, outcomeType); err != nil {
				return Resolution{}, err
			}
			return Resolution{ID: o.ID, Kind: Found}, nil
		}
		if score := text.Overlap(title, o.Title); score > bestScore {
			best, bestScore = i, score
		}
	}

	if best >= 0 {
		o := outcomes[best]
		if err := r.refresh(ctx, o, unit, outcomeType); err != nil {
			return Resolution{}, err
		}
		r.logger.Debug("outcome matched by overlap",
			zap.String("title", title),
			zap.String("matched", o.Title),
			zap.Int("score", bestScore))
		return Resolution{ID: o.ID, Kind: Ambiguous, Score: bestScore}, nil
	}

	o := &model.Outcome{
		StudyID:          r.studyID,
		Title:            title,
		Units:            unit,
		OutcomeType:      outcomeType,
		IsPrimary:        true,
		ExtractionFormID: r.formID,
	}
	if err := r.repo.CreateOutcome(ctx, o); err != nil {
		return Resolution{}, eris.Wrapf(err, "creating outcome %q", title)
	}
	tp := &model.OutcomeTimepoint{OutcomeID: o.ID, Number: "N/A", TimeUnit: "years"}
	if err := r.repo.CreateOutcomeTimepoint(ctx, tp); err != nil {
		return Resolution{}, eris.Wrapf(err, "creating timepoint for %q", title)
	}

	r.logger.Info("outcome not matched, created", zap.String("title", title), zap.Int64("outcome_id", o.ID))
	if r.issues != nil {
		if err := r.issues.Unmatched(title); err != nil {
			r.logger.Warn("recording unmatched outcome", zap.Error(err))
		}
	}
	return Resolution{ID: o.ID, Kind: Created}, nil
}

func (r *Resolver) refresh(ctx context.Context, o model.Outcome, unit, outcomeType string) error {
	if o.Units == unit && o.OutcomeType == outcomeType {
		return nil
	}
	o.Units = unit
	o.OutcomeType = outcomeType
	return eris.Wrapf(r.repo.UpdateOutcome(ctx, &o), "updating outcome %d", o.ID)
}

// Arm resolves title to one of the study's arms by case-insensitive prefix,
// creating the arm with the next display number when none matches.
func (r *Resolver) Arm(ctx context.Context, title string) (Resolution, error) {
	found, ok, err := store.FindArm(ctx, r.repo, r.studyID, func(a model.Arm) bool {
		return text.HasPrefixFold(a.Title, title)
	})
	if err != nil {
		return Resolution{}, eris.Wrapf(err, "finding arm %q", title)
	}
	if ok {
		return Resolution{ID: found.ID, Kind: Found}, nil
	}

	arms, err := r.repo.ListArms(ctx, r.studyID)
	if err != nil {
		return Resolution{}, eris.Wrapf(err, "listing arms for %q", title)
	}
	a := &model.Arm{
		StudyID:          r.studyID,
		Title:            title,
		DisplayNumber:    len(arms) + 1,
		ExtractionFormID: r.formID,
	}
	if err := r.repo.CreateArm(ctx, a); err != nil {
		return Resolution{}, eris.Wrapf(err, "creating arm %q", title)
	}
	r.logger.Debug("arm created", zap.String("title", title), zap.Int64("arm_id", a.ID))
	return Resolution{ID: a.ID, Kind: Created}, nil
}
