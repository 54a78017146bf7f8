package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("transaction already committed or rolled back")

// Data is the full contents of a Memory store.
type Data struct {
	Studies                 []model.Study
	Publications            []model.PrimaryPublication
	PublicationNumbers      []model.PublicationNumber
	KeyQuestions            []model.StudyKeyQuestion
	ExtractionForms         []model.StudyExtractionForm
	Arms                    []model.Arm
	Outcomes                []model.Outcome
	Timepoints              []model.OutcomeTimepoint
	Subgroups               []model.OutcomeSubgroup
	DataEntries             []model.OutcomeDataEntry
	Measures                []model.OutcomeMeasure
	DataPoints              []model.OutcomeDataPoint
	Comparisons             []model.Comparison
	ComparisonMeasures      []model.ComparisonMeasure
	Comparators             []model.Comparator
	ComparisonDataPoints    []model.ComparisonDataPoint
	DesignDetails           []model.DesignDetailDataPoint
	QualityDimensions       []model.QualityDimensionDataPoint
	QualityRatings          []model.QualityRatingDataPoint
	BaselineCharacteristics []model.BaselineCharacteristicDataPoint
	ArmDetails              []model.ArmDetailDataPoint
	OutcomeDetails          []model.OutcomeDetailDataPoint
}

func (d Data) clone() Data {
	return Data{
		Studies:                 append([]model.Study(nil), d.Studies...),
		Publications:            append([]model.PrimaryPublication(nil), d.Publications...),
		PublicationNumbers:      append([]model.PublicationNumber(nil), d.PublicationNumbers...),
		KeyQuestions:            append([]model.StudyKeyQuestion(nil), d.KeyQuestions...),
		ExtractionForms:         append([]model.StudyExtractionForm(nil), d.ExtractionForms...),
		Arms:                    append([]model.Arm(nil), d.Arms...),
		Outcomes:                append([]model.Outcome(nil), d.Outcomes...),
		Timepoints:              append([]model.OutcomeTimepoint(nil), d.Timepoints...),
		Subgroups:               append([]model.OutcomeSubgroup(nil), d.Subgroups...),
		DataEntries:             append([]model.OutcomeDataEntry(nil), d.DataEntries...),
		Measures:                append([]model.OutcomeMeasure(nil), d.Measures...),
		DataPoints:              append([]model.OutcomeDataPoint(nil), d.DataPoints...),
		Comparisons:             append([]model.Comparison(nil), d.Comparisons...),
		ComparisonMeasures:      append([]model.ComparisonMeasure(nil), d.ComparisonMeasures...),
		Comparators:             append([]model.Comparator(nil), d.Comparators...),
		ComparisonDataPoints:    append([]model.ComparisonDataPoint(nil), d.ComparisonDataPoints...),
		DesignDetails:           append([]model.DesignDetailDataPoint(nil), d.DesignDetails...),
		QualityDimensions:       append([]model.QualityDimensionDataPoint(nil), d.QualityDimensions...),
		QualityRatings:          append([]model.QualityRatingDataPoint(nil), d.QualityRatings...),
		BaselineCharacteristics: append([]model.BaselineCharacteristicDataPoint(nil), d.BaselineCharacteristics...),
		ArmDetails:              append([]model.ArmDetailDataPoint(nil), d.ArmDetails...),
		OutcomeDetails:          append([]model.OutcomeDetailDataPoint(nil), d.OutcomeDetails...),
	}
}

// Memory is an in-process Store. Transactions are serialized; Rollback
// restores the state captured by Begin.
type Memory struct {
	mu     sync.Mutex
	data   Data
	nextID int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Begin starts a transaction, blocking until any open one finishes.
func (m *Memory) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	return &memTx{m: m, before: m.data.clone(), beforeID: m.nextID}, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Snapshot returns a copy of the committed contents.
func (m *Memory) Snapshot() Data {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.clone()
}

type memTx struct {
	m        *Memory
	before   Data
	beforeID int64
	done     bool
}

func (tx *memTx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true
	tx.m.mu.Unlock()
	return nil
}

// Rollback discards the transaction's writes. It is a no-op after Commit so
// it can be deferred.
func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.m.data = tx.before
	tx.m.nextID = tx.beforeID
	tx.m.mu.Unlock()
	return nil
}

func (tx *memTx) id() (int64, error) {
	if tx.done {
		return 0, ErrTxDone
	}
	tx.m.nextID++
	return tx.m.nextID, nil
}

func (tx *memTx) CreateStudy(_ context.Context, s *model.Study) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	s.ID = id
	tx.m.data.Studies = append(tx.m.data.Studies, *s)
	return nil
}

func (tx *memTx) CreatePrimaryPublication(_ context.Context, p *model.PrimaryPublication) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	p.ID = id
	tx.m.data.Publications = append(tx.m.data.Publications, *p)
	return nil
}

func (tx *memTx) UpdateTrialTitle(_ context.Context, publicationID int64, title string) error {
	if tx.done {
		return ErrTxDone
	}
	for i := range tx.m.data.Publications {
		if tx.m.data.Publications[i].ID == publicationID {
			tx.m.data.Publications[i].TrialTitle = title
			return nil
		}
	}
	return ErrNotFound
}

func (tx *memTx) CreatePublicationNumber(_ context.Context, n *model.PublicationNumber) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	n.ID = id
	tx.m.data.PublicationNumbers = append(tx.m.data.PublicationNumbers, *n)
	return nil
}

func (tx *memTx) CreateStudyKeyQuestion(_ context.Context, kq *model.StudyKeyQuestion) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	kq.ID = id
	tx.m.data.KeyQuestions = append(tx.m.data.KeyQuestions, *kq)
	return nil
}

func (tx *memTx) CreateStudyExtractionForm(_ context.Context, ef *model.StudyExtractionForm) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	ef.ID = id
	tx.m.data.ExtractionForms = append(tx.m.data.ExtractionForms, *ef)
	return nil
}

func (tx *memTx) CreateArm(_ context.Context, a *model.Arm) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	a.ID = id
	tx.m.data.Arms = append(tx.m.data.Arms, *a)
	return nil
}

func (tx *memTx) ListArms(_ context.Context, studyID int64) ([]model.Arm, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	var arms []model.Arm
	for _, a := range tx.m.data.Arms {
		if a.StudyID == studyID {
			arms = append(arms, a)
		}
	}
	sortArms(arms)
	return arms, nil
}

func (tx *memTx) CreateOutcome(_ context.Context, o *model.Outcome) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	o.ID = id
	tx.m.data.Outcomes = append(tx.m.data.Outcomes, *o)
	return nil
}

func (tx *memTx) UpdateOutcome(_ context.Context, o *model.Outcome) error {
	if tx.done {
		return ErrTxDone
	}
	for i := range tx.m.data.Outcomes {
		if tx.m.data.Outcomes[i].ID == o.ID {
			tx.m.data.Outcomes[i] = *o
			return nil
		}
	}
	return ErrNotFound
}

func (tx *memTx) ListOutcomes(_ context.Context, studyID int64) ([]model.Outcome, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	var outcomes []model.Outcome
	for _, o := range tx.m.data.Outcomes {
		if o.StudyID == studyID {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes, nil
}

func (tx *memTx) CreateOutcomeTimepoint(_ context.Context, tp *model.OutcomeTimepoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	tp.ID = id
	tx.m.data.Timepoints = append(tx.m.data.Timepoints, *tp)
	return nil
}

func (tx *memTx) LastOutcomeTimepoint(_ context.Context, outcomeID int64) (model.OutcomeTimepoint, error) {
	if tx.done {
		return model.OutcomeTimepoint{}, ErrTxDone
	}
	for i := len(tx.m.data.Timepoints) - 1; i >= 0; i-- {
		if tp := tx.m.data.Timepoints[i]; tp.OutcomeID == outcomeID {
			return tp, nil
		}
	}
	return model.OutcomeTimepoint{}, ErrNotFound
}

func (tx *memTx) CreateOutcomeSubgroup(_ context.Context, sg *model.OutcomeSubgroup) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	sg.ID = id
	tx.m.data.Subgroups = append(tx.m.data.Subgroups, *sg)
	return nil
}

func (tx *memTx) CreateOutcomeDataEntry(_ context.Context, e *model.OutcomeDataEntry) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	n := 0
	for _, other := range tx.m.data.DataEntries {
		if other.OutcomeID == e.OutcomeID && other.TimepointID == e.TimepointID &&
			other.SubgroupID == e.SubgroupID && other.StudyID == e.StudyID {
			n++
		}
	}
	e.ID = id
	e.DisplayNumber = n + 1
	tx.m.data.DataEntries = append(tx.m.data.DataEntries, *e)
	return nil
}

func (tx *memTx) CreateOutcomeMeasure(_ context.Context, om *model.OutcomeMeasure) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	om.ID = id
	tx.m.data.Measures = append(tx.m.data.Measures, *om)
	return nil
}

func (tx *memTx) CreateOutcomeDataPoint(_ context.Context, dp *model.OutcomeDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.DataPoints = append(tx.m.data.DataPoints, *dp)
	return nil
}

func (tx *memTx) CreateComparison(_ context.Context, c *model.Comparison) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	c.ID = id
	tx.m.data.Comparisons = append(tx.m.data.Comparisons, *c)
	return nil
}

func (tx *memTx) CreateComparisonMeasure(_ context.Context, cm *model.ComparisonMeasure) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	cm.ID = id
	tx.m.data.ComparisonMeasures = append(tx.m.data.ComparisonMeasures, *cm)
	return nil
}

func (tx *memTx) CreateComparator(_ context.Context, c *model.Comparator) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	c.ID = id
	tx.m.data.Comparators = append(tx.m.data.Comparators, *c)
	return nil
}

func (tx *memTx) CreateComparisonDataPoint(_ context.Context, dp *model.ComparisonDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.ComparisonDataPoints = append(tx.m.data.ComparisonDataPoints, *dp)
	return nil
}

func (tx *memTx) CreateDesignDetailDataPoint(_ context.Context, dp *model.DesignDetailDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.DesignDetails = append(tx.m.data.DesignDetails, *dp)
	return nil
}

func (tx *memTx) CreateQualityDimensionDataPoint(_ context.Context, dp *model.QualityDimensionDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.QualityDimensions = append(tx.m.data.QualityDimensions, *dp)
	return nil
}

func (tx *memTx) CreateQualityRatingDataPoint(_ context.Context, dp *model.QualityRatingDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.QualityRatings = append(tx.m.data.QualityRatings, *dp)
	return nil
}

func (tx *memTx) CreateBaselineCharacteristicDataPoint(_ context.Context, dp *model.BaselineCharacteristicDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.BaselineCharacteristics = append(tx.m.data.BaselineCharacteristics, *dp)
	return nil
}

func (tx *memTx) CreateArmDetailDataPoint(_ context.Context, dp *model.ArmDetailDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.ArmDetails = append(tx.m.data.ArmDetails, *dp)
	return nil
}

func (tx *memTx) CreateOutcomeDetailDataPoint(_ context.Context, dp *model.OutcomeDetailDataPoint) error {
	id, err := tx.id()
	if err != nil {
		return err
	}
	dp.ID = id
	tx.m.data.OutcomeDetails = append(tx.m.data.OutcomeDetails, *dp)
	return nil
}

func sortArms(arms []model.Arm) {
	sort.SliceStable(arms, func(i, j int) bool {
		if arms[i].DisplayNumber != arms[j].DisplayNumber {
			return arms[i].DisplayNumber < arms[j].DisplayNumber
		}
		return arms[i].ID < arms[j].ID
	})
}
