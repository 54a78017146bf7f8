package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

// SQL is a Store backed by database/sql.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL connects to the database named by driver and dsn and creates any
// missing tables. An sqlite dsn without options gets foreign keys and a busy
// timeout.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite && !strings.Contains(dsn, "?") {
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn)
	}

	db, err := sql.Open(dialect.String(), dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s database", dialect)
	}
	db.SetConnMaxLifetime(time.Minute * 5)
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQL{db: db, dialect: dialect}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates any missing tables.
func (s *SQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrap(err, "run migration")
		}
	}
	return nil
}

// Close releases all database resources.
func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin starts a database transaction.
func (s *SQL) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "begin transaction")
	}
	return &sqlTx{tx: tx, dialect: s.dialect}, nil
}

type sqlTx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *sqlTx) Commit() error {
	return eris.Wrap(t.tx.Commit(), "commit transaction")
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *sqlTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return eris.Wrap(err, "rollback transaction")
	}
	return nil
}

func (t *sqlTx) insert(ctx context.Context, table string, cols []string, args ...any) (int64, error) {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), marks)

	if t.dialect == Postgres {
		var id int64
		err := t.tx.QueryRowContext(ctx, t.dialect.rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, eris.Wrapf(err, "insert into %s", table)
		}
		return id, nil
	}

	res, err := t.tx.ExecContext(ctx, t.dialect.rebind(query), args...)
	if err != nil {
		return 0, eris.Wrapf(err, "insert into %s", table)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrapf(err, "insert id for %s", table)
	}
	return id, nil
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, t.dialect.rebind(query), args...)
	return eris.Wrap(err, "exec")
}

func (t *sqlTx) CreateStudy(ctx context.Context, s *model.Study) error {
	id, err := t.insert(ctx, "studies", []string{"project_id", "creator_id"}, s.ProjectID, s.CreatorID)
	s.ID = id
	return err
}

func (t *sqlTx) CreatePrimaryPublication(ctx context.Context, p *model.PrimaryPublication) error {
	id, err := t.insert(ctx, "primary_publications",
		[]string{"study_id", "pmid", "trial_title"}, p.StudyID, p.PMID, p.TrialTitle)
	p.ID = id
	return err
}

func (t *sqlTx) UpdateTrialTitle(ctx context.Context, publicationID int64, title string) error {
	return t.exec(ctx, "UPDATE primary_publications SET trial_title = ? WHERE id = ?", title, publicationID)
}

func (t *sqlTx) CreatePublicationNumber(ctx context.Context, n *model.PublicationNumber) error {
	id, err := t.insert(ctx, "primary_publication_numbers",
		[]string{"primary_publication_id", "number", "number_type"}, n.PrimaryPublicationID, n.Number, n.NumberType)
	n.ID = id
	return err
}

func (t *sqlTx) CreateStudyKeyQuestion(ctx context.Context, kq *model.StudyKeyQuestion) error {
	id, err := t.insert(ctx, "study_key_questions",
		[]string{"study_id", "key_question_id", "extraction_form_id"}, kq.StudyID, kq.KeyQuestionID, kq.ExtractionFormID)
	kq.ID = id
	return err
}

func (t *sqlTx) CreateStudyExtractionForm(ctx context.Context, ef *model.StudyExtractionForm) error {
	id, err := t.insert(ctx, "study_extraction_forms",
		[]string{"study_id", "extraction_form_id"}, ef.StudyID, ef.ExtractionFormID)
	ef.ID = id
	return err
}

func (t *sqlTx) CreateArm(ctx context.Context, a *model.Arm) error {
	id, err := t.insert(ctx, "arms",
		[]string{"study_id", "title", "description", "display_number", "extraction_form_id"},
		a.StudyID, a.Title, a.Description, a.DisplayNumber, a.ExtractionFormID)
	a.ID = id
	return err
}

func (t *sqlTx) ListArms(ctx context.Context, studyID int64) ([]model.Arm, error) {
	rows, err := t.tx.QueryContext(ctx, t.dialect.rebind(
		`SELECT id, study_id, title, description, display_number, extraction_form_id
		 FROM arms WHERE study_id = ? ORDER BY display_number, id`), studyID)
	if err != nil {
		return nil, eris.Wrap(err, "list arms")
	}
	defer rows.Close()

	var arms []model.Arm
	for rows.Next() {
		var a model.Arm
		var title, desc sql.NullString
		if err := rows.Scan(&a.ID, &a.StudyID, &title, &desc, &a.DisplayNumber, &a.ExtractionFormID); err != nil {
			return nil, eris.Wrap(err, "scan arm")
		}
		a.Title, a.Description = title.String, desc.String
		arms = append(arms, a)
	}
	return arms, eris.Wrap(rows.Err(), "list arms")
}

func (t *sqlTx) CreateOutcome(ctx context.Context, o *model.Outcome) error {
	id, err := t.insert(ctx, "outcomes",
		[]string{"study_id", "title", "units", "description", "notes", "outcome_type", "is_primary", "extraction_form_id"},
		o.StudyID, o.Title, o.Units, o.Description, o.Notes, o.OutcomeType, boolInt(o.IsPrimary), o.ExtractionFormID)
	o.ID = id
	return err
}

func (t *sqlTx) UpdateOutcome(ctx context.Context, o *model.Outcome) error {
	return t.exec(ctx,
		`UPDATE outcomes SET title = ?, units = ?, description = ?, notes = ?, outcome_type = ?, is_primary = ? WHERE id = ?`,
		o.Title, o.Units, o.Description, o.Notes, o.OutcomeType, boolInt(o.IsPrimary), o.ID)
}

func (t *sqlTx) ListOutcomes(ctx context.Context, studyID int64) ([]model.Outcome, error) {
	rows, err := t.tx.QueryContext(ctx, t.dialect.rebind(
		`SELECT id, study_id, title, units, description, notes, outcome_type, is_primary, extraction_form_id
		 FROM outcomes WHERE study_id = ? ORDER BY id`), studyID)
	if err != nil {
		return nil, eris.Wrap(err, "list outcomes")
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		var o model.Outcome
		var title, units, desc, notes, typ sql.NullString
		var primary int
		if err := rows.Scan(&o.ID, &o.StudyID, &title, &units, &desc, &notes, &typ, &primary, &o.ExtractionFormID); err != nil {
			return nil, eris.Wrap(err, "scan outcome")
		}
		o.Title, o.Units, o.Description, o.Notes, o.OutcomeType = title.String, units.String, desc.String, notes.String, typ.String
		o.IsPrimary = primary != 0
		outcomes = append(outcomes, o)
	}
	return outcomes, eris.Wrap(rows.Err(), "list outcomes")
}

func (t *sqlTx) CreateOutcomeTimepoint(ctx context.Context, tp *model.OutcomeTimepoint) error {
	id, err := t.insert(ctx, "outcome_timepoints",
		[]string{"outcome_id", "number", "time_unit"}, tp.OutcomeID, tp.Number, tp.TimeUnit)
	tp.ID = id
	return err
}

func (t *sqlTx) LastOutcomeTimepoint(ctx context.Context, outcomeID int64) (model.OutcomeTimepoint, error) {
	var tp model.OutcomeTimepoint
	var number, unit sql.NullString
	err := t.tx.QueryRowContext(ctx, t.dialect.rebind(
		`SELECT id, outcome_id, number, time_unit FROM outcome_timepoints
		 WHERE outcome_id = ? ORDER BY id DESC LIMIT 1`), outcomeID).
		Scan(&tp.ID, &tp.OutcomeID, &number, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return tp, ErrNotFound
	}
	if err != nil {
		return tp, eris.Wrap(err, "last outcome timepoint")
	}
	tp.Number, tp.TimeUnit = number.String, unit.String
	return tp, nil
}

func (t *sqlTx) CreateOutcomeSubgroup(ctx context.Context, sg *model.OutcomeSubgroup) error {
	id, err := t.insert(ctx, "outcome_subgroups",
		[]string{"outcome_id", "title", "description"}, sg.OutcomeID, sg.Title, sg.Description)
	sg.ID = id
	return err
}

func (t *sqlTx) CreateOutcomeDataEntry(ctx context.Context, e *model.OutcomeDataEntry) error {
	var n int
	err := t.tx.QueryRowContext(ctx, t.dialect.rebind(
		`SELECT COUNT(*) FROM outcome_data_entries
		 WHERE outcome_id = ? AND timepoint_id = ? AND subgroup_id = ? AND study_id = ?`),
		e.OutcomeID, e.TimepointID, e.SubgroupID, e.StudyID).Scan(&n)
	if err != nil {
		return eris.Wrap(err, "count outcome data entries")
	}
	e.DisplayNumber = n + 1

	id, err := t.insert(ctx, "outcome_data_entries",
		[]string{"outcome_id", "timepoint_id", "subgroup_id", "study_id", "extraction_form_id", "display_number"},
		e.OutcomeID, e.TimepointID, e.SubgroupID, e.StudyID, e.ExtractionFormID, e.DisplayNumber)
	e.ID = id
	return err
}

func (t *sqlTx) CreateOutcomeMeasure(ctx context.Context, m *model.OutcomeMeasure) error {
	id, err := t.insert(ctx, "outcome_measures",
		[]string{"outcome_data_entry_id", "title", "unit", "measure_type"}, m.OutcomeDataEntryID, m.Title, m.Unit, m.MeasureType)
	m.ID = id
	return err
}

func (t *sqlTx) CreateOutcomeDataPoint(ctx context.Context, dp *model.OutcomeDataPoint) error {
	id, err := t.insert(ctx, "outcome_data_points",
		[]string{"outcome_measure_id", "arm_id", "value", "footnote"}, dp.OutcomeMeasureID, dp.ArmID, dp.Value, dp.Footnote)
	dp.ID = id
	return err
}

func (t *sqlTx) CreateComparison(ctx context.Context, c *model.Comparison) error {
	id, err := t.insert(ctx, "comparisons",
		[]string{"within_or_between", "study_id", "extraction_form_id", "outcome_id", "group_id", "subgroup_id"},
		c.WithinOrBetween, c.StudyID, c.ExtractionFormID, c.OutcomeID, c.GroupID, c.SubgroupID)
	c.ID = id
	return err
}

func (t *sqlTx) CreateComparisonMeasure(ctx context.Context, m *model.ComparisonMeasure) error {
	id, err := t.insert(ctx, "comparison_measures",
		[]string{"comparison_id", "title", "measure_type"}, m.ComparisonID, m.Title, m.MeasureType)
	m.ID = id
	return err
}

func (t *sqlTx) CreateComparator(ctx context.Context, c *model.Comparator) error {
	id, err := t.insert(ctx, "comparators", []string{"comparison_id", "comparator"}, c.ComparisonID, c.Comparator)
	c.ID = id
	return err
}

func (t *sqlTx) CreateComparisonDataPoint(ctx context.Context, dp *model.ComparisonDataPoint) error {
	id, err := t.insert(ctx, "comparison_data_points",
		[]string{"comparison_measure_id", "comparator_id", "arm_id", "value", "footnote"},
		dp.ComparisonMeasureID, dp.ComparatorID, dp.ArmID, dp.Value, dp.Footnote)
	dp.ID = id
	return err
}

func (t *sqlTx) CreateQualityRatingDataPoint(ctx context.Context, dp *model.QualityRatingDataPoint) error {
	id, err := t.insert(ctx, "quality_rating_data_points",
		[]string{"study_id", "guideline_used", "current_overall_rating", "notes", "extraction_form_id"},
		dp.StudyID, dp.GuidelineUsed, dp.CurrentOverallRating, dp.Notes, dp.ExtractionFormID)
	dp.ID = id
	return err
}

func (t *sqlTx) createDetail(ctx context.Context, table, fieldCol string, dp *model.DetailPoint) error {
	id, err := t.insert(ctx, table,
		[]string{fieldCol, "value", "notes", "study_id", "extraction_form_id", "row_field_id", "column_field_id", "arm_id", "outcome_id"},
		dp.FieldID, dp.Value, dp.Notes, dp.StudyID, dp.ExtractionFormID, dp.RowFieldID, dp.ColumnFieldID, dp.ArmID, dp.OutcomeID)
	dp.ID = id
	return err
}

func (t *sqlTx) CreateDesignDetailDataPoint(ctx context.Context, dp *model.DesignDetailDataPoint) error {
	return t.createDetail(ctx, "design_detail_data_points", "design_detail_field_id", &dp.DetailPoint)
}

func (t *sqlTx) CreateQualityDimensionDataPoint(ctx context.Context, dp *model.QualityDimensionDataPoint) error {
	return t.createDetail(ctx, "quality_dimension_data_points", "quality_dimension_field_id", &dp.DetailPoint)
}

func (t *sqlTx) CreateBaselineCharacteristicDataPoint(ctx context.Context, dp *model.BaselineCharacteristicDataPoint) error {
	return t.createDetail(ctx, "baseline_characteristic_data_points", "baseline_characteristic_field_id", &dp.DetailPoint)
}

func (t *sqlTx) CreateArmDetailDataPoint(ctx context.Context, dp *model.ArmDetailDataPoint) error {
	return t.createDetail(ctx, "arm_detail_data_points", "arm_detail_field_id", &dp.DetailPoint)
}

func (t *sqlTx) CreateOutcomeDetailDataPoint(ctx context.Context, dp *model.OutcomeDetailDataPoint) error {
	return t.createDetail(ctx, "outcome_detail_data_points", "outcome_detail_field_id", &dp.DetailPoint)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
