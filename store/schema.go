package store

import "fmt"

// tables lists each table's columns after the id column.
var tables = []struct {
	name    string
	columns string
}{
	{"studies", "project_id BIGINT NOT NULL, creator_id BIGINT NOT NULL"},
	{"primary_publications", "study_id BIGINT NOT NULL, pmid TEXT, trial_title TEXT"},
	{"primary_publication_numbers", "primary_publication_id BIGINT NOT NULL, number TEXT, number_type TEXT"},
	{"study_key_questions", "study_id BIGINT NOT NULL, key_question_id BIGINT NOT NULL, extraction_form_id BIGINT NOT NULL"},
	{"study_extraction_forms", "study_id BIGINT NOT NULL, extraction_form_id BIGINT NOT NULL"},
	{"arms", "study_id BIGINT NOT NULL, title TEXT, description TEXT, display_number INTEGER NOT NULL, extraction_form_id BIGINT NOT NULL"},
	{"outcomes", "study_id BIGINT NOT NULL, title TEXT, units TEXT, description TEXT, notes TEXT, outcome_type TEXT, is_primary INTEGER NOT NULL DEFAULT 1, extraction_form_id BIGINT NOT NULL"},
	{"outcome_timepoints", "outcome_id BIGINT NOT NULL, number TEXT, time_unit TEXT"},
	{"outcome_subgroups", "outcome_id BIGINT NOT NULL, title TEXT, description TEXT"},
	{"outcome_data_entries", "outcome_id BIGINT NOT NULL, timepoint_id BIGINT NOT NULL, subgroup_id BIGINT NOT NULL, study_id BIGINT NOT NULL, extraction_form_id BIGINT NOT NULL, display_number INTEGER NOT NULL"},
	{"outcome_measures", "outcome_data_entry_id BIGINT NOT NULL, title TEXT, unit TEXT, measure_type INTEGER NOT NULL DEFAULT 0"},
	{"outcome_data_points", "outcome_measure_id BIGINT NOT NULL, arm_id BIGINT NOT NULL, value TEXT, footnote TEXT"},
	{"comparisons", "within_or_between TEXT, study_id BIGINT NOT NULL, extraction_form_id BIGINT NOT NULL, outcome_id BIGINT NOT NULL, group_id BIGINT NOT NULL, subgroup_id BIGINT NOT NULL"},
	{"comparison_measures", "comparison_id BIGINT NOT NULL, title TEXT, measure_type INTEGER NOT NULL DEFAULT 1"},
	{"comparators", "comparison_id BIGINT NOT NULL, comparator TEXT"},
	{"comparison_data_points", "comparison_measure_id BIGINT NOT NULL, comparator_id BIGINT NOT NULL, arm_id BIGINT NOT NULL, value TEXT, footnote TEXT"},
	{"quality_rating_data_points", "study_id BIGINT NOT NULL, guideline_used TEXT, current_overall_rating TEXT, notes TEXT, extraction_form_id BIGINT NOT NULL"},
}

// detailTables holds the detail data point families, which share a layout
// and differ only in the name of their field column.
var detailTables = []struct {
	name     string
	fieldCol string
}{
	{"design_detail_data_points", "design_detail_field_id"},
	{"quality_dimension_data_points", "quality_dimension_field_id"},
	{"baseline_characteristic_data_points", "baseline_characteristic_field_id"},
	{"arm_detail_data_points", "arm_detail_field_id"},
	{"outcome_detail_data_points", "outcome_detail_field_id"},
}

const detailColumns = "%s BIGINT NOT NULL, value TEXT, notes TEXT, study_id BIGINT NOT NULL, extraction_form_id BIGINT NOT NULL, " +
	"row_field_id BIGINT NOT NULL DEFAULT 0, column_field_id BIGINT NOT NULL DEFAULT 0, arm_id BIGINT NOT NULL DEFAULT 0, outcome_id BIGINT NOT NULL DEFAULT 0"

// schema returns the CREATE TABLE statements for the dialect.
func schema(d Dialect) []string {
	stmts := make([]string, 0, len(tables)+len(detailTables))
	for _, t := range tables {
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s, %s)", t.name, d.idColumn(), t.columns))
	}
	for _, t := range detailTables {
		cols := fmt.Sprintf(detailColumns, t.fieldCol)
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s, %s)", t.name, d.idColumn(), cols))
	}
	return stmts
}
