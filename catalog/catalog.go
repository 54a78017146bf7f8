// Package catalog loads the field-catalog reference data the importer
// stamps onto detail data points.
//
// Field ids are deployment data: they identify the questions configured for
// each extraction form in the target database. The catalog is a YAML file;
// any section left empty is skipped at import time.
//
//	cat, err := catalog.Load("catalog.yaml")
//
// [Default] returns the forms, key questions and background matrix ids used
// by the vitamin D project, with every list-valued section empty.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/jensjap/SRDR-ImportProject2/fieldmap"
)

// Catalog is the full set of reference ids for one project.
type Catalog struct {
	Forms                        Forms              `yaml:"forms"`
	KeyQuestions                 KeyQuestions       `yaml:"key_questions"`
	QualityDimensionFields       QualityFields      `yaml:"quality_dimension_fields"`
	DesignDetailFields           []int64            `yaml:"design_detail_fields"`
	DesignMatrices               []Matrix           `yaml:"design_matrices"`
	BaselineCharacteristicFields []int64            `yaml:"baseline_characteristic_fields"`
	ArmDetailFields              []int64            `yaml:"arm_detail_fields"`
	OutcomeDetails               OutcomeDetails     `yaml:"outcome_details"`
	ConfounderMatrices           []ConfounderMatrix `yaml:"confounder_matrices"`
}

// Forms are the extraction form ids.
type Forms struct {
	Main                  int64 `yaml:"main"`
	QualityInterventional int64 `yaml:"quality_interventional"`
	QualityCohort         int64 `yaml:"quality_cohort"`
}

// KeyQuestions are the key question ids every study is attached to, plus
// the ones added when a quality table is present.
type KeyQuestions struct {
	Main                  []int64 `yaml:"main"`
	QualityInterventional int64   `yaml:"quality_interventional"`
	QualityCohort         int64   `yaml:"quality_cohort"`
}

// QualityFields are the quality dimension field ids in question order.
type QualityFields struct {
	Interventional []int64 `yaml:"interventional"`
	Cohort         []int64 `yaml:"cohort"`
}

// Matrix identifies one design detail matrix question: the question field,
// the row field, and one column field per answer.
type Matrix struct {
	Field        int64   `yaml:"field"`
	RowField     int64   `yaml:"row_field"`
	ColumnFields []int64 `yaml:"column_fields"`
}

// OutcomeDetails are the outcome detail question ids. Zero skips a question.
type OutcomeDetails struct {
	PrimarySecondary int64 `yaml:"primary_secondary"`
	Outcome          int64 `yaml:"outcome"`
	Definition       int64 `yaml:"definition"`
	Comments         int64 `yaml:"comments"`
}

// ConfounderMatrix is an outcome detail matrix filled from the confounders
// table for every outcome of the study.
type ConfounderMatrix struct {
	Field   int64   `yaml:"field"`
	Rows    []int64 `yaml:"rows"`
	Columns []int64 `yaml:"columns"`
}

// Default returns the built-in catalog: the form, key question and design
// matrix ids of the original project. Its field lists are empty, so the
// sections [Catalog.Disabled] names are skipped until a catalog file
// supplies them.
func Default() *Catalog {
	return &Catalog{
		Forms: Forms{
			Main:                  194,
			QualityInterventional: 190,
			QualityCohort:         193,
		},
		KeyQuestions: KeyQuestions{
			Main:                  []int64{356, 357, 358, 359, 360},
			QualityInterventional: 361,
			QualityCohort:         362,
		},
		DesignMatrices: []Matrix{
			{Field: 1927, RowField: 8678, ColumnFields: []int64{8683, 8684, 8685, 8686, 8687}},
			{Field: 1928, RowField: 8662, ColumnFields: []int64{8663, 8664, 8665, 8666, 8667, 8668, 8669}},
		},
	}
}

// Disabled returns the sections whose field lists are empty and will not be
// written.
func (c *Catalog) Disabled() []string {
	var off []string
	for _, s := range []struct {
		name  string
		empty bool
	}{
		{"quality_dimension_fields.interventional", len(c.QualityDimensionFields.Interventional) == 0},
		{"quality_dimension_fields.cohort", len(c.QualityDimensionFields.Cohort) == 0},
		{"design_detail_fields", len(c.DesignDetailFields) == 0},
		{"design_matrices", len(c.DesignMatrices) == 0},
		{"baseline_characteristic_fields", len(c.BaselineCharacteristicFields) == 0},
		{"arm_detail_fields", len(c.ArmDetailFields) == 0},
		{"outcome_details", c.OutcomeDetails == OutcomeDetails{}},
		{"confounder_matrices", len(c.ConfounderMatrices) == 0},
	} {
		if s.empty {
			off = append(off, s.name)
		}
	}
	return off
}

// Load reads a catalog file. Keys missing from the file keep their default
// values.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes a catalog from YAML and validates it.
func Parse(data []byte) (*Catalog, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, eris.Wrap(err, "decoding catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that each non-empty section carries enough ids for the
// table positions it will be applied to.
func (c *Catalog) Validate() error {
	if c.Forms.Main == 0 {
		return eris.New("catalog: forms.main is required")
	}
	if err := enough("quality_dimension_fields.interventional", c.QualityDimensionFields.Interventional,
		fieldmap.Needed(fieldmap.QualityInterventional)); err != nil {
		return err
	}
	if err := enough("quality_dimension_fields.cohort", c.QualityDimensionFields.Cohort,
		fieldmap.Needed(fieldmap.QualityCohort)); err != nil {
		return err
	}
	if err := enough("design_detail_fields", c.DesignDetailFields,
		fieldmap.Needed(fieldmap.DesignDetails)); err != nil {
		return err
	}
	if len(c.DesignMatrices) > len(fieldmap.BackgroundMatrices) {
		return eris.Errorf("catalog: %d design matrices configured, layout has %d",
			len(c.DesignMatrices), len(fieldmap.BackgroundMatrices))
	}
	for i, m := range c.DesignMatrices {
		if want := len(fieldmap.BackgroundMatrices[i].Cols); len(m.ColumnFields) != want {
			return eris.Errorf("catalog: design matrix %d has %d column fields, want %d", m.Field, len(m.ColumnFields), want)
		}
	}
	if len(c.ArmDetailFields) == 1 {
		return eris.New("catalog: arm_detail_fields needs at least two ids (co-interventions and compliance come last)")
	}
	return nil
}

func enough(name string, ids []int64, need int) error {
	if len(ids) > 0 && len(ids) < need {
		return eris.Errorf("catalog: %s has %d ids, want at least %d", name, len(ids), need)
	}
	return nil
}
