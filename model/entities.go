package model

// Study is the root record for one imported report.
type Study struct {
	ID        int64
	ProjectID int64
	CreatorID int64
}

// PrimaryPublication links a study to its external publication identifier.
type PrimaryPublication struct {
	ID         int64
	StudyID    int64
	PMID       string
	TrialTitle string
}

// PublicationNumber records an additional identifier for a publication.
type PublicationNumber struct {
	ID                   int64
	PrimaryPublicationID int64
	Number               string
	NumberType           string
}

// StudyKeyQuestion associates a study with a key question.
type StudyKeyQuestion struct {
	ID               int64
	StudyID          int64
	KeyQuestionID    int64
	ExtractionFormID int64
}

// StudyExtractionForm associates a study with an extraction form.
type StudyExtractionForm struct {
	ID               int64
	StudyID          int64
	ExtractionFormID int64
}

// Arm is a treatment or exposure group.
type Arm struct {
	ID               int64
	StudyID          int64
	Title            string
	Description      string
	DisplayNumber    int
	ExtractionFormID int64
}

// Outcome is a measured endpoint.
type Outcome struct {
	ID               int64
	StudyID          int64
	Title            string
	Units            string
	Description      string
	Notes            string
	OutcomeType      string
	IsPrimary        bool
	ExtractionFormID int64
}

// OutcomeTimepoint is a reporting time for an outcome.
type OutcomeTimepoint struct {
	ID        int64
	OutcomeID int64
	Number    string
	TimeUnit  string
}

// OutcomeSubgroup is a named subdivision of an outcome's reporting.
type OutcomeSubgroup struct {
	ID          int64
	OutcomeID   int64
	Title       string
	Description string
}

// OutcomeDataEntry groups the measures reported for one
// (outcome, timepoint, subgroup) combination.
type OutcomeDataEntry struct {
	ID               int64
	OutcomeID        int64
	TimepointID      int64
	SubgroupID       int64
	StudyID          int64
	ExtractionFormID int64
	DisplayNumber    int
}

// OutcomeMeasure is one named measure within a data entry.
type OutcomeMeasure struct {
	ID                 int64
	OutcomeDataEntryID int64
	Title              string
	Unit               string
	MeasureType        int
}

// OutcomeDataPoint is the value of a measure for one arm.
type OutcomeDataPoint struct {
	ID               int64
	OutcomeMeasureID int64
	ArmID            int64
	Value            string
	Footnote         string
}

// Comparison is a between-arm contrast for one outcome.
type Comparison struct {
	ID               int64
	WithinOrBetween  string
	StudyID          int64
	ExtractionFormID int64
	OutcomeID        int64
	GroupID          int64
	SubgroupID       int64
}

// ComparisonMeasure is one statistic reported for a comparison.
type ComparisonMeasure struct {
	ID           int64
	ComparisonID int64
	Title        string
	MeasureType  int
}

// Comparator identifies the arm pair a comparison applies to, encoded as
// "armA_armB" using arm ids.
type Comparator struct {
	ID           int64
	ComparisonID int64
	Comparator   string
}

// ComparisonDataPoint is the value of one comparison measure for one
// comparator.
type ComparisonDataPoint struct {
	ID                  int64
	ComparisonMeasureID int64
	ComparatorID        int64
	ArmID               int64
	Value               string
	Footnote            string
}

// DetailPoint carries the fields shared by the detail data point families.
type DetailPoint struct {
	ID               int64
	FieldID          int64
	Value            string
	Notes            string
	StudyID          int64
	ExtractionFormID int64
	RowFieldID       int64
	ColumnFieldID    int64
	ArmID            int64
	OutcomeID        int64
}

// DesignDetailDataPoint is a study-design answer.
type DesignDetailDataPoint struct{ DetailPoint }

// QualityDimensionDataPoint is a quality-assessment answer.
type QualityDimensionDataPoint struct{ DetailPoint }

// BaselineCharacteristicDataPoint is a population characteristic.
type BaselineCharacteristicDataPoint struct{ DetailPoint }

// ArmDetailDataPoint is a per-arm intervention detail.
type ArmDetailDataPoint struct{ DetailPoint }

// OutcomeDetailDataPoint is a per-outcome detail or confounder cell.
type OutcomeDetailDataPoint struct{ DetailPoint }

// QualityRatingDataPoint is the overall quality grade for a study.
type QualityRatingDataPoint struct {
	ID                   int64
	StudyID              int64
	GuidelineUsed        string
	CurrentOverallRating string
	Notes                string
	ExtractionFormID     int64
}

// Outcome types recorded on Outcome.OutcomeType.
const (
	OutcomeContinuous  = "Continuous"
	OutcomeCategorical = "Categorical"
)
