// Package model defines the values passed between the importer's stages.
//
// # Grids
//
// A [Grid] is the normalized row/column view of one report table. Rows are
// ragged, so every read goes through [Grid.Cell], which returns "" for a
// position the table does not have:
//
//	g := model.NewGrid(
//	    []string{"UI", "Study"},
//	    []string{"12345"},
//	)
//	g.Cell(1, 0) // "12345"
//	g.Cell(1, 1) // ""
//	g.Cell(9, 9) // ""
//
// [Grid.Data] skips header rows, and [Grid.Blank] tests a cell for content.
//
// # Entities
//
// The remaining types mirror the records the importer creates for one
// study:
//
//   - [Study], [PrimaryPublication], [PublicationNumber]
//   - [StudyKeyQuestion], [StudyExtractionForm]
//   - [Arm], [Outcome], [OutcomeTimepoint], [OutcomeSubgroup]
//   - [OutcomeDataEntry], [OutcomeMeasure], [OutcomeDataPoint]
//   - [Comparison], [ComparisonMeasure], [Comparator], [ComparisonDataPoint]
//   - the detail data points, which share [DetailPoint]
//   - [QualityRatingDataPoint]
//
// IDs are assigned by the store when a record is created.
package model
