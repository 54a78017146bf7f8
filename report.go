package srdr

import (
	"errors"

	"github.com/jensjap/SRDR-ImportProject2/htmldoc"
	"github.com/jensjap/SRDR-ImportProject2/tables"
)

// Result describes what one successful import created.
type Result struct {
	File          string
	Identifier    string
	StudyID       int64
	PublicationID int64

	// Sections
	QualityInterventional bool
	QualityCohort         bool
	Arms                  int
	Outcomes              int

	// Results tables, summed over all buckets
	Tables tables.Stats
}

// Report collects the results of a batch run.
type Report struct {
	RunID    string
	Results  []*Result
	Failures []*DocumentError
}

// add records one import. Errors that are not a DocumentError are wrapped
// in one for file.
func (r *Report) add(file string, res *Result, err error) {
	if err == nil {
		r.Results = append(r.Results, res)
		return
	}
	var de *DocumentError
	if !errors.As(err, &de) {
		de = &DocumentError{File: file, Err: err}
	}
	r.Failures = append(r.Failures, de)
}

// Failed reports whether any document in the run failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// RegionInfo describes one located region.
type RegionInfo struct {
	Name  htmldoc.RegionName
	Found bool
	Rows  int
}

// BucketInfo describes one results bucket.
type BucketInfo struct {
	Bucket tables.Bucket
	Tables int
	Rows   int
}

// Analysis is a read-only view of how a report would be imported.
type Analysis struct {
	File       string
	Title      string
	Identifier string
	Regions    []RegionInfo
	Buckets    []BucketInfo
}

// Importable reports whether the report carries an identifier.
func (a *Analysis) Importable() bool {
	return a.Identifier != ""
}
