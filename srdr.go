// Package srdr imports exported study reports into a systematic-review
// study graph.
//
// Basic usage:
//
//	st := store.NewMemory()
//	result, err := srdr.Open("report.html").Import(ctx, st)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(result.StudyID)
//
// With options:
//
//	result, err := srdr.Open("report.html").
//	    ProjectID(135).
//	    Catalog(cat).
//	    FatalLog("fatal_errors.txt").
//	    MatchingLog("matching_issues.txt").
//	    Import(ctx, st)
//
// Each report is written inside one store transaction. A report that fails
// leaves nothing behind and is reported as a [*DocumentError].
//
// The lower-level htmldoc, tables and sections packages are also available.
package srdr

import (
	"io"

	"github.com/google/uuid"
)

// Open returns an Importer for one HTML report.
//
// Example:
//
//	result, err := srdr.Open("report.html").Import(ctx, st)
func Open(filename string) *Importer {
	return &Importer{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns an Importer that parses the report from r. The name is
// used in logs and error messages in place of a filename. r is read in full
// on first use and the bytes are shared by every Importer derived from this
// one.
//
// Example:
//
//	f, _ := os.Open("report.html")
//	defer f.Close()
//	result, err := srdr.FromReader("report.html", f).Import(ctx, st)
func FromReader(name string, r io.Reader) *Importer {
	return &Importer{
		filename: name,
		source:   &source{r: r},
		options:  defaultOptions(),
	}
}

// NewRunID returns a fresh identifier for a batch run.
func NewRunID() string {
	return uuid.NewString()
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	a := srdr.Must(srdr.Open("report.html").Analyze())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
