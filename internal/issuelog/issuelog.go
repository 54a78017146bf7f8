// Package issuelog appends tab-separated lines to side logs that several
// importer processes may share.
package issuelog

import (
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

// Log is an append-only line log guarded by an advisory file lock.
type Log struct {
	path     string
	fileLock *flock.Flock
	mu       sync.Mutex
}

// New returns a log writing to path. The file is created on first append.
func New(path string) *Log {
	return &Log{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one line made of fields joined by tabs. Tabs and newlines
// inside a field are replaced by spaces.
func (l *Log) Append(fields ...string) error {
	clean := make([]string, len(fields))
	for i, f := range fields {
		clean[i] = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(f)
	}
	line := strings.Join(clean, "\t") + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fileLock.Lock(); err != nil {
		return eris.Wrapf(err, "locking %s", l.path)
	}
	defer func() { _ = l.fileLock.Unlock() }()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "opening %s", l.path)
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "appending to %s", l.path)
	}
	return eris.Wrapf(f.Close(), "closing %s", l.path)
}

// Recorder records unmatched outcome titles for one source file.
type Recorder struct {
	log  *Log
	file string
}

// For returns a recorder that prefixes each line with file.
func (l *Log) For(file string) *Recorder {
	return &Recorder{log: l, file: file}
}

// Unmatched appends "file<TAB>title".
func (r *Recorder) Unmatched(title string) error {
	return r.log.Append(r.file, title)
}

// Pending holds unmatched outcome titles until Flush writes them. Titles
// recorded for a document that is rolled back are dropped with it.
type Pending struct {
	rec    *Recorder
	titles []string
}

// Pending returns an empty buffer in front of r.
func (r *Recorder) Pending() *Pending {
	return &Pending{rec: r}
}

// Unmatched buffers title.
func (p *Pending) Unmatched(title string) error {
	p.titles = append(p.titles, title)
	return nil
}

// Flush writes the buffered titles in the order they were recorded.
func (p *Pending) Flush() error {
	titles := p.titles
	p.titles = nil
	for _, title := range titles {
		if err := p.rec.Unmatched(title); err != nil {
			return err
		}
	}
	return nil
}
