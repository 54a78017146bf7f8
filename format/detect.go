// Package format recognizes report files and expands batch inputs.
package format

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Format represents an input file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML report export.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	if f == HTML {
		return ".html"
	}
	return ""
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes for an HTML signature. Exports
// saved by word processors keep an HTML body under other extensions.
func DetectFromMagic(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(data) == 0 {
		return Unknown
	}

	upper := strings.ToUpper(string(data[:min(512, len(data))]))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"),
		strings.HasPrefix(upper, "<HTML"):
		return HTML
	case strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML"):
		return HTML
	}
	return Unknown
}

// DetectFile determines the format of a file by extension, falling back to
// its leading bytes.
func DetectFile(path string) (Format, error) {
	if f := Detect(path); f != Unknown {
		return f, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return Unknown, eris.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, eris.Wrapf(err, "reading %s", path)
	}
	return DetectFromMagic(head[:n]), nil
}

// Inputs expands paths into the list of report files to import. Files are
// kept as given; directories contribute their HTML files (not recursing) in
// lexical order.
func Inputs(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, eris.Wrapf(err, "reading input %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, eris.Wrapf(err, "listing %s", p)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			full := filepath.Join(p, e.Name())
			f, err := DetectFile(full)
			if err != nil {
				return nil, err
			}
			if f == HTML {
				found = append(found, full)
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
