// Package document implements the live text buffer the engine reads
// lines from and writes line replacements to.
//
// Positions are 0-based. Columns are counted in characters (runes), not
// bytes, so that ranges map directly onto what an editor displays.
package document

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Document is an in-memory line buffer. Every mutation bumps Version so
// that positions computed against an older version can be detected.
type Document struct {
	mu      sync.RWMutex
	path    string
	lines   []string
	crlf    bool
	version int
}

// New creates a document from text. Lines are split on '\n'; a trailing
// '\r' on every line is treated as CRLF and restored by Text.
func New(text string) *Document {
	d := &Document{}
	d.setText(text)
	return d
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d := New(string(data))
	d.path = path
	return d, nil
}

func (d *Document) setText(text string) {
	d.crlf = strings.Contains(text, "\r\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	d.lines = lines
	d.version++
}

// Save writes the document back to path (or to the path it was loaded
// from when path is empty).
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.Path()
	}
	if path == "" {
		return fmt.Errorf("document has no path")
	}
	if err := os.WriteFile(path, []byte(d.Text()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Version returns the current edit version.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the text of line i without its terminator.
func (d *Document) Line(i int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return "", false
	}
	return d.lines[i], true
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Text returns the full document text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sep := "\n"
	if d.crlf {
		sep = "\r\n"
	}
	return strings.Join(d.lines, sep)
}

// ReplaceLine replaces the text of line i.
func (d *Document) ReplaceLine(i int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("line %d out of range (document has %d lines)", i+1, len(d.lines))
	}
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("replacement for line %d contains a line break", i+1)
	}
	d.lines[i] = text
	d.version++
	return nil
}

// ---------------------------------------------------------------------------
// Column helpers
// ---------------------------------------------------------------------------

// RuneLen returns the length of s in characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// FirstNonWhitespace returns the column of the first non-whitespace
// character of line, or the line length for blank lines.
func FirstNonWhitespace(line string) int {
	col := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return col
}

// ByteToColumn converts a byte offset within s to a character column.
func ByteToColumn(s string, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(s) {
		off = len(s)
	}
	return utf8.RuneCountInString(s[:off])
}
