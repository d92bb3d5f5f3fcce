package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a 0-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Selection is the user's selection. Start and End may be given in any
// order.
type Selection struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Region is an inclusive 0-based line span.
type Region struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Span returns the number of lines covered by the region.
func (r Region) Span() int {
	return r.End - r.Start + 1
}

// OneBased returns the inclusive 1-based bounds of the region.
func (r Region) OneBased() (start, end int) {
	return r.Start + 1, r.End + 1
}

// Contains reports whether line lies inside the region.
func (r Region) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

func (r Region) String() string {
	s, e := r.OneBased()
	return fmt.Sprintf("%d-%d", s, e)
}

// Whole returns the region covering the whole document.
func Whole(d *Document) Region {
	n := d.LineCount()
	if n == 0 {
		return Region{}
	}
	return Region{Start: 0, End: n - 1}
}

// TargetRegion returns the region an analysis should cover. A nil,
// zero-length or whitespace-only selection falls back to the whole
// document.
func TargetRegion(d *Document, sel *Selection) (Region, bool) {
	whole := Whole(d)
	if sel == nil {
		return whole, false
	}
	start, end := sel.Start, sel.End
	if end.Line < start.Line || (end.Line == start.Line && end.Column < start.Column) {
		start, end = end, start
	}
	if start == end {
		return whole, false
	}
	if strings.TrimSpace(selectedText(d, start, end)) == "" {
		return whole, false
	}

	r := Region{Start: start.Line, End: end.Line}
	// A selection ending at column 0 of a line does not include that line.
	if end.Column == 0 && end.Line > start.Line {
		r.End--
	}
	if r.Start < whole.Start {
		r.Start = whole.Start
	}
	if r.End > whole.End {
		r.End = whole.End
	}
	return r, true
}

func selectedText(d *Document, start, end Position) string {
	var b strings.Builder
	for i := start.Line; i <= end.Line; i++ {
		line, ok := d.Line(i)
		if !ok {
			break
		}
		runes := []rune(line)
		from, to := 0, len(runes)
		if i == start.Line {
			from = clamp(start.Column, 0, len(runes))
		}
		if i == end.Line {
			to = clamp(end.Column, from, len(runes))
		}
		b.WriteString(string(runes[from:to]))
		if i != end.Line {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLines parses a 1-based inclusive "a-b" (or single "a") line range
// as given on the command line and returns the matching selection.
func ParseLines(text string) (*Selection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	from, to, found := strings.Cut(text, "-")
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return nil, fmt.Errorf("invalid line range %q: %w", text, err)
	}
	end := start
	if found {
		end, err = strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid line range %q: %w", text, err)
		}
	}
	if start < 1 || end < start {
		return nil, fmt.Errorf("invalid line range %q", text)
	}
	// Select through the start of the line after End, like an editor's
	// full-line selection.
	return &Selection{
		Start: Position{Line: start - 1},
		End:   Position{Line: end},
	}, nil
}
