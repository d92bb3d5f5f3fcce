// Package scanner is the line-oriented lexical style checker.
//
// Every line is checked independently against a fixed rule table; a line
// may match several categories at once. No state crosses lines, so the
// scan is split into chunks that run concurrently.
package scanner

import (
	"context"
	"regexp"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/issue"
)

// Category classifies a finding.
type Category int

const (
	LengthSevere Category = iota
	LengthMild
	FunctionIndent
	VariableNaming
	Comment
	TrailingWhitespace
)

var categoryNames = [...]string{
	LengthSevere:       "length-severe",
	LengthMild:         "length-mild",
	FunctionIndent:     "function-indent",
	VariableNaming:     "variable-naming",
	Comment:            "comment",
	TrailingWhitespace: "trailing-whitespace",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Finding is one rule hit.
type Finding struct {
	Category Category    `json:"category"`
	Line     int         `json:"line"` // 0-based
	Range    issue.Range `json:"range"`
	// Text is the comment body for Comment findings.
	Text string `json:"text,omitempty"`
}

// Rule pairs a pattern with the category it reports. Group selects the
// submatch whose span becomes the finding range (0 = whole match); for
// Comment rules the same group is the comment text.
type Rule struct {
	Category Category
	Pattern  *regexp.Regexp
	Group    int
	// All reports every match on the line instead of the first.
	All bool
	// Indented requires nonzero leading whitespace.
	Indented bool
}

// DefaultRules is the table evaluated for every line. Length rules are not
// regex based and live in Scanner.
var DefaultRules = []Rule{
	// Function declarations in common syntaxes.
	{Category: FunctionIndent, Indented: true, Pattern: regexp.MustCompile(`\bfunction\s*\*?\s*[A-Za-z_$][\w$]*\s*\(`)},
	{Category: FunctionIndent, Indented: true, Pattern: regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?[A-Za-z_]\w*\s*[\[(]`)},
	{Category: FunctionIndent, Indented: true, Pattern: regexp.MustCompile(`\b(?:async\s+)?def\s+[A-Za-z_]\w*\s*\(`)},
	{Category: FunctionIndent, Indented: true, Pattern: regexp.MustCompile(`\bfn\s+[A-Za-z_]\w*\s*[<(]`)},
	{Category: FunctionIndent, Indented: true, Pattern: regexp.MustCompile(`\b(?:const|let|var)\s+[A-Za-z_$][\w$]*\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>)`)},
	{Category: FunctionIndent, Indented: true, Pattern: regexp.MustCompile(`\b(?:public|private|protected|static)\s+(?:[\w<>\[\],]+\s+)+[A-Za-z_]\w*\s*\([^)]*\)\s*\{`)},

	// <keyword> <CapitalizedIdentifier>
	{Category: VariableNaming, All: true, Group: 1, Pattern: regexp.MustCompile(`\b(?:var|let|const|val)\s+([A-Z][\w$]*)`)},

	// Single-line and block comments.
	{Category: Comment, Group: 1, Pattern: regexp.MustCompile(`//\s*(\S.*?)\s*$`)},
	{Category: Comment, Group: 1, Pattern: regexp.MustCompile(`/\*+\s*(\S.*?)\s*\*+/`)},
	{Category: Comment, Group: 1, Pattern: regexp.MustCompile(`^\s*#\s*(\S.*?)\s*$`)},

	{Category: TrailingWhitespace, Pattern: regexp.MustCompile(` {2,}$`)},
}

// Options configures a Scanner.
type Options struct {
	// MildLength flags lines longer than this many characters (default 80).
	MildLength int
	// SevereLength flags lines longer than this many characters (default 100).
	SevereLength int
	// ChunkSize is the number of lines per concurrent task (default 256).
	ChunkSize int
	// Rules replaces DefaultRules.
	Rules []Rule
}

func (o *Options) effectiveMild() int {
	if o.MildLength > 0 {
		return o.MildLength
	}
	return 80
}

func (o *Options) effectiveSevere() int {
	if o.SevereLength > 0 {
		return o.SevereLength
	}
	return 100
}

func (o *Options) effectiveChunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return 256
}

// Scanner evaluates the rule table.
type Scanner struct {
	opts  Options
	rules []Rule
}

// New returns a scanner.
func New(opts Options) *Scanner {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules
	}
	return &Scanner{opts: opts, rules: rules}
}

// ScanLine returns the findings of one line.
func (s *Scanner) ScanLine(index int, line string) []Finding {
	var out []Finding

	// A line matches at most one length band.
	n := document.RuneLen(line)
	switch severe, mild := s.opts.effectiveSevere(), s.opts.effectiveMild(); {
	case n > severe:
		out = append(out, Finding{Category: LengthSevere, Line: index, Range: issue.Range{Start: severe, End: n}})
	case n > mild:
		out = append(out, Finding{Category: LengthMild, Line: index, Range: issue.Range{Start: mild, End: n}})
	}

	indented := document.FirstNonWhitespace(line) > 0
	seen := make(map[Category]bool)
	for _, r := range s.rules {
		if r.Indented && !indented {
			continue
		}
		// Non-All categories report once per line even when several
		// alternatives match.
		if !r.All && seen[r.Category] {
			continue
		}
		limit := 1
		if r.All {
			limit = -1
		}
		for _, m := range r.Pattern.FindAllStringSubmatchIndex(line, limit) {
			lo, hi := m[2*r.Group], m[2*r.Group+1]
			if lo < 0 {
				continue
			}
			f := Finding{
				Category: r.Category,
				Line:     index,
				Range:    issue.Range{Start: document.ByteToColumn(line, lo), End: document.ByteToColumn(line, hi)},
			}
			if r.Category == Comment {
				f.Text = line[lo:hi]
			}
			out = append(out, f)
			seen[r.Category] = true
		}
	}
	return out
}

// Result holds the findings of a scan ordered by line, then column.
type Result struct {
	Findings []Finding `json:"findings"`
}

// ByCategory returns the findings of one category.
func (r *Result) ByCategory(c Category) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of findings per category.
func (r *Result) Count() map[Category]int {
	counts := make(map[Category]int)
	for _, f := range r.Findings {
		counts[f.Category]++
	}
	return counts
}

// Scan checks all lines concurrently in chunks.
func (s *Scanner) Scan(ctx context.Context, lines []string) (*Result, error) {
	size := s.opts.effectiveChunkSize()
	chunks := (len(lines) + size - 1) / size
	parts := make([][]Finding, chunks)

	g, ctx := errgroup.WithContext(ctx)
	for c := 0; c < chunks; c++ {
		g.Go(func() error {
			lo := c * size
			hi := min(lo+size, len(lines))
			var found []Finding
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				found = append(found, s.ScanLine(i, lines[i])...)
			}
			parts[c] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, p := range parts {
		res.Findings = append(res.Findings, p...)
	}
	sort.SliceStable(res.Findings, func(i, j int) bool {
		a, b := res.Findings[i], res.Findings[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Range.Start < b.Range.Start
	})
	return res, nil
}
