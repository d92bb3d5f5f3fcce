// Package issue defines the annotation units shared by the scanner,
// the review pipeline, the resolver and the renderer.
//
// An Issue is loosely positioned: it carries the line number claimed by
// whatever produced it and a snippet of code expected to appear on that
// line. An Annotation is an Issue bound to a verified line of a specific
// document version.
package issue

import "strings"

// ---------------------------------------------------------------------------
// Severity
// ---------------------------------------------------------------------------

// Severity is the importance tier of an issue. Higher values are more
// severe and are painted above lower ones.
type Severity uint8

const (
	// Suggestion is the lowest tier and the default for unknown labels.
	Suggestion Severity = iota
	// Warning is the middle tier.
	Warning
	// Critical is the highest tier and must stay visually dominant.
	Critical
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "Critical"
	case Warning:
		return "Warning"
	case Suggestion:
		return "Suggestion"
	}
	return "Suggestion"
}

// ParseSeverity maps a free-form label to a Severity. Matching is
// case-insensitive; anything unrecognized becomes Suggestion.
func ParseSeverity(label string) Severity {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "critical", "error", "high":
		return Critical
	case "warning", "warn", "medium":
		return Warning
	}
	return Suggestion
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseSeverity.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}

// Severities returns all tiers in painting order (lowest first), so
// that a consumer painting in this order leaves Critical on top.
func Severities() []Severity {
	return []Severity{Suggestion, Warning, Critical}
}

// ---------------------------------------------------------------------------
// Issue
// ---------------------------------------------------------------------------

// Origin tells which pass produced an issue.
type Origin string

const (
	// OriginAI marks issues parsed from a review response.
	OriginAI Origin = "ai"
	// OriginRule marks issues produced by the lexical scanner.
	OriginRule Origin = "rule"
)

// Issue is a single problem report before it is bound to the document.
type Issue struct {
	// ClaimedLine is the 1-based line reported by the producer. It may be
	// stale or off by a few lines.
	ClaimedLine int `json:"line"`
	// CodeSnippet is the text expected to match (a substring of) the line.
	CodeSnippet string `json:"codeSnippet"`
	// Description is the explanation in the primary language.
	Description string `json:"issue"`
	// TranslatedDescription is the explanation in the secondary language.
	// Empty means it has to be produced through the translation cache.
	TranslatedDescription string `json:"sinhalaIssue,omitempty"`
	Severity              Severity `json:"severity"`
	Origin                Origin   `json:"origin,omitempty"`
}

// ---------------------------------------------------------------------------
// Annotation
// ---------------------------------------------------------------------------

// Range is a half-open column span [Start, End) on one line, measured in
// characters (runes).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of columns covered.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Annotation is an Issue anchored to a concrete document position.
// LineIndex is only valid for DocVersion; annotations must be recomputed
// after the document changes.
type Annotation struct {
	Issue      Issue  `json:"issue"`
	LineIndex  int    `json:"lineIndex"`
	Range      Range  `json:"range"`
	DocVersion int    `json:"docVersion"`
	HoverText  string `json:"hoverText,omitempty"`
	InlineText string `json:"inlineText,omitempty"`
}

// CountBySeverity tallies annotations per tier.
func CountBySeverity(anns []Annotation) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, a := range anns {
		counts[a.Issue.Severity]++
	}
	return counts
}
