// Package editor describes the host editor capabilities the engine
// consumes (overlay painting, user messages, prompts) and provides a
// terminal implementation of them.
//
// Overlays are grouped into named styles. Each style is a separate
// channel: setting the decorations of one style replaces that style's
// whole overlay set and never touches any other style.
package editor

import "github.com/minios-linux/revkit/issue"

// StyleID names an overlay channel.
type StyleID string

// Severity channels used by the review renderer.
const (
	StyleCritical   StyleID = "review.critical"
	StyleWarning    StyleID = "review.warning"
	StyleSuggestion StyleID = "review.suggestion"
	// StyleScanning is the one-line highlight walked by the busy animation.
	StyleScanning StyleID = "review.scanning"
)

// Lexical scanner channels.
const (
	StyleLengthSevere       StyleID = "scan.length.severe"
	StyleLengthMild         StyleID = "scan.length.mild"
	StyleFunctionIndent     StyleID = "scan.function.indent"
	StyleVariableNaming     StyleID = "scan.variable.naming"
	StyleTrailingWhitespace StyleID = "scan.trailing.whitespace"
	StyleCommentTranslation StyleID = "scan.comment.translation"
)

// SeverityStyle returns the channel a severity tier paints on.
func SeverityStyle(s issue.Severity) StyleID {
	switch s {
	case issue.Critical:
		return StyleCritical
	case issue.Warning:
		return StyleWarning
	}
	return StyleSuggestion
}

// Decoration is one overlay: a column range on a line plus optional hover
// and trailing inline text.
type Decoration struct {
	Line   int         `json:"line"`
	Range  issue.Range `json:"range"`
	Hover  string      `json:"hover,omitempty"`
	Inline string      `json:"inline,omitempty"`
}

// Decorator paints overlays. SetDecorations replaces the complete set of
// a style; passing nil clears it. Implementations must be safe for
// concurrent use.
type Decorator interface {
	SetDecorations(style StyleID, decorations []Decoration)
}

// Notifier presents transient messages and a cancel-free busy indicator.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	// Progress shows a busy indicator and returns the function that hides
	// it. The returned function is safe to call more than once.
	Progress(title string) (done func())
}

// Prompter asks blocking yes/no questions.
type Prompter interface {
	Confirm(question string) bool
}
