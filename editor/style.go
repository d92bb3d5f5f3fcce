package editor

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Style describes how a channel is painted. Z orders channels that cover
// the same columns: the highest Z wins the cell.
type Style struct {
	ID         StyleID
	Label      string
	Z          int
	Foreground lipgloss.Color
	Background lipgloss.Color
	Underline  bool
	Bold       bool
	// Gutter is the single-character marker printed before annotated
	// lines in the terminal view.
	Gutter string
}

// Render applies the style to s.
func (s Style) Render(text string) string {
	st := lipgloss.NewStyle()
	if s.Foreground != "" {
		st = st.Foreground(s.Foreground)
	}
	if s.Background != "" {
		st = st.Background(s.Background)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	if s.Bold {
		st = st.Bold(true)
	}
	return st.Render(text)
}

// defaultStyles are the persistent overlay styles. Severity channels use
// disjoint foreground/background pairs so that a Critical span is never
// indistinguishable from a Suggestion on the same columns.
var defaultStyles = map[StyleID]Style{
	StyleCritical: {
		ID: StyleCritical, Label: "critical", Z: 30,
		Foreground: "#FFFFFF", Background: "#B00020", Bold: true, Gutter: "✖",
	},
	StyleWarning: {
		ID: StyleWarning, Label: "warning", Z: 20,
		Foreground: "#000000", Background: "#F5A623", Gutter: "▲",
	},
	StyleSuggestion: {
		ID: StyleSuggestion, Label: "suggestion", Z: 10,
		Foreground: "#4FC3F7", Underline: true, Gutter: "●",
	},
	StyleScanning: {
		ID: StyleScanning, Label: "scanning", Z: 40,
		Background: "#3A3F4B", Gutter: "›",
	},
	StyleLengthSevere: {
		ID: StyleLengthSevere, Label: "line too long", Z: 8,
		Foreground: "#FF5252", Underline: true, Gutter: "»",
	},
	StyleLengthMild: {
		ID: StyleLengthMild, Label: "long line", Z: 7,
		Foreground: "#FFB74D", Underline: true, Gutter: "›",
	},
	StyleFunctionIndent: {
		ID: StyleFunctionIndent, Label: "indented function", Z: 6,
		Foreground: "#CE93D8", Underline: true, Gutter: "ƒ",
	},
	StyleVariableNaming: {
		ID: StyleVariableNaming, Label: "naming", Z: 5,
		Foreground: "#80CBC4", Underline: true, Gutter: "n",
	},
	StyleTrailingWhitespace: {
		ID: StyleTrailingWhitespace, Label: "trailing whitespace", Z: 4,
		Background: "#5D4037", Gutter: "·",
	},
	StyleCommentTranslation: {
		ID: StyleCommentTranslation, Label: "comment", Z: 1,
		Foreground: "#9E9E9E", Gutter: "#",
	},
}

// LookupStyle returns the registered style for id. Unknown ids get a
// plain style with Z 0.
func LookupStyle(id StyleID) Style {
	if s, ok := defaultStyles[id]; ok {
		return s
	}
	return Style{ID: id, Label: string(id)}
}

// StyleIDs returns all registered style ids sorted by ascending Z.
func StyleIDs() []StyleID {
	ids := make([]StyleID, 0, len(defaultStyles))
	for id := range defaultStyles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return defaultStyles[ids[i]].Z < defaultStyles[ids[j]].Z
	})
	return ids
}
