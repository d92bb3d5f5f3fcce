// Package resolve binds loosely positioned issues to real lines of the
// current document.
package resolve

import (
	"strings"

	"go.uber.org/zap"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/issue"
)

// Method tells which pass anchored an issue.
type Method int

const (
	Unresolved Method = iota
	Anchored
	FullScan
)

func (m Method) String() string {
	switch m {
	case Anchored:
		return "anchored"
	case FullScan:
		return "full-scan"
	}
	return "unresolved"
}

// Locate returns the 0-based line of is in doc and the pass that found
// it.
//
// The anchored pass accepts the claimed line when its trimmed text and
// the trimmed snippet contain one another (either way round). Blank
// claimed lines never anchor. Otherwise every line is scanned top to
// bottom for one whose trimmed text equals the trimmed snippet; the
// lowest index wins. Issues without a snippet cannot be located.
func Locate(is issue.Issue, doc *document.Document) (int, Method) {
	snippet := strings.TrimSpace(is.CodeSnippet)
	if snippet == "" {
		return -1, Unresolved
	}

	if idx := is.ClaimedLine - 1; idx >= 0 {
		if line, ok := doc.Line(idx); ok {
			claimed := strings.TrimSpace(line)
			if claimed != "" && (strings.Contains(claimed, snippet) || strings.Contains(snippet, claimed)) {
				return idx, Anchored
			}
		}
	}

	for i, line := range doc.Lines() {
		if strings.TrimSpace(line) == snippet {
			return i, FullScan
		}
	}
	return -1, Unresolved
}

// Resolve anchors every issue against the current document. Unresolvable
// issues are dropped and logged. The returned annotations are valid for
// doc.Version() only.
func Resolve(issues []issue.Issue, doc *document.Document, log *zap.Logger) []issue.Annotation {
	if log == nil {
		log = zap.NewNop()
	}
	version := doc.Version()

	out := make([]issue.Annotation, 0, len(issues))
	for _, is := range issues {
		idx, method := Locate(is, doc)
		if method == Unresolved {
			log.Debug("dropping unresolvable issue",
				zap.Int("claimed_line", is.ClaimedLine),
				zap.String("snippet", is.CodeSnippet),
				zap.Stringer("severity", is.Severity))
			continue
		}
		line, _ := doc.Line(idx)
		out = append(out, issue.Annotation{
			Issue:      is,
			LineIndex:  idx,
			Range:      contentRange(line),
			DocVersion: version,
		})
		log.Debug("resolved issue",
			zap.Int("claimed_line", is.ClaimedLine),
			zap.Int("line", idx+1),
			zap.Stringer("method", method))
	}
	return out
}

// contentRange spans from the first non-whitespace column to the end of
// the line, so overlays never cover indentation.
func contentRange(line string) issue.Range {
	return issue.Range{Start: document.FirstNonWhitespace(line), End: document.RuneLen(line)}
}

// Stale reports whether any annotation was computed against a different
// document version and must be re-resolved.
func Stale(anns []issue.Annotation, doc *document.Document) bool {
	v := doc.Version()
	for _, a := range anns {
		if a.DocVersion != v {
			return true
		}
	}
	return false
}
