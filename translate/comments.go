package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/minios-linux/revkit/document"
)

// CommentMarker introduces a line comment.
const CommentMarker = "//"

// SplitComment splits line at the first comment marker. It returns the
// code part including the marker and the trimmed comment text; ok is
// false when the line has no comment or the comment is empty.
func SplitComment(line string) (prefix, comment string, ok bool) {
	idx := strings.Index(line, CommentMarker)
	if idx < 0 {
		return "", "", false
	}
	comment = strings.TrimSpace(line[idx+len(CommentMarker):])
	if comment == "" {
		return "", "", false
	}
	return line[:idx+len(CommentMarker)], comment, true
}

// CommentEdit is a pending replacement of one line.
type CommentEdit struct {
	Line     int
	Original string
	Updated  string
}

// CommentTranslator rewrites line comments into the target language.
type CommentTranslator struct {
	Backend Translator
	Pair    Pair
}

// Plan translates every comment in region and returns the edits without
// touching the document. The first backend failure aborts the plan.
func (ct *CommentTranslator) Plan(ctx context.Context, doc *document.Document, region document.Region) ([]CommentEdit, error) {
	var edits []CommentEdit
	for i := region.Start; i <= region.End; i++ {
		line, ok := doc.Line(i)
		if !ok {
			break
		}
		prefix, comment, ok := SplitComment(line)
		if !ok {
			continue
		}
		out, err := ct.Backend.Translate(ctx, comment, ct.Pair.Source, ct.Pair.Target)
		if err != nil {
			return nil, fmt.Errorf("translating comment on line %d: %w", i+1, err)
		}
		// A space keeps "// text" style from the source line.
		sep := ""
		if rest := line[len(prefix):]; strings.HasPrefix(rest, " ") {
			sep = " "
		}
		edits = append(edits, CommentEdit{Line: i, Original: line, Updated: prefix + sep + out})
	}
	return edits, nil
}

// Apply writes edits into doc. Edits whose line changed since Plan are
// skipped; the number of applied edits is returned.
func Apply(doc *document.Document, edits []CommentEdit) (int, error) {
	applied := 0
	for _, e := range edits {
		cur, ok := doc.Line(e.Line)
		if !ok || cur != e.Original {
			continue
		}
		if err := doc.ReplaceLine(e.Line, e.Updated); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
