// Package render turns resolved annotations into severity overlays.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/issue"
)

const (
	// DefaultInlineWidth is the display width of the inline summary.
	DefaultInlineWidth = 60
	lookupParallelism  = 4
	ellipsis           = "…"
)

// Looker produces the secondary-language rendering of a description.
// An unchanged return value means no translation is available.
type Looker interface {
	Lookup(ctx context.Context, text string) string
}

// Renderer paints annotations onto the three severity channels of a
// Decorator.
type Renderer struct {
	Decorator editor.Decorator
	// Translator fills missing secondary descriptions. Optional.
	Translator  Looker
	InlineWidth int
	Logger      *zap.Logger
}

func (r *Renderer) effectiveInlineWidth() int {
	if r.InlineWidth > 0 {
		return r.InlineWidth
	}
	return DefaultInlineWidth
}

func (r *Renderer) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

// Render replaces every severity channel with the given annotations.
// Channels are painted lowest tier first so Critical ends up on top; a
// tier without annotations is cleared. Rendering the same input twice
// leaves the same overlays. The returned slice carries the computed
// hover and inline texts.
func (r *Renderer) Render(ctx context.Context, anns []issue.Annotation) []issue.Annotation {
	out := make([]issue.Annotation, len(anns))
	copy(out, anns)
	r.fillTexts(ctx, out)

	buckets := make(map[issue.Severity][]editor.Decoration, 3)
	for _, a := range out {
		buckets[a.Issue.Severity] = append(buckets[a.Issue.Severity], editor.Decoration{
			Line:   a.LineIndex,
			Range:  a.Range,
			Hover:  a.HoverText,
			Inline: a.InlineText,
		})
	}
	for _, sev := range issue.Severities() {
		r.Decorator.SetDecorations(editor.SeverityStyle(sev), buckets[sev])
	}
	r.logger().Debug("rendered annotations",
		zap.Int("critical", len(buckets[issue.Critical])),
		zap.Int("warning", len(buckets[issue.Warning])),
		zap.Int("suggestion", len(buckets[issue.Suggestion])))
	return out
}

// Clear removes all severity overlays.
func (r *Renderer) Clear() {
	Clear(r.Decorator)
}

// Clear removes all severity overlays of d.
func Clear(d editor.Decorator) {
	for _, sev := range issue.Severities() {
		d.SetDecorations(editor.SeverityStyle(sev), nil)
	}
}

func (r *Renderer) fillTexts(ctx context.Context, anns []issue.Annotation) {
	var g errgroup.Group
	g.SetLimit(lookupParallelism)
	width := r.effectiveInlineWidth()

	for i := range anns {
		a := &anns[i]
		g.Go(func() error {
			secondary := a.Issue.TranslatedDescription
			if secondary == "" && r.Translator != nil && a.Issue.Description != "" {
				if tr := r.Translator.Lookup(ctx, a.Issue.Description); tr != a.Issue.Description {
					secondary = tr
				}
			}
			a.HoverText = Hover(a.Issue.Severity, a.Issue.Description, secondary)
			a.InlineText = Inline(a.Issue.Severity, a.Issue.Description, width)
			return nil
		})
	}
	_ = g.Wait()
}

// Hover formats the hover text: a severity-tagged primary line followed
// by the secondary rendering when there is one.
func Hover(sev issue.Severity, primary, secondary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", sev, strings.TrimSpace(primary))
	if s := strings.TrimSpace(secondary); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}
	return b.String()
}

// Inline formats the trailing summary, truncated to width display cells.
func Inline(sev issue.Severity, primary string, width int) string {
	text := sev.String() + ": " + strings.Join(strings.Fields(primary), " ")
	return runewidth.Truncate(text, width, ellipsis)
}

// Summary describes annotation counts, e.g. "Found 1 Critical, 2 Warning".
// Zero tiers are omitted; no annotations gives "".
func Summary(anns []issue.Annotation) string {
	counts := issue.CountBySeverity(anns)
	var parts []string
	for _, sev := range []issue.Severity{issue.Critical, issue.Warning, issue.Suggestion} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Found " + strings.Join(parts, ", ")
}
