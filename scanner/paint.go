package scanner

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/i18n"
	"github.com/minios-linux/revkit/issue"
)

// persistent maps the synchronously painted categories to their channels.
var persistent = []struct {
	cat   Category
	style editor.StyleID
}{
	{LengthSevere, editor.StyleLengthSevere},
	{LengthMild, editor.StyleLengthMild},
	{FunctionIndent, editor.StyleFunctionIndent},
	{VariableNaming, editor.StyleVariableNaming},
	{TrailingWhitespace, editor.StyleTrailingWhitespace},
}

// StyleFor returns the channel a category paints on.
func StyleFor(c Category) editor.StyleID {
	if c == Comment {
		return editor.StyleCommentTranslation
	}
	for _, p := range persistent {
		if p.cat == c {
			return p.style
		}
	}
	return ""
}

// Message returns the hover text of a finding.
func (s *Scanner) Message(f Finding) string {
	switch f.Category {
	case LengthSevere:
		return i18n.Dual("Line exceeds %d characters.", s.opts.effectiveSevere())
	case LengthMild:
		return i18n.Dual("Line exceeds %d characters.", s.opts.effectiveMild())
	case FunctionIndent:
		return i18n.Dual("Function declarations should not be indented.")
	case VariableNaming:
		return i18n.Dual("Variable names should start with a lowercase letter.")
	case TrailingWhitespace:
		return i18n.Dual("Trailing whitespace.")
	}
	return f.Text
}

// Paint replaces the five persistent scanner channels with res. Channels
// without findings are cleared.
func (s *Scanner) Paint(d editor.Decorator, res *Result) {
	for _, p := range persistent {
		var decos []editor.Decoration
		for _, f := range res.ByCategory(p.cat) {
			decos = append(decos, editor.Decoration{Line: f.Line, Range: f.Range, Hover: s.Message(f)})
		}
		d.SetDecorations(p.style, decos)
	}
}

// Issues converts the persistent findings into rule-origin issues.
// Length findings are warnings; the rest are suggestions.
func (s *Scanner) Issues(res *Result, lines []string) []issue.Issue {
	var out []issue.Issue
	for _, f := range res.Findings {
		if f.Category == Comment {
			continue
		}
		sev := issue.Suggestion
		if f.Category == LengthSevere || f.Category == LengthMild {
			sev = issue.Warning
		}
		snippet := ""
		if f.Line < len(lines) {
			snippet = lines[f.Line]
		}
		out = append(out, issue.Issue{
			ClaimedLine: f.Line + 1,
			CodeSnippet: snippet,
			Description: s.Message(f),
			Severity:    sev,
			Origin:      issue.OriginRule,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Asynchronous comment translation
// ---------------------------------------------------------------------------

// Looker returns the translation of a text, or the text itself on failure.
type Looker interface {
	Lookup(ctx context.Context, text string) string
}

// Pending tracks detached comment translations.
type Pending struct {
	queued sync.WaitGroup
	g      errgroup.Group
	mu     sync.Mutex
	known  map[int]editor.Decoration
}

// Wait blocks until every translation has been painted.
func (p *Pending) Wait() {
	p.queued.Wait()
	_ = p.g.Wait()
}

// Decorations returns the comment overlays painted so far, by line.
func (p *Pending) Decorations() []editor.Decoration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sortedLocked()
}

func (p *Pending) sortedLocked() []editor.Decoration {
	out := make([]editor.Decoration, 0, len(p.known))
	for _, d := range p.known {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// TranslateComments starts one detached task per comment finding and
// returns at once. Each completed translation replaces the comment channel
// with every translation known so far. limit bounds the tasks in flight
// (0 = unbounded).
func TranslateComments(ctx context.Context, res *Result, tr Looker, d editor.Decorator, limit int) *Pending {
	p := &Pending{known: make(map[int]editor.Decoration)}
	if limit > 0 {
		p.g.SetLimit(limit)
	}
	comments := res.ByCategory(Comment)
	if len(comments) == 0 {
		d.SetDecorations(editor.StyleCommentTranslation, nil)
		return p
	}

	// SetLimit makes Go block when saturated, so tasks are queued from a
	// separate goroutine to keep this call non-blocking.
	p.queued.Add(1)
	go func() {
		defer p.queued.Done()
		for _, f := range comments {
			p.g.Go(func() error {
				text := tr.Lookup(ctx, f.Text)
				p.mu.Lock()
				p.known[f.Line] = editor.Decoration{Line: f.Line, Range: f.Range, Hover: text}
				snapshot := p.sortedLocked()
				d.SetDecorations(editor.StyleCommentTranslation, snapshot)
				p.mu.Unlock()
				return nil
			})
		}
	}()
	return p
}
