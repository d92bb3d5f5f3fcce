package scanner

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/issue"
)

var sample = []string{
	"function top() {",
	"  function inner() {",
	"let Foo = 1; const Bar = 2 // note",
	"x = 1   ",
	strings.Repeat("a", 85),
	strings.Repeat("b", 120),
}

func TestScanLineCategories(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		line int
		want []Finding
	}{
		{0, nil},
		{1, []Finding{{Category: FunctionIndent, Line: 1, Range: issue.Range{Start: 2, End: 17}}}},
		{2, []Finding{
			{Category: VariableNaming, Line: 2, Range: issue.Range{Start: 4, End: 7}},
			{Category: VariableNaming, Line: 2, Range: issue.Range{Start: 19, End: 22}},
			{Category: Comment, Line: 2, Range: issue.Range{Start: 30, End: 34}, Text: "note"},
		}},
		{3, []Finding{{Category: TrailingWhitespace, Line: 3, Range: issue.Range{Start: 5, End: 8}}}},
		{4, []Finding{{Category: LengthMild, Line: 4, Range: issue.Range{Start: 80, End: 85}}}},
		{5, []Finding{{Category: LengthSevere, Line: 5, Range: issue.Range{Start: 100, End: 120}}}},
	}
	for _, tc := range tests {
		got := s.ScanLine(tc.line, sample[tc.line])
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ScanLine(%d) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestScanLineMultipleCategories(t *testing.T) {
	s := New(Options{MildLength: 10, SevereLength: 20})
	line := "    def Run(self):  "
	got := s.ScanLine(0, line)

	cats := map[Category]int{}
	for _, f := range got {
		cats[f.Category]++
	}
	if cats[LengthMild] != 1 || cats[FunctionIndent] != 1 || cats[TrailingWhitespace] != 1 {
		t.Fatalf("categories = %v", cats)
	}
}

func TestScanLineRuneColumns(t *testing.T) {
	s := New(Options{})
	got := s.ScanLine(0, "ස let Abc = 1")
	if len(got) != 1 || got[0].Range != (issue.Range{Start: 6, End: 9}) {
		t.Fatalf("got %+v, want rune columns 6..9", got)
	}
}

func TestScanIsOrderIndependentAndChunked(t *testing.T) {
	s := New(Options{ChunkSize: 2})
	res, err := s.Scan(context.Background(), sample)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var want []Finding
	for i, line := range sample {
		want = append(want, s.ScanLine(i, line)...)
	}
	if !reflect.DeepEqual(res.Findings, want) {
		t.Fatalf("Scan findings differ from per-line scan:\n got %+v\nwant %+v", res.Findings, want)
	}

	counts := res.Count()
	if counts[VariableNaming] != 2 || counts[Comment] != 1 {
		t.Fatalf("Count = %v", counts)
	}
}

func TestScanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Scan(ctx, sample); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPaintReplacesPersistentChannels(t *testing.T) {
	s := New(Options{})
	res, err := s.Scan(context.Background(), sample)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	surface := editor.NewSurface()
	s.Paint(surface, res)
	s.Paint(surface, res)

	want := map[editor.StyleID]int{
		editor.StyleLengthSevere:       1,
		editor.StyleLengthMild:         1,
		editor.StyleFunctionIndent:     1,
		editor.StyleVariableNaming:     2,
		editor.StyleTrailingWhitespace: 1,
		editor.StyleCommentTranslation: 0,
	}
	for style, n := range want {
		if got := surface.Count(style); got != n {
			t.Errorf("Count(%s) = %d, want %d", style, got, n)
		}
	}
	if hover := surface.Decorations(editor.StyleLengthMild)[0].Hover; hover != "Line exceeds 80 characters." {
		t.Fatalf("mild hover = %q", hover)
	}

	s.Paint(surface, &Result{})
	for style := range want {
		if got := surface.Count(style); got != 0 {
			t.Errorf("after empty paint Count(%s) = %d", style, got)
		}
	}
}

func TestIssuesFromFindings(t *testing.T) {
	s := New(Options{})
	res, _ := s.Scan(context.Background(), sample)
	issues := s.Issues(res, sample)
	if len(issues) != 6 {
		t.Fatalf("issues = %d, want 6 (comment excluded)", len(issues))
	}
	for _, is := range issues {
		if is.Origin != issue.OriginRule {
			t.Fatalf("origin = %q", is.Origin)
		}
		if is.CodeSnippet != sample[is.ClaimedLine-1] {
			t.Fatalf("snippet of line %d = %q", is.ClaimedLine, is.CodeSnippet)
		}
	}
	last := issues[len(issues)-1]
	if last.Severity != issue.Warning || last.ClaimedLine != 6 {
		t.Fatalf("length issue = %+v", last)
	}
}

type blockingLooker struct {
	release chan struct{}
}

func (b *blockingLooker) Lookup(ctx context.Context, text string) string {
	<-b.release
	return "si:" + text
}

func TestTranslateCommentsIsDetached(t *testing.T) {
	lines := []string{"a // one", "b", "c // two"}
	s := New(Options{})
	res, _ := s.Scan(context.Background(), lines)

	surface := editor.NewSurface()
	looker := &blockingLooker{release: make(chan struct{})}
	pending := TranslateComments(context.Background(), res, looker, surface, 1)

	// Painting of the other channels is not blocked by the translations.
	s.Paint(surface, res)
	if surface.Count(editor.StyleCommentTranslation) != 0 {
		t.Fatal("no translation should be painted before the lookups finish")
	}

	close(looker.release)
	pending.Wait()

	decos := surface.Decorations(editor.StyleCommentTranslation)
	if len(decos) != 2 {
		t.Fatalf("comment decorations = %d, want 2", len(decos))
	}
	if decos[0].Line != 0 || decos[0].Hover != "si:one" || decos[1].Hover != "si:two" {
		t.Fatalf("decorations = %+v", decos)
	}
	if got := pending.Decorations(); !reflect.DeepEqual(got, decos) {
		t.Fatalf("Pending.Decorations = %+v", got)
	}
}

func TestTranslateCommentsNoComments(t *testing.T) {
	surface := editor.NewSurface()
	surface.SetDecorations(editor.StyleCommentTranslation, []editor.Decoration{{Line: 3}})
	p := TranslateComments(context.Background(), &Result{}, &blockingLooker{}, surface, 0)
	p.Wait()
	if surface.Count(editor.StyleCommentTranslation) != 0 {
		t.Fatal("stale comment overlays should be cleared")
	}
}

func TestStyleFor(t *testing.T) {
	if StyleFor(Comment) != editor.StyleCommentTranslation {
		t.Fatal("comment style")
	}
	if StyleFor(LengthSevere) != editor.StyleLengthSevere {
		t.Fatal("severe style")
	}
	if LengthMild.String() != "length-mild" {
		t.Fatalf("String = %q", LengthMild.String())
	}
}
