package resolve

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/issue"
)

const source = `function main() {
    let total = 0;
    for (let i = 0; i < 10; i++) {
        total += i;
    }

    console.log(total);
}`

func TestLocate(t *testing.T) {
	doc := document.New(source)

	tests := []struct {
		name   string
		issue  issue.Issue
		line   int
		method Method
	}{
		{"claimed line contains snippet", issue.Issue{ClaimedLine: 2, CodeSnippet: "total = 0"}, 1, Anchored},
		{"snippet contains claimed line", issue.Issue{ClaimedLine: 4, CodeSnippet: "  total += i; // sum  "}, 3, Anchored},
		{"drifted line falls back to full scan", issue.Issue{ClaimedLine: 3, CodeSnippet: "console.log(total);"}, 6, FullScan},
		{"out of range claim falls back", issue.Issue{ClaimedLine: 99, CodeSnippet: "let total = 0;"}, 1, FullScan},
		{"zero claim falls back", issue.Issue{ClaimedLine: 0, CodeSnippet: "}"}, 4, FullScan},
		{"blank claimed line never anchors", issue.Issue{ClaimedLine: 6, CodeSnippet: "total += i;"}, 3, FullScan},
		{"no snippet", issue.Issue{ClaimedLine: 2}, -1, Unresolved},
		{"whitespace snippet", issue.Issue{ClaimedLine: 2, CodeSnippet: "   "}, -1, Unresolved},
		{"no match anywhere", issue.Issue{ClaimedLine: 2, CodeSnippet: "return nil"}, -1, Unresolved},
		{"fallback needs exact trim match", issue.Issue{ClaimedLine: 1, CodeSnippet: "total"}, -1, Unresolved},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			line, method := Locate(tc.issue, doc)
			if line != tc.line || method != tc.method {
				t.Fatalf("Locate = (%d, %s), want (%d, %s)", line, method, tc.line, tc.method)
			}
		})
	}
}

func TestFullScanFirstMatchWins(t *testing.T) {
	doc := document.New("a\n  x++\nb\nx++")
	line, method := Locate(issue.Issue{ClaimedLine: 3, CodeSnippet: "x++"}, doc)
	if line != 1 || method != FullScan {
		t.Fatalf("Locate = (%d, %s), want (1, full-scan)", line, method)
	}
}

func TestResolveRangesAndDrops(t *testing.T) {
	doc := document.New(source)
	core, logs := observer.New(zap.DebugLevel)

	issues := []issue.Issue{
		{ClaimedLine: 2, CodeSnippet: "let total = 0;", Description: "a", Severity: issue.Warning},
		{ClaimedLine: 2, CodeSnippet: "missing()", Description: "b", Severity: issue.Critical},
		{ClaimedLine: 7, Description: "c"},
	}
	anns := Resolve(issues, doc, zap.New(core))

	if len(anns) != 1 {
		t.Fatalf("annotations = %d, want 1", len(anns))
	}
	a := anns[0]
	if a.LineIndex != 1 || a.Range != (issue.Range{Start: 4, End: 18}) {
		t.Fatalf("annotation = %+v, want line 1 range 4..18", a)
	}
	if a.DocVersion != doc.Version() || a.Issue.Description != "a" {
		t.Fatalf("annotation = %+v", a)
	}

	dropped := logs.FilterMessage("dropping unresolvable issue").Len()
	if dropped != 2 {
		t.Fatalf("dropped log entries = %d, want 2", dropped)
	}
}

func TestResolveNilLogger(t *testing.T) {
	doc := document.New("x")
	if got := Resolve([]issue.Issue{{ClaimedLine: 1, CodeSnippet: "x"}}, doc, nil); len(got) != 1 {
		t.Fatalf("Resolve = %+v", got)
	}
}

func TestStale(t *testing.T) {
	doc := document.New("let a = 1\nlet b = 2")
	anns := Resolve([]issue.Issue{{ClaimedLine: 1, CodeSnippet: "let a = 1"}}, doc, nil)
	if Stale(anns, doc) {
		t.Fatal("fresh annotations reported stale")
	}
	if err := doc.ReplaceLine(1, "let b = 3"); err != nil {
		t.Fatalf("ReplaceLine: %v", err)
	}
	if !Stale(anns, doc) {
		t.Fatal("annotations should be stale after an edit")
	}
}

func TestAnchoredAndFallbackLineIndex(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "  const value = 1;", "e", "f", "g", "return total;", "h"}
	doc := document.New(strings.Join(lines, "\n"))

	anns := Resolve([]issue.Issue{
		{ClaimedLine: 5, CodeSnippet: "const value = 1;"},
		{ClaimedLine: 2, CodeSnippet: "return total;"},
	}, doc, nil)
	if len(anns) != 2 {
		t.Fatalf("annotations = %d, want 2", len(anns))
	}
	if anns[0].LineIndex != 4 || anns[0].Range.Start != 2 {
		t.Fatalf("anchored annotation = %+v, want line 4 from column 2", anns[0])
	}
	if anns[1].LineIndex != 8 {
		t.Fatalf("fallback annotation = %+v, want line 8", anns[1])
	}
}
