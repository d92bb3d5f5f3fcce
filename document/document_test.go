package document

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewSplitsLinesAndKeepsCRLF(t *testing.T) {
	d := New("a\r\nb\r\nc")
	if got := d.Lines(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Lines() = %q", got)
	}
	if got := d.Text(); got != "a\r\nb\r\nc" {
		t.Fatalf("Text() = %q, want CRLF preserved", got)
	}
}

func TestReplaceLineBumpsVersion(t *testing.T) {
	d := New("one\ntwo")
	v := d.Version()

	if err := d.ReplaceLine(1, "TWO"); err != nil {
		t.Fatalf("ReplaceLine: %v", err)
	}
	if d.Version() == v {
		t.Fatalf("Version did not change after ReplaceLine")
	}
	if got, _ := d.Line(1); got != "TWO" {
		t.Fatalf("Line(1) = %q, want TWO", got)
	}

	if err := d.ReplaceLine(5, "x"); err == nil {
		t.Fatalf("ReplaceLine out of range should fail")
	}
	if err := d.ReplaceLine(0, "a\nb"); err == nil {
		t.Fatalf("ReplaceLine with newline should fail")
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	if err := os.WriteFile(path, []byte("// hello\nlet x = 1;\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3 (trailing newline yields empty line)", d.LineCount())
	}
	if err := d.ReplaceLine(0, "// ආයුබෝවන්"); err != nil {
		t.Fatalf("ReplaceLine: %v", err)
	}
	if err := d.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "// ආයුබෝවන්\nlet x = 1;\n" {
		t.Fatalf("saved content = %q", data)
	}

	if _, err := Load(filepath.Join(dir, "missing.js")); err == nil {
		t.Fatalf("Load of missing file should fail")
	}
}

func TestFirstNonWhitespace(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"const a = 1;", 0},
		{"    const a = 1;", 4},
		{"\t\tx", 2},
		{"   ", 3},
		{"", 0},
	}
	for _, tc := range tests {
		if got := FirstNonWhitespace(tc.line); got != tc.want {
			t.Errorf("FirstNonWhitespace(%q) = %d, want %d", tc.line, got, tc.want)
		}
	}
}

func TestByteToColumn(t *testing.T) {
	s := "අ = 1"
	// "අ" is three bytes.
	if got := ByteToColumn(s, 3); got != 1 {
		t.Fatalf("ByteToColumn = %d, want 1", got)
	}
	if got := ByteToColumn(s, 100); got != RuneLen(s) {
		t.Fatalf("ByteToColumn past end = %d, want %d", got, RuneLen(s))
	}
}

func TestTargetRegion(t *testing.T) {
	d := New("line1\nline2\n   \nline4\nline5")

	tests := []struct {
		name       string
		sel        *Selection
		want       Region
		wantNarrow bool
	}{
		{
			name: "nil selection is whole document",
			sel:  nil,
			want: Region{Start: 0, End: 4},
		},
		{
			name: "zero-length selection is whole document",
			sel:  &Selection{Start: Position{1, 2}, End: Position{1, 2}},
			want: Region{Start: 0, End: 4},
		},
		{
			name: "whitespace-only selection is whole document",
			sel:  &Selection{Start: Position{2, 0}, End: Position{2, 3}},
			want: Region{Start: 0, End: 4},
		},
		{
			name:       "multi-line selection",
			sel:        &Selection{Start: Position{1, 0}, End: Position{3, 2}},
			want:       Region{Start: 1, End: 3},
			wantNarrow: true,
		},
		{
			name:       "reversed selection",
			sel:        &Selection{Start: Position{3, 2}, End: Position{1, 0}},
			want:       Region{Start: 1, End: 3},
			wantNarrow: true,
		},
		{
			name:       "end at column zero excludes that line",
			sel:        &Selection{Start: Position{0, 0}, End: Position{2, 0}},
			want:       Region{Start: 0, End: 1},
			wantNarrow: true,
		},
	}

	for _, tc := range tests {
		got, narrowed := TargetRegion(d, tc.sel)
		if got != tc.want || narrowed != tc.wantNarrow {
			t.Fatalf("%s: TargetRegion() = %+v, %v; want %+v, %v", tc.name, got, narrowed, tc.want, tc.wantNarrow)
		}
	}
}

func TestParseLines(t *testing.T) {
	d := New("1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12")

	sel, err := ParseLines("2-11")
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	r, narrowed := TargetRegion(d, sel)
	if !narrowed || r.Span() != 10 {
		t.Fatalf("2-11 region = %+v (span %d), want span 10", r, r.Span())
	}
	if s, e := r.OneBased(); s != 2 || e != 11 {
		t.Fatalf("OneBased() = %d-%d, want 2-11", s, e)
	}

	sel, err = ParseLines("4")
	if err != nil {
		t.Fatalf("ParseLines(4): %v", err)
	}
	if r, _ := TargetRegion(d, sel); r != (Region{Start: 3, End: 3}) {
		t.Fatalf("single line region = %+v", r)
	}

	if sel, err := ParseLines(""); sel != nil || err != nil {
		t.Fatalf("ParseLines(\"\") = %v, %v; want nil, nil", sel, err)
	}
	for _, bad := range []string{"x", "0-3", "5-2", "1-y"} {
		if _, err := ParseLines(bad); err == nil {
			t.Errorf("ParseLines(%q) should fail", bad)
		}
	}
}
