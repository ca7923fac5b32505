package jeomja_test

import (
	"testing"

	"github.com/reoring/jeomja"
)

func cells(t *testing.T, dots ...string) jeomja.Sequence {
	t.Helper()
	out := make(jeomja.Sequence, 0, len(dots))
	for _, d := range dots {
		c, err := jeomja.ParseCellDots(d)
		if err != nil {
			t.Fatalf("bad dots %q: %v", d, err)
		}
		out = append(out, c)
	}
	return out
}

func TestAmbiguity_TextContext(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"가?", "가?"},
		{"?", "“"},
		{"가, 나", "가, 나"},
		{" ,", " ‘"},
		{"가;", "가’"},
		{" ;", " ;"},
		{"가-나", "가~나"},
		{"1-2", "1-2"},
		{"가~나", "가~나"},
		{"a/b", "a/b"},
		{"a\\b", "a/b"},
		{"가.", "가."},
		{"가:", "가."},
	}
	for _, tc := range cases {
		seq, _ := plain.Encode(tc.in)
		if got, _ := decoder.Decode(seq); got != tc.want {
			t.Fatalf("%q -> %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAmbiguity_DigitBetween(t *testing.T) {
	// number prefix, digit 1, the shared ./: cell, then a bare digit cell
	seq := cells(t, "3456", "1", "2", "14")
	got, _ := decoder.Decode(seq)
	if got != "1:c" {
		t.Fatalf("expected colon between digit contexts, got %q", got)
	}
	seq = cells(t, "3456", "1", "2", "3456", "14")
	if got, _ := decoder.Decode(seq); got != "1.3" {
		t.Fatalf("expected period before a prefixed digit run, got %q", got)
	}
}

func TestAmbiguity_NoContextReported(t *testing.T) {
	_, issues := decoder.Decode(cells(t, "246"))
	if len(issues) != 1 || issues[0].Code != jeomja.CodeAmbiguousCell {
		t.Fatalf("expected ambiguous_cell issue, got %v", issues)
	}
	_, issues = decoder.Decode(cells(t, "35", "246"))
	if len(issues) != 0 {
		t.Fatalf("expected no issue with a preceding character, got %v", issues)
	}
}

func TestAmbiguity_Registry(t *testing.T) {
	ts := jeomja.DefaultTables()
	want := map[string]string{"?": "“", ",": "‘", ";": "’", ".": ":", "~": "-", "/": "\\"}
	for _, a := range ts.Ambiguities() {
		if want[a.Symbol] != a.Alternate {
			t.Fatalf("unexpected pair %q/%q", a.Symbol, a.Alternate)
		}
		g, _ := ts.Table(jeomja.CategorySymbol).Glyph(a.Symbol)
		if len(g) != 1 || g[0] != a.Cell {
			t.Fatalf("registry cell for %q does not match the symbol table", a.Symbol)
		}
		if got, ok := ts.AmbiguityOf(a.Cell); !ok || got != a {
			t.Fatalf("AmbiguityOf(%s) mismatch", a.Cell)
		}
	}
}
