package hangul

import (
	"errors"
	"testing"
)

func TestDecomposeCompose_AllSyllables(t *testing.T) {
	for r := First; r <= Last; r++ {
		j, err := Decompose(r)
		if err != nil {
			t.Fatalf("decompose %q: %v", r, err)
		}
		got, err := Compose(j)
		if err != nil {
			t.Fatalf("compose %v: %v", j, err)
		}
		if got != r {
			t.Fatalf("roundtrip %q -> %v -> %q", r, j, got)
		}
	}
}

func TestDecompose_Known(t *testing.T) {
	cases := []struct {
		in   rune
		want Jamo
	}{
		{'안', Jamo{'ㅇ', 'ㅏ', 'ㄴ'}},
		{'녕', Jamo{'ㄴ', 'ㅕ', 'ㅇ'}},
		{'가', Jamo{'ㄱ', 'ㅏ', 0}},
		{'힣', Jamo{'ㅎ', 'ㅣ', 'ㅎ'}},
		{'읽', Jamo{'ㅇ', 'ㅣ', 'ㄺ'}},
	}
	for _, tc := range cases {
		got, err := Decompose(tc.in)
		if err != nil {
			t.Fatalf("decompose %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("decompose %q: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestDecompose_NotSyllable(t *testing.T) {
	for _, r := range []rune{'a', 'ㄱ', '1', 0xAC00 - 1, 0xD7A4} {
		_, err := Decompose(r)
		var de *DecompositionError
		if !errors.As(err, &de) {
			t.Fatalf("expected DecompositionError for %q, got %v", r, err)
		}
		if de.Rune != r {
			t.Fatalf("expected rune %q in error, got %q", r, de.Rune)
		}
	}
}

func TestCompose_Invalid(t *testing.T) {
	cases := []struct {
		j    Jamo
		part string
	}{
		{Jamo{'ㄳ', 'ㅏ', 0}, "initial"},
		{Jamo{'ㄱ', 'ㄱ', 0}, "medial"},
		{Jamo{'ㄱ', 'ㅏ', 'ㄸ'}, "final"},
	}
	for _, tc := range cases {
		_, err := Compose(tc.j)
		var ce *CompositionError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CompositionError for %v, got %v", tc.j, err)
		}
		if ce.Part != tc.part {
			t.Fatalf("part: got %q want %q", ce.Part, tc.part)
		}
	}
}

func TestComposeStrings(t *testing.T) {
	r, err := ComposeStrings("ㅎ", "ㅏ", "ㄴ")
	if err != nil || r != '한' {
		t.Fatalf("got %q, %v", r, err)
	}
	r, err = ComposeStrings("ㄱ", "ㅡ", "")
	if err != nil || r != '그' {
		t.Fatalf("got %q, %v", r, err)
	}
	if _, err := ComposeStrings("ㄱ", "ㅏ", "ㄱㄱ"); err == nil {
		t.Fatalf("expected error for multi-rune final")
	}
}

func TestLists(t *testing.T) {
	if n := len(Initials()); n != initialCount {
		t.Fatalf("initials: %d", n)
	}
	if n := len(Medials()); n != medialCount {
		t.Fatalf("medials: %d", n)
	}
	if n := len(Finals()); n != finalCount-1 {
		t.Fatalf("finals: %d", n)
	}
}
