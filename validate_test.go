package jeomja_test

import (
	"testing"

	"github.com/reoring/jeomja"
)

func TestValidateBinary(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		code string
		path string
	}{
		{"100000 110000", true, "", ""},
		{"  100000\t110000\n", true, "", ""},
		{"11011 001100", false, jeomja.CodeInvalidWidth, "/0"},
		{"110110 002100", false, jeomja.CodeInvalidDot, "/1"},
		{"", false, jeomja.CodeEmpty, "/"},
		{"   ", false, jeomja.CodeEmpty, "/"},
		{"10000a", false, jeomja.CodeInvalidDot, "/0"},
	}
	for _, tc := range cases {
		err := jeomja.ValidateBinary(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected err %v", tc.in, err)
			}
			if !jeomja.IsValidBinary(tc.in) {
				t.Fatalf("%q: predicate disagrees", tc.in)
			}
			continue
		}
		iss, ok := jeomja.AsIssues(err)
		if !ok || len(iss) != 1 {
			t.Fatalf("%q: expected one issue, got %v", tc.in, err)
		}
		if iss[0].Code != tc.code || iss[0].Path != tc.path {
			t.Fatalf("%q: got %s at %s, want %s at %s", tc.in, iss[0].Code, iss[0].Path, tc.code, tc.path)
		}
	}
}

func TestValidateBinary_CollectsAllGroups(t *testing.T) {
	iss, _ := jeomja.AsIssues(jeomja.ValidateBinary("1 100000 2 0000000"))
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %v", iss)
	}
	if iss.Error() != "invalid_width at /0; invalid_width at /2; invalid_width at /3" {
		t.Fatalf("unexpected summary %q", iss.Error())
	}
}

func TestParseBinary(t *testing.T) {
	seq, err := jeomja.ParseBinary("100000 110000")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(seq) != 2 || seq[0] != 1 || seq[1] != 3 {
		t.Fatalf("unexpected cells %v", []jeomja.Cell(seq))
	}
	if _, err := jeomja.ParseBinary("11011"); err == nil {
		t.Fatalf("expected validation error")
	}
}
