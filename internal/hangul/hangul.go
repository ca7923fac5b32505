// Package hangul splits precomposed Hangul syllables into compatibility jamo
// and recomposes them using the Unicode index arithmetic
// (U+AC00 + (initial*21 + medial)*28 + final).
package hangul

import "fmt"

const (
	// First and Last bound the precomposed syllable block.
	First rune = 0xAC00
	Last  rune = 0xD7A3

	initialCount = 19
	medialCount  = 21
	finalCount   = 28
)

var (
	initials = []rune{'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ'}
	medials  = []rune{'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ', 'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ'}
	// finals[0] is the empty final.
	finals = []rune{0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ', 'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ'}

	initialIndex = indexOf(initials)
	medialIndex  = indexOf(medials)
	finalIndex   = indexOf(finals)
)

func indexOf(rs []rune) map[rune]int {
	m := make(map[rune]int, len(rs))
	for i, r := range rs {
		m[r] = i
	}
	return m
}

// Jamo is the initial/medial/final split of one syllable. Final is 0 when the
// syllable has no final consonant.
type Jamo struct {
	Initial rune
	Medial  rune
	Final   rune
}

// Strings returns the three parts as table keys; the empty final is "".
func (j Jamo) Strings() (initial, medial, final string) {
	initial, medial = string(j.Initial), string(j.Medial)
	if j.Final != 0 {
		final = string(j.Final)
	}
	return
}

func (j Jamo) String() string {
	i, m, f := j.Strings()
	return i + "," + m + "," + f
}

// DecompositionError reports a rune that is not a precomposed syllable.
type DecompositionError struct {
	Rune rune
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("hangul: %q (U+%04X) is not a precomposed syllable", e.Rune, e.Rune)
}

// CompositionError reports a jamo triple with no corresponding syllable.
type CompositionError struct {
	Jamo Jamo
	// Part names the offending slot: "initial", "medial" or "final".
	Part string
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("hangul: cannot compose (%s): invalid %s", e.Jamo, e.Part)
}

// IsSyllable reports whether r lies in the precomposed syllable block.
func IsSyllable(r rune) bool { return r >= First && r <= Last }

// Decompose splits a precomposed syllable.
func Decompose(r rune) (Jamo, error) {
	if !IsSyllable(r) {
		return Jamo{}, &DecompositionError{Rune: r}
	}
	idx := int(r - First)
	return Jamo{
		Initial: initials[idx/(medialCount*finalCount)],
		Medial:  medials[(idx%(medialCount*finalCount))/finalCount],
		Final:   finals[idx%finalCount],
	}, nil
}

// Compose rebuilds a syllable from its parts.
func Compose(j Jamo) (rune, error) {
	ii, ok := initialIndex[j.Initial]
	if !ok {
		return 0, &CompositionError{Jamo: j, Part: "initial"}
	}
	mi, ok := medialIndex[j.Medial]
	if !ok {
		return 0, &CompositionError{Jamo: j, Part: "medial"}
	}
	fi, ok := finalIndex[j.Final]
	if !ok {
		return 0, &CompositionError{Jamo: j, Part: "final"}
	}
	return First + rune((ii*medialCount+mi)*finalCount+fi), nil
}

// ComposeStrings is Compose over table keys. Each key must hold at most one
// rune; an empty final means none.
func ComposeStrings(initial, medial, final string) (rune, error) {
	j := Jamo{Initial: single(initial), Medial: single(medial), Final: single(final)}
	if final != "" && j.Final == 0 {
		j.Final = -1
	}
	return Compose(j)
}

// single returns the only rune of s, 0 for "" and -1 for longer strings.
func single(s string) rune {
	var out rune
	n := 0
	for _, r := range s {
		out = r
		n++
	}
	switch n {
	case 0:
		return 0
	case 1:
		return out
	default:
		return -1
	}
}

// Initials, Medials and Finals list the jamo in index order. Finals omits the
// empty final.
func Initials() []rune { return append([]rune(nil), initials...) }
func Medials() []rune  { return append([]rune(nil), medials...) }
func Finals() []rune   { return append([]rune(nil), finals[1:]...) }
