package jeomja

import (
	"strconv"
	"strings"
)

// Cell is one six-dot braille cell. Bit i set means dot i+1 is raised, so a
// Cell always holds a value in 0..63.
type Cell uint8

const (
	// Unknown is the reserved all-zero cell. It is never assigned to a table
	// key and marks characters the encoder could not map.
	Unknown Cell = 0

	// UnicodeBase is the codepoint of the empty braille pattern (U+2800).
	UnicodeBase rune = 0x2800

	cellMask Cell = 0x3f
	dotCount      = 6
)

// NewCell builds a Cell from raised dot numbers (1..6).
func NewCell(dots ...int) (Cell, error) {
	var c Cell
	for _, d := range dots {
		if d < 1 || d > dotCount {
			return Unknown, Issues{{Path: "/", Code: CodeInvalidDot, Message: "dot number out of range", Params: map[string]any{"dot": d}}}
		}
		c |= 1 << (d - 1)
	}
	return c, nil
}

// Valid reports whether only the six low bits are used.
func (c Cell) Valid() bool { return c&^cellMask == 0 }

// Raised reports whether dot (1..6) is raised.
func (c Cell) Raised(dot int) bool {
	if dot < 1 || dot > dotCount {
		return false
	}
	return c&(1<<(dot-1)) != 0
}

// Bits returns the six-character binary form, dot 1 first ("100000" is dot 1).
func (c Cell) Bits() string {
	var b [dotCount]byte
	for i := 0; i < dotCount; i++ {
		if c&(1<<i) != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b[:])
}

// Dots returns the raised dot numbers in ascending order ("125"), or "0" for
// the empty cell.
func (c Cell) Dots() string {
	if c&cellMask == 0 {
		return "0"
	}
	var b strings.Builder
	for i := 0; i < dotCount; i++ {
		if c&(1<<i) != 0 {
			b.WriteByte(byte('1' + i))
		}
	}
	return b.String()
}

// Rune returns the Unicode braille codepoint of the cell.
func (c Cell) Rune() rune { return UnicodeBase + rune(c&cellMask) }

func (c Cell) String() string { return c.Dots() }

// CellFromRune converts a braille codepoint in U+2800..U+283F back to a Cell.
func CellFromRune(r rune) (Cell, bool) {
	if r < UnicodeBase || r > UnicodeBase+rune(cellMask) {
		return Unknown, false
	}
	return Cell(r - UnicodeBase), true
}

// ParseCellBits reads the six-character binary form produced by Bits.
func ParseCellBits(s string) (Cell, error) {
	if len(s) != dotCount {
		return Unknown, Issues{{Path: "/", Code: CodeInvalidWidth, Message: "cell must be exactly 6 binary digits", InputFragment: s, Params: map[string]any{"got": len(s)}}}
	}
	var c Cell
	for i := 0; i < dotCount; i++ {
		switch s[i] {
		case '1':
			c |= 1 << i
		case '0':
		default:
			return Unknown, Issues{{Path: "/", Code: CodeInvalidDot, Message: "cell digits must be 0 or 1", InputFragment: s, Offset: int64(i)}}
		}
	}
	return c, nil
}

// ParseCellDots reads dot-number notation ("125"). "0" is the empty cell.
func ParseCellDots(s string) (Cell, error) {
	if s == "" {
		return Unknown, Issues{{Path: "/", Code: CodeEmpty, Message: "empty cell"}}
	}
	if s == "0" {
		return Unknown, nil
	}
	var c Cell
	for i := 0; i < len(s); i++ {
		d := int(s[i] - '0')
		if d < 1 || d > dotCount {
			return Unknown, Issues{{Path: "/", Code: CodeInvalidDot, Message: "dot numbers must be 1..6", InputFragment: s, Offset: int64(i)}}
		}
		bit := Cell(1) << (d - 1)
		if c&bit != 0 {
			return Unknown, Issues{{Path: "/", Code: CodeInvalidDot, Message: "dot listed twice", InputFragment: s, Offset: int64(i)}}
		}
		c |= bit
	}
	return c, nil
}

// Glyph is one or more consecutive cells forming a single semantic unit.
type Glyph []Cell

// ParseGlyph reads cells in dot-number notation joined by '-' ("6-4").
func ParseGlyph(s string) (Glyph, error) {
	parts := strings.Split(s, "-")
	g := make(Glyph, 0, len(parts))
	for i, p := range parts {
		c, err := ParseCellDots(p)
		if err != nil {
			iss, _ := AsIssues(err)
			for k := range iss {
				iss[k].Path = "/" + strconv.Itoa(i)
				iss[k].InputFragment = s
			}
			return nil, iss
		}
		g = append(g, c)
	}
	return g, nil
}

// Key returns a comparable form of the glyph, one byte per cell.
func (g Glyph) Key() string {
	b := make([]byte, len(g))
	for i, c := range g {
		b[i] = byte(c)
	}
	return string(b)
}

// Equal reports cell-by-cell equality.
func (g Glyph) Equal(o Glyph) bool { return g.Key() == o.Key() }

// Dots returns the glyph in dot-number notation ("6-4").
func (g Glyph) Dots() string {
	parts := make([]string, len(g))
	for i, c := range g {
		parts[i] = c.Dots()
	}
	return strings.Join(parts, "-")
}

func (g Glyph) String() string { return g.Dots() }

// Sequence is an ordered run of cells as produced by the Encoder.
type Sequence []Cell

// Flatten concatenates glyphs into one sequence.
func Flatten(glyphs ...Glyph) Sequence {
	n := 0
	for _, g := range glyphs {
		n += len(g)
	}
	out := make(Sequence, 0, n)
	for _, g := range glyphs {
		out = append(out, g...)
	}
	return out
}

// Bits renders the sequence as space-separated binary groups.
func (s Sequence) Bits() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.Bits()
	}
	return strings.Join(parts, " ")
}

// Dots renders the sequence as space-separated dot-number groups.
func (s Sequence) Dots() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.Dots()
	}
	return strings.Join(parts, " ")
}

// Unicode renders the sequence as braille codepoints.
func (s Sequence) Unicode() string {
	rs := make([]rune, len(s))
	for i, c := range s {
		rs[i] = c.Rune()
	}
	return string(rs)
}

func (s Sequence) String() string { return s.Unicode() }

// hasPrefixAt reports whether g occurs in s starting at i.
func (s Sequence) hasPrefixAt(i int, g Glyph) bool {
	if i < 0 || i+len(g) > len(s) {
		return false
	}
	for k, c := range g {
		if s[i+k] != c {
			return false
		}
	}
	return true
}

func (s Sequence) keyAt(i, n int) string {
	b := make([]byte, n)
	for k := 0; k < n; k++ {
		b[k] = byte(s[i+k])
	}
	return string(b)
}
