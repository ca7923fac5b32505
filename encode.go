package jeomja

import (
	"strconv"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/reoring/jeomja/internal/hangul"
)

// EncodeOpt controls the encoder.
type EncodeOpt struct {
	// Abbreviations enables longest-match abbreviation glyphs. When false
	// every syllable is spelled out jamo by jamo.
	Abbreviations bool
	// Normalize folds full-width forms and applies NFC before encoding, so
	// conjoining jamo and full-width digits or letters are accepted.
	Normalize bool
}

// DefaultEncodeOpt enables abbreviations and normalization.
func DefaultEncodeOpt() EncodeOpt { return EncodeOpt{Abbreviations: true, Normalize: true} }

type mode int

const (
	modeNone mode = iota
	modeNumber
	modeLetter
	modeSymbol
)

func (m mode) String() string {
	switch m {
	case modeNumber:
		return "number"
	case modeLetter:
		return "letter"
	case modeSymbol:
		return "symbol"
	}
	return "none"
}

// Encoder turns text into a cell sequence. It holds no per-call state and is
// safe for concurrent use.
type Encoder struct {
	tables *Tables
	opt    EncodeOpt
}

// NewEncoder binds an encoder to a table set. A nil set uses DefaultTables.
func NewEncoder(ts *Tables, opt EncodeOpt) *Encoder {
	if ts == nil {
		ts = DefaultTables()
	}
	return &Encoder{tables: ts, opt: opt}
}

// Encode translates text. Encoding never fails as a whole: characters that
// cannot be mapped become the Unknown cell and are listed in the returned
// report with their rune offset (after normalization).
func (e *Encoder) Encode(text string) (Sequence, Issues) {
	if e.opt.Normalize {
		text = norm.NFC.String(width.Fold.String(text))
	}
	st := encodeState{tables: e.tables, out: make(Sequence, 0, len(text))}
	rs := []rune(text)
	for i := 0; i < len(rs); {
		if e.opt.Abbreviations {
			if key, n, ok := e.matchAbbreviation(rs, i); ok {
				g, _ := e.tables.tables[CategoryAbbreviation].Glyph(key)
				st.emit(g)
				i += n
				continue
			}
		}
		st.encodeRune(rs[i], i)
		i++
	}
	return st.out, st.report
}

func (e *Encoder) matchAbbreviation(rs []rune, i int) (string, int, bool) {
	for _, k := range e.tables.abbrevKeys {
		if len(k) > len(rs)-i {
			continue
		}
		hit := true
		for j, r := range k {
			if rs[i+j] != r {
				hit = false
				break
			}
		}
		if hit {
			return string(k), len(k), true
		}
	}
	return "", 0, false
}

type encodeState struct {
	tables *Tables
	out    Sequence
	mode   mode
	report Issues
}

func (st *encodeState) modeTable() *Table {
	switch st.mode {
	case modeNumber:
		return st.tables.tables[CategoryDigit]
	case modeLetter:
		return st.tables.tables[CategoryLetter]
	}
	return nil
}

// emit appends a glyph that ends any active run. When the glyph's first cell
// would be read as part of the run, the terminator goes first.
func (st *encodeState) emit(g Glyph) {
	if t := st.modeTable(); t != nil && len(g) > 0 && t.Contains(g[0]) {
		st.out = append(st.out, st.tables.controls.Terminator)
	}
	st.out = append(st.out, g...)
	st.mode = modeNone
}

// enter starts a run, writing its prefix once.
func (st *encodeState) enter(m mode, prefix Cell) {
	if st.mode != m {
		st.out = append(st.out, prefix)
		st.mode = m
	}
}

func (st *encodeState) unknown(r rune, offset int, code, msg string, cause error) {
	st.report = AppendIssues(st.report, Issue{
		Path:          "/" + strconv.Itoa(offset),
		Code:          code,
		Message:       msg,
		Cause:         cause,
		Offset:        int64(offset),
		InputFragment: string(r),
	})
	st.emit(Glyph{Unknown})
}

func (st *encodeState) encodeRune(r rune, offset int) {
	ts := st.tables
	switch {
	case isASCIIDigit(r):
		if g, ok := ts.tables[CategoryDigit].Glyph(string(r)); ok {
			st.enter(modeNumber, ts.controls.Number)
			st.out = append(st.out, g...)
			return
		}
	case isASCIILetter(r):
		if g, ok := ts.tables[CategoryLetter].Glyph(string(unicode.ToLower(r))); ok {
			st.enter(modeLetter, ts.controls.Letter)
			st.out = append(st.out, g...)
			return
		}
	case hangul.IsSyllable(r):
		st.encodeSyllable(r, offset)
		return
	}
	if g, ok := ts.tables[CategorySymbol].Glyph(string(r)); ok {
		st.emit(g)
		return
	}
	if g, ok := ts.alternates[string(r)]; ok {
		st.emit(g)
		return
	}
	st.unknown(r, offset, CodeUnmappedSymbol, "no table entry", nil)
}

func (st *encodeState) encodeSyllable(r rune, offset int) {
	ts := st.tables
	j, err := hangul.Decompose(r)
	if err != nil {
		st.unknown(r, offset, CodeDecompositionFailed, err.Error(), err)
		return
	}
	ini, med, fin := j.Strings()
	gi, ok1 := ts.tables[CategoryInitial].Glyph(ini)
	gm, ok2 := ts.tables[CategoryMedial].Glyph(med)
	var gf Glyph
	ok3 := true
	switch {
	case fin != "":
		gf, ok3 = ts.tables[CategoryFinal].Glyph(fin)
	case ts.controls.NoFinal != Unknown:
		gf = Glyph{ts.controls.NoFinal}
	}
	if !ok1 || !ok2 || !ok3 {
		st.unknown(r, offset, CodeDecompositionFailed, "jamo missing from tables: "+j.String(), nil)
		return
	}
	g := make(Glyph, 0, len(gi)+len(gm)+len(gf))
	g = append(append(append(g, gi...), gm...), gf...)
	st.emit(g)
}
