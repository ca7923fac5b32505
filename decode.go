package jeomja

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/jeomja/i18n"
	"github.com/reoring/jeomja/internal/hangul"
)

// DecodeOpt controls the decoder.
type DecodeOpt struct {
	// Translator renders inline markers. Nil uses the package-level i18n
	// translator at call time.
	Translator i18n.Translator
}

// Decoder turns a cell sequence back into text. It holds no per-call state
// and is safe for concurrent use.
type Decoder struct {
	tables *Tables
	tr     i18n.Translator
}

// NewDecoder binds a decoder to a table set. A nil set uses DefaultTables.
func NewDecoder(ts *Tables, opt DecodeOpt) *Decoder {
	if ts == nil {
		ts = DefaultTables()
	}
	return &Decoder{tables: ts, tr: opt.Translator}
}

// Decode reconstructs text from seq. Decoding never fails: cells that match
// nothing, and jamo that do not compose, become inline markers in the text and
// are listed in the returned report with their cell index.
func (d *Decoder) Decode(seq Sequence) (string, Issues) {
	tr := d.tr
	if tr == nil {
		tr = i18n.Current()
	}
	st := decodeState{tables: d.tables, seq: seq, tr: tr}
	for st.i < len(seq) {
		st.step()
	}
	return st.out.String(), st.report
}

type decodeState struct {
	tables *Tables
	seq    Sequence
	tr     i18n.Translator
	i      int
	mode   mode
	out    strings.Builder
	report Issues
}

func (st *decodeState) write(s string, n int) {
	st.out.WriteString(s)
	st.i += n
}

func (st *decodeState) prev() (rune, bool) {
	s := st.out.String()
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, true
}

func (st *decodeState) modeTable() *Table {
	switch st.mode {
	case modeNumber:
		return st.tables.tables[CategoryDigit]
	case modeLetter:
		return st.tables.tables[CategoryLetter]
	case modeSymbol:
		return st.tables.tables[CategorySymbol]
	}
	return nil
}

// step consumes at least one cell.
func (st *decodeState) step() {
	ts := st.tables
	c := st.seq[st.i]

	// Mode prefixes and the terminator are consumed silently.
	switch {
	case c == ts.controls.Number:
		st.mode = modeNumber
		st.i++
		return
	case c == ts.controls.Letter:
		st.mode = modeLetter
		st.i++
		return
	case ts.controls.Symbol != Unknown && c == ts.controls.Symbol:
		st.mode = modeSymbol
		st.i++
		return
	case c == ts.controls.Terminator:
		st.mode = modeNone
		st.i++
		return
	}

	if t := st.modeTable(); t != nil {
		if key, n, ok := t.Match(st.seq, st.i); ok {
			st.write(key, n)
			return
		}
		st.mode = modeNone
	}

	if key, n, ok := ts.tables[CategoryAbbreviation].Match(st.seq, st.i); ok {
		st.write(key, n)
		return
	}

	if st.syllable() {
		return
	}

	if a, ok := ts.ambiguous[c]; ok {
		ctx := ambiguityContext{}
		ctx.prev, ctx.hasPrev = st.prev()
		if st.i+1 < len(st.seq) {
			ctx.next, ctx.hasNext = st.seq[st.i+1], true
		}
		if !ctx.hasPrev {
			st.report = AppendIssues(st.report, Issue{
				Path:    "/" + strconv.Itoa(st.i),
				Code:    CodeAmbiguousCell,
				Message: "no preceding character; resolved by default",
				Offset:  int64(st.i),
				Params:  map[string]any{"symbol": a.Symbol, "alternate": a.Alternate, "rule": string(a.Rule)},
			})
		}
		st.write(ts.resolve(a, ctx), 1)
		return
	}

	for _, cat := range []Category{CategoryLetter, CategorySymbol, CategoryDigit} {
		if key, n, ok := ts.tables[cat].Match(st.seq, st.i); ok {
			st.write(key, n)
			return
		}
	}

	bits := c.Bits()
	st.report = AppendIssues(st.report, Issue{
		Path:          "/" + strconv.Itoa(st.i),
		Code:          CodeUnrecognizedCell,
		Message:       "cell matches no table",
		Offset:        int64(st.i),
		InputFragment: bits,
	})
	st.write(st.marker(CodeUnrecognizedCell, map[string]string{"cell": bits}), 1)
}

// syllable recomposes initial + medial + optional final starting at st.i.
func (st *decodeState) syllable() bool {
	ts := st.tables
	ini, n1, ok := ts.tables[CategoryInitial].Match(st.seq, st.i)
	if !ok {
		return false
	}
	med, n2, ok := ts.tables[CategoryMedial].Match(st.seq, st.i+n1)
	if !ok {
		return false
	}
	at := st.i + n1 + n2
	fin, n3, ok := ts.tables[CategoryFinal].Match(st.seq, at)
	if !ok {
		fin, n3 = "", 0
		if ts.controls.NoFinal != Unknown && at < len(st.seq) && st.seq[at] == ts.controls.NoFinal {
			n3 = 1
		}
	}
	n := n1 + n2 + n3
	r, err := hangul.ComposeStrings(ini, med, fin)
	if err != nil {
		jamo := ini + "," + med + "," + fin
		st.report = AppendIssues(st.report, Issue{
			Path:          "/" + strconv.Itoa(st.i),
			Code:          CodeCompositionFailed,
			Message:       err.Error(),
			Cause:         err,
			Offset:        int64(st.i),
			InputFragment: st.seq[st.i : st.i+n].Bits(),
			Params:        map[string]any{"initial": ini, "medial": med, "final": fin},
		})
		st.write(st.marker(CodeCompositionFailed, map[string]string{"jamo": jamo}), n)
		return true
	}
	st.write(string(r), n)
	return true
}

func (st *decodeState) marker(code string, data map[string]string) string {
	return "[" + st.tr.Message(code, data) + "]"
}
