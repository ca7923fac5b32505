package jeomja

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Category names one symbol table.
type Category int

const (
	CategoryInitial Category = iota
	CategoryMedial
	CategoryFinal
	CategoryLetter
	CategoryDigit
	CategorySymbol
	CategoryAbbreviation

	numCategories
)

var categoryNames = [numCategories]string{"initial", "medial", "final", "letter", "digit", "symbol", "abbreviation"}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories lists every category in table order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Table is one immutable category: key to Glyph and the exact inverse.
type Table struct {
	category Category
	forward  map[string]Glyph
	inverse  map[string]string
	keys     []string
	maxLen   int
}

func newTable(c Category, size int) *Table {
	return &Table{category: c, forward: make(map[string]Glyph, size), inverse: make(map[string]string, size)}
}

// add registers key. It returns the key already holding g when the glyph is
// taken.
func (t *Table) add(key string, g Glyph) (string, bool) {
	k := g.Key()
	if prev, dup := t.inverse[k]; dup {
		return prev, false
	}
	t.forward[key] = g
	t.inverse[k] = key
	t.keys = append(t.keys, key)
	t.maxLen = max(t.maxLen, len(g))
	return "", true
}

func (t *Table) Category() Category { return t.category }

func (t *Table) Len() int { return len(t.forward) }

// MaxLen is the longest glyph in cells.
func (t *Table) MaxLen() int { return t.maxLen }

// Keys returns the keys in sorted order.
func (t *Table) Keys() []string {
	out := append([]string(nil), t.keys...)
	sort.Strings(out)
	return out
}

// Glyph returns the glyph for key.
func (t *Table) Glyph(key string) (Glyph, bool) {
	g, ok := t.forward[key]
	return g, ok
}

// Key returns the key whose glyph is exactly g.
func (t *Table) Key(g Glyph) (string, bool) {
	k, ok := t.inverse[g.Key()]
	return k, ok
}

// Contains reports whether c alone is a glyph of the table.
func (t *Table) Contains(c Cell) bool {
	_, ok := t.inverse[string([]byte{byte(c)})]
	return ok
}

// Match finds the longest glyph of the table starting at seq[i] and returns
// its key and length in cells.
func (t *Table) Match(seq Sequence, i int) (key string, n int, ok bool) {
	for n = min(t.maxLen, len(seq)-i); n > 0; n-- {
		if key, ok = t.inverse[seq.keyAt(i, n)]; ok {
			return key, n, true
		}
	}
	return "", 0, false
}

// Rule selects when an ambiguous cell decodes to its alternate symbol.
type Rule string

const (
	// RuleOpening: previous character is absent, whitespace, an opening
	// bracket or quote, or punctuation.
	RuleOpening Rule = "opening"
	// RuleClosing: previous character is a letter, a digit, a closing bracket
	// or quote, or sentence punctuation.
	RuleClosing Rule = "closing"
	// RuleDigitBetween: previous character is a digit and the next cell is a
	// bare digit.
	RuleDigitBetween Rule = "digit_between"
	// RuleNumeric: previous character is a digit and the next cell is a digit
	// or the number prefix.
	RuleNumeric Rule = "numeric"
	// RuleNever always keeps the table symbol.
	RuleNever Rule = "never"
)

func (r Rule) known() bool {
	switch r {
	case RuleOpening, RuleClosing, RuleDigitBetween, RuleNumeric, RuleNever:
		return true
	}
	return false
}

// Ambiguity is a cell shared by a symbol-table entry and an alternate
// character that encodes to the same cell.
type Ambiguity struct {
	Cell      Cell
	Symbol    string
	Alternate string
	Rule      Rule
}

// Controls are the single-cell mode glyphs. NoFinal is Unknown when the
// tables define no explicit empty final.
type Controls struct {
	Number     Cell
	Letter     Cell
	Symbol     Cell
	Terminator Cell
	NoFinal    Cell
}

// Tables is an immutable table set shared by encoders and decoders.
type Tables struct {
	name       string
	tables     [numCategories]*Table
	controls   Controls
	abbrevKeys [][]rune
	ambiguous  map[Cell]Ambiguity
	alternates map[string]Glyph
}

func (ts *Tables) Name() string { return ts.name }

// Table returns the table of a category.
func (ts *Tables) Table(c Category) *Table { return ts.tables[c] }

func (ts *Tables) Controls() Controls { return ts.controls }

// AbbreviationKeys lists abbreviation keys longest first.
func (ts *Tables) AbbreviationKeys() []string {
	out := make([]string, len(ts.abbrevKeys))
	for i, k := range ts.abbrevKeys {
		out[i] = string(k)
	}
	return out
}

// Ambiguities lists the ambiguous cell registry ordered by cell.
func (ts *Tables) Ambiguities() []Ambiguity {
	out := make([]Ambiguity, 0, len(ts.ambiguous))
	for _, a := range ts.ambiguous {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cell < out[j].Cell })
	return out
}

// AmbiguityOf returns the registry entry for c.
func (ts *Tables) AmbiguityOf(c Cell) (Ambiguity, bool) {
	a, ok := ts.ambiguous[c]
	return a, ok
}

// TableData is the declarative form of a table set. Glyphs use dot-number
// notation with '-' between cells ("6-4").
type TableData struct {
	Name string
	// Controls keys: number, letter, symbol, terminator, no_final.
	Controls     map[string]string
	Initial      map[string]string
	Medial       map[string]string
	Final        map[string]string
	Letter       map[string]string
	Digit        map[string]string
	Symbol       map[string]string
	Abbreviation map[string]string
	Ambiguous    []AmbiguousEntry
}

// AmbiguousEntry declares an alternate character for a symbol's cell.
type AmbiguousEntry struct {
	Symbol    string
	Alternate string
	Rule      Rule
}

func (d *TableData) category(c Category) map[string]string {
	switch c {
	case CategoryInitial:
		return d.Initial
	case CategoryMedial:
		return d.Medial
	case CategoryFinal:
		return d.Final
	case CategoryLetter:
		return d.Letter
	case CategoryDigit:
		return d.Digit
	case CategorySymbol:
		return d.Symbol
	case CategoryAbbreviation:
		return d.Abbreviation
	}
	return nil
}

// Build constructs an immutable table set. Every conflict is collected; the
// error is Issues when any is found.
func Build(d TableData) (*Tables, error) {
	ts, iss := build(d)
	if len(iss) > 0 {
		return nil, iss
	}
	return ts, nil
}

// Conflicts runs the construction checks and returns every problem found,
// including duplicate glyphs within a category.
func Conflicts(d TableData) Issues {
	_, iss := build(d)
	return iss
}

func build(d TableData) (*Tables, Issues) {
	var iss Issues
	ts := &Tables{name: d.Name, ambiguous: map[Cell]Ambiguity{}, alternates: map[string]Glyph{}}

	for _, c := range Categories() {
		src := d.category(c)
		t := newTable(c, len(src))
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			path := "/" + c.String() + "/" + k
			g, err := ParseGlyph(src[k])
			if err != nil {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: "malformed glyph", InputFragment: src[k], Cause: err, Offset: -1})
				continue
			}
			if k == "" {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: "empty key", Offset: -1})
				continue
			}
			if containsUnknown(g) {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: "the empty cell is reserved for unknown characters", InputFragment: src[k], Offset: -1})
				continue
			}
			if (c == CategoryLetter || c == CategoryDigit) && (len(g) != 1 || utf8.RuneCountInString(k) != 1) {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: "letters and digits map one character to one cell", InputFragment: src[k], Offset: -1})
				continue
			}
			if prev, ok := t.add(k, g); !ok {
				iss = AppendIssues(iss, Issue{
					Path:    path,
					Code:    CodeDuplicateGlyph,
					Message: fmt.Sprintf("%q and %q map to the same glyph %s", prev, k, g.Dots()),
					Offset:  -1,
					Params:  map[string]any{"category": c.String(), "first": prev, "second": k, "glyph": g.Dots()},
				})
			}
		}
		ts.tables[c] = t
	}

	ts.controls, iss = buildControls(d.Controls, ts, iss)
	iss = buildAmbiguous(d.Ambiguous, ts, iss)

	abbr := ts.tables[CategoryAbbreviation].Keys()
	sort.SliceStable(abbr, func(i, j int) bool {
		return utf8.RuneCountInString(abbr[i]) > utf8.RuneCountInString(abbr[j])
	})
	ts.abbrevKeys = make([][]rune, len(abbr))
	for i, k := range abbr {
		ts.abbrevKeys[i] = []rune(k)
	}
	return ts, iss
}

func containsUnknown(g Glyph) bool {
	for _, c := range g {
		if c == Unknown {
			return true
		}
	}
	return false
}

var controlNames = []string{"number", "letter", "symbol", "terminator", "no_final"}

// startCategories are the tables whose glyphs may begin a unit in the
// decoder; a control sharing one of their first cells would shadow it.
var startCategories = []Category{CategoryInitial, CategoryLetter, CategoryDigit, CategorySymbol, CategoryAbbreviation}

func buildControls(src map[string]string, ts *Tables, iss Issues) (Controls, Issues) {
	var ctl Controls
	cells := map[string]Cell{}
	seen := map[Cell]string{}
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !isControlName(name) {
			iss = AppendIssues(iss, Issue{Path: "/controls/" + name, Code: CodeInvalidTable, Message: "unknown control", Offset: -1})
		}
	}
	for _, name := range controlNames {
		v, ok := src[name]
		path := "/controls/" + name
		if !ok {
			if name == "number" || name == "letter" || name == "terminator" {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: "required control missing", Offset: -1})
			}
			continue
		}
		g, err := ParseGlyph(v)
		if err != nil || len(g) != 1 || g[0] == Unknown {
			iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: "control must be one non-empty cell", InputFragment: v, Cause: err, Offset: -1})
			continue
		}
		c := g[0]
		if other, dup := seen[c]; dup {
			iss = AppendIssues(iss, Issue{Path: path, Code: CodeDuplicateGlyph, Message: fmt.Sprintf("controls %s and %s share cell %s", other, name, c.Dots()), Offset: -1,
				Params: map[string]any{"category": "controls", "first": other, "second": name, "glyph": c.Dots()}})
			continue
		}
		seen[c] = name
		cells[name] = c
		if name == "no_final" {
			if key, _, hit := ts.tables[CategoryFinal].Match(Sequence{c}, 0); hit {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: fmt.Sprintf("no_final shadows final %q", key), Offset: -1})
			}
			continue
		}
		for _, cat := range startCategories {
			if key, ok := firstCellOwner(ts.tables[cat], c); ok {
				iss = AppendIssues(iss, Issue{Path: path, Code: CodeInvalidTable, Message: fmt.Sprintf("control %s shadows %s %q", name, cat, key), Offset: -1,
					Params: map[string]any{"category": cat.String(), "key": key, "glyph": c.Dots()}})
			}
		}
	}
	ctl.Number = cells["number"]
	ctl.Letter = cells["letter"]
	ctl.Symbol = cells["symbol"]
	ctl.Terminator = cells["terminator"]
	ctl.NoFinal = cells["no_final"]
	return ctl, iss
}

func isControlName(s string) bool {
	for _, n := range controlNames {
		if n == s {
			return true
		}
	}
	return false
}

func firstCellOwner(t *Table, c Cell) (string, bool) {
	for _, k := range t.keys {
		if t.forward[k][0] == c {
			return k, true
		}
	}
	return "", false
}

func buildAmbiguous(src []AmbiguousEntry, ts *Tables, iss Issues) Issues {
	sym := ts.tables[CategorySymbol]
	for i, e := range src {
		path := fmt.Sprintf("/ambiguous/%d", i)
		g, ok := sym.Glyph(e.Symbol)
		switch {
		case !ok:
			iss = AppendIssues(iss, Issue{Path: path + "/symbol", Code: CodeInvalidTable, Message: fmt.Sprintf("symbol %q is not in the symbol table", e.Symbol), Offset: -1})
			continue
		case len(g) != 1:
			iss = AppendIssues(iss, Issue{Path: path + "/symbol", Code: CodeInvalidTable, Message: "ambiguous symbols must be a single cell", Offset: -1})
			continue
		case utf8.RuneCountInString(e.Alternate) != 1:
			iss = AppendIssues(iss, Issue{Path: path + "/alternate", Code: CodeInvalidTable, Message: "alternate must be one character", Offset: -1})
			continue
		case !e.Rule.known():
			iss = AppendIssues(iss, Issue{Path: path + "/rule", Code: CodeInvalidTable, Message: fmt.Sprintf("unknown rule %q", e.Rule), Offset: -1})
			continue
		}
		if _, taken := sym.Glyph(e.Alternate); taken {
			iss = AppendIssues(iss, Issue{Path: path + "/alternate", Code: CodeDuplicateKey, Message: fmt.Sprintf("alternate %q is already a symbol", e.Alternate), Offset: -1})
			continue
		}
		if prev, dup := ts.ambiguous[g[0]]; dup {
			iss = AppendIssues(iss, Issue{Path: path, Code: CodeDuplicateGlyph, Message: fmt.Sprintf("cell %s already aliases %q", g[0].Dots(), prev.Alternate), Offset: -1})
			continue
		}
		if _, dup := ts.alternates[e.Alternate]; dup {
			iss = AppendIssues(iss, Issue{Path: path + "/alternate", Code: CodeDuplicateKey, Message: fmt.Sprintf("alternate %q declared twice", e.Alternate), Offset: -1})
			continue
		}
		ts.ambiguous[g[0]] = Ambiguity{Cell: g[0], Symbol: e.Symbol, Alternate: e.Alternate, Rule: e.Rule}
		ts.alternates[e.Alternate] = g
	}
	return iss
}

// String summarizes the table sizes.
func (ts *Tables) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tables %q:", ts.name)
	for _, c := range Categories() {
		fmt.Fprintf(&b, " %s=%d", c, ts.tables[c].Len())
	}
	return b.String()
}
