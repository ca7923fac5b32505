package jeomja

import "unicode"

// openingContext holds characters after which an opening quote is expected.
// Start of text counts as opening context as well.
var openingContext = runeSet(" \n\t\r([{<\"'“‘,.!?;:")

// closingContext holds characters after which a closing quote is expected.
var closingContext = runeSet(")]}>\"'”’.,!?;:")

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

// ambiguityContext is what a rule may look at: the single preceding decoded
// character and the cell after the ambiguous one.
type ambiguityContext struct {
	prev    rune
	hasPrev bool
	next    Cell
	hasNext bool
}

// resolve picks the symbol for an ambiguous cell. It never fails: without
// context each rule falls back to its documented default.
func (ts *Tables) resolve(a Ambiguity, ctx ambiguityContext) string {
	if ts.ruleHolds(a.Rule, ctx) {
		return a.Alternate
	}
	return a.Symbol
}

func (ts *Tables) ruleHolds(r Rule, ctx ambiguityContext) bool {
	switch r {
	case RuleOpening:
		return !ctx.hasPrev || openingContext[ctx.prev]
	case RuleClosing:
		return ctx.hasPrev && (unicode.IsLetter(ctx.prev) || unicode.IsDigit(ctx.prev) || closingContext[ctx.prev])
	case RuleDigitBetween:
		return ctx.hasPrev && isASCIIDigit(ctx.prev) && ctx.hasNext && ts.tables[CategoryDigit].Contains(ctx.next)
	case RuleNumeric:
		return ctx.hasPrev && isASCIIDigit(ctx.prev) && ctx.hasNext &&
			(ts.tables[CategoryDigit].Contains(ctx.next) || ctx.next == ts.controls.Number)
	}
	return false
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIILetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
