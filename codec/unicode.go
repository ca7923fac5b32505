package codec

import (
	"strconv"
	"unicode"

	"github.com/reoring/jeomja"
)

// Unicode returns the codec for braille pattern text (U+2800..U+283F), one
// codepoint per cell. Whitespace between patterns is ignored.
func Unicode() Codec { return unicodeCodec{} }

type unicodeCodec struct{}

func (unicodeCodec) Name() string { return "unicode" }

func (unicodeCodec) Format(seq jeomja.Sequence) string { return seq.Unicode() }

func (unicodeCodec) Parse(s string) (jeomja.Sequence, error) {
	var (
		out jeomja.Sequence
		iss jeomja.Issues
	)
	i := 0
	for _, r := range s {
		if c, ok := jeomja.CellFromRune(r); ok {
			out = append(out, c)
		} else if !unicode.IsSpace(r) {
			iss = jeomja.AppendIssues(iss, jeomja.Issue{
				Path:          "/" + strconv.Itoa(i),
				Code:          jeomja.CodeOutOfRange,
				Message:       "not a six-dot braille pattern",
				Offset:        int64(i),
				InputFragment: string(r),
				Params:        map[string]any{"codepoint": strconv.QuoteRuneToASCII(r)},
			})
		}
		i++
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if len(out) == 0 {
		return nil, jeomja.Issues{{Path: "/", Code: jeomja.CodeEmpty, Message: "no cells", Offset: -1}}
	}
	return out, nil
}
