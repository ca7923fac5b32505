package codec

import (
	"strconv"
	"strings"

	"github.com/reoring/jeomja"
)

// Dots returns the codec for dot-number notation: cells separated by spaces
// or '-', each cell written as its raised dots ("1-25 3456"), "0" for the
// empty cell.
func Dots() Codec { return dotsCodec{} }

type dotsCodec struct{}

func (dotsCodec) Name() string { return "dots" }

func (dotsCodec) Format(seq jeomja.Sequence) string { return seq.Dots() }

func (dotsCodec) Parse(s string) (jeomja.Sequence, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	if len(fields) == 0 {
		return nil, jeomja.Issues{{Path: "/", Code: jeomja.CodeEmpty, Message: "no cells", Offset: -1}}
	}
	out := make(jeomja.Sequence, 0, len(fields))
	var iss jeomja.Issues
	for i, f := range fields {
		c, err := jeomja.ParseCellDots(f)
		if err != nil {
			cell, _ := jeomja.AsIssues(err)
			for _, it := range cell {
				it.Path = "/" + strconv.Itoa(i)
				it.Offset = int64(i)
				iss = jeomja.AppendIssues(iss, it)
			}
			continue
		}
		out = append(out, c)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
