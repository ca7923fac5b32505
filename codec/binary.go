package codec

import "github.com/reoring/jeomja"

// Binary returns the codec for "100000 110000" style strings. Parsing
// validates every group before any cell is produced.
func Binary() Codec { return binaryCodec{} }

type binaryCodec struct{}

func (binaryCodec) Name() string { return "binary" }

func (binaryCodec) Format(seq jeomja.Sequence) string { return seq.Bits() }

func (binaryCodec) Parse(s string) (jeomja.Sequence, error) { return jeomja.ParseBinary(s) }
