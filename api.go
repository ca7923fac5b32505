package jeomja

// Encode translates text with the default tables and options.
func Encode(text string) Sequence {
	seq, _ := NewEncoder(nil, DefaultEncodeOpt()).Encode(text)
	return seq
}

// EncodeWith translates text with the default tables and the given options.
func EncodeWith(text string, opt EncodeOpt) (Sequence, Issues) {
	return NewEncoder(nil, opt).Encode(text)
}

// Decode reconstructs text with the default tables. Markers use the current
// i18n language.
func Decode(seq Sequence) string {
	text, _ := NewDecoder(nil, DecodeOpt{}).Decode(seq)
	return text
}

// Translate is Encode followed by Decode; it shows what a reader of the
// braille would get back.
func Translate(text string) string { return Decode(Encode(text)) }
