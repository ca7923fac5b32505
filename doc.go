// Package jeomja transliterates between text (Hangul syllables, Latin
// letters, digits, punctuation) and six-dot braille cells.
//
// Package layout:
//
//   - The root package holds the cell model, the immutable symbol tables,
//     the Encoder and the Decoder, and the Issues error model.
//   - Table data lives in internal/tabledata as embedded YAML checked by a
//     JSON Schema; internal/hangul does syllable arithmetic.
//   - Format adapters (binary, Unicode, dot numbers) are under codec/, raster
//     I/O under render/, marker messages under i18n/, the HTTP API under
//     server/ and the CLI under cmd/jeomja.
//
// Encoding works left to right without backtracking: abbreviations first
// (longest key wins), then digits and Latin letters in prefixed runs, symbols,
// and Hangul syllables spelled as initial + medial + final. Decoding mirrors
// it with longest-match lookups and never fails; cells it cannot place become
// inline markers.
//
// Typical usage:
//
//	seq := jeomja.Encode("안녕")
//	fmt.Println(seq.Unicode())
//	fmt.Println(jeomja.Decode(seq))
//
//	enc := jeomja.NewEncoder(tables, jeomja.EncodeOpt{Abbreviations: false})
//	seq, report := enc.Encode(text)
package jeomja
