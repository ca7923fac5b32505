package jeomja

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported in Issue.Code.
const (
	// External representation (binary strings, codepoints, dot notation)
	CodeEmpty        = "empty"
	CodeInvalidWidth = "invalid_width"
	CodeInvalidDot   = "invalid_dot"
	CodeOutOfRange   = "out_of_range"
	// Table construction
	CodeDuplicateGlyph = "duplicate_glyph"
	CodeDuplicateKey   = "duplicate_key"
	CodeInvalidTable   = "invalid_table"
	// Per-unit translation diagnostics (never fatal)
	CodeUnmappedSymbol      = "unmapped_symbol"
	CodeDecompositionFailed = "decomposition_failed"
	CodeCompositionFailed   = "composition_failed"
	CodeAmbiguousCell       = "ambiguous_cell"
	CodeUnrecognizedCell    = "unrecognized_cell"
)

// Issue represents a single diagnostic entry.
type Issue struct {
	Path    string // JSON Pointer-like location (for example: /symbol/? or /3).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Offset is the rune offset in text input or the cell index in a sequence
	// (-1 when unknown).
	Offset int64
	// InputFragment is an optional snippet of the offending input.
	InputFragment string
	// Params carries structured parameters (e.g., {"first":"a","second":"b"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_width at /1
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see through the collection.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// HasCode reports whether any issue carries the given code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
