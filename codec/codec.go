// Package codec converts cell sequences to and from their external text
// forms: space-separated binary groups, Unicode braille patterns and dot
// numbers.
package codec

import (
	"fmt"
	"sort"

	"github.com/reoring/jeomja"
)

// Codec converts between a cell sequence and one external representation.
type Codec interface {
	Name() string
	Format(seq jeomja.Sequence) string
	Parse(s string) (jeomja.Sequence, error)
}

var registry = map[string]Codec{
	"binary":  Binary(),
	"unicode": Unicode(),
	"dots":    Dots(),
}

// ByName returns the codec registered as name.
func ByName(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("codec: unknown format %q (want one of %v)", name, Names())
	}
	return c, nil
}

// Names lists the registered formats.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
