package server

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/jeomja"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

type dupFrame struct {
	object       bool
	expectingKey bool
	keys         map[string]struct{}
	path         string
	key          string
	index        int
}

// duplicateKeys reports every object key that repeats within its object,
// at the JSON Pointer of the repeat. Syntax errors are returned as is.
func duplicateKeys(data []byte) (jeomja.Issues, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		iss   jeomja.Issues
		stack []dupFrame
	)
	// value returns the pointer of the value about to be read and advances
	// the enclosing container.
	value := func() string {
		n := len(stack)
		if n == 0 {
			return ""
		}
		top := &stack[n-1]
		if top.object {
			top.expectingKey = true
			return top.path + "/" + top.key
		}
		p := top.path + "/" + strconv.Itoa(top.index)
		top.index++
		return p
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if len(stack) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return iss, nil
		}
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				p := value()
				stack = append(stack, dupFrame{object: v == '{', expectingKey: v == '{', keys: map[string]struct{}{}, path: p})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				key := pointerEscaper.Replace(v)
				if _, dup := top.keys[v]; dup {
					iss = jeomja.AppendIssues(iss, jeomja.Issue{
						Path:    top.path + "/" + key,
						Code:    jeomja.CodeDuplicateKey,
						Message: "key '" + v + "' duplicated",
						Offset:  -1,
					})
				}
				top.keys[v] = struct{}{}
				top.key = key
				top.expectingKey = false
				continue
			}
			value()
		default:
			value()
		}
	}
}
