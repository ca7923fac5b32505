package tabledata

import (
	"cmp"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a mapping key that appears twice. Path is the
// JSON Pointer of the mapping; the positions are 1-based line:column.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q in %s at %d:%d (first at %d:%d)", e.Key, e.Path, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// decodeStrict reads one YAML document through yaml.Node so duplicate keys
// are caught with positions. Every scalar stays a string: cell patterns such
// as 1246 must never become numbers. An empty stream returns io.EOF.
func decodeStrict(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return plain(&doc, "")
}

func plain(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return plain(n.Content[0], path)
	case yaml.AliasNode:
		return plain(n.Alias, path)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, el := range n.Content {
			v, err := plain(el, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		seen := make(map[string]*yaml.Node, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if prev, dup := seen[k.Value]; dup {
				return nil, &DuplicateKeyError{
					Key: k.Value, Path: cmp.Or(path, "/"),
					FirstLine: prev.Line, FirstCol: prev.Column,
					Line: k.Line, Col: k.Column,
				}
			}
			seen[k.Value] = k
			v, err := plain(n.Content[i+1], path+"/"+k.Value)
			if err != nil {
				return nil, err
			}
			out[k.Value] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("tabledata: unsupported YAML node kind %d at %s", n.Kind, cmp.Or(path, "/"))
}
