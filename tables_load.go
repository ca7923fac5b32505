package jeomja

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/reoring/jeomja/internal/tabledata"
)

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// DefaultTables returns the embedded Korean/Latin table set. It is built once
// and shared; a conflict in the embedded data panics because no call could
// trust it.
func DefaultTables() *Tables {
	defaultOnce.Do(func() {
		doc, err := tabledata.ReadDefault()
		if err != nil {
			panic(fmt.Sprintf("jeomja: embedded tables: %v", err))
		}
		ts, err := Build(tableDataFromDocument(doc))
		if err != nil {
			panic(fmt.Sprintf("jeomja: embedded tables: %v", err))
		}
		defaultTables = ts
	})
	return defaultTables
}

// DefaultTableData returns the declarative form of the embedded tables, for
// callers that want to derive a custom set from them.
func DefaultTableData() TableData {
	doc, err := tabledata.ReadDefault()
	if err != nil {
		panic(fmt.Sprintf("jeomja: embedded tables: %v", err))
	}
	return tableDataFromDocument(doc)
}

// ParseTableData reads a YAML table document. Duplicate YAML keys and schema
// violations are reported as Issues.
func ParseTableData(r io.Reader) (TableData, error) {
	doc, err := tabledata.Read(r)
	if err != nil {
		return TableData{}, documentIssues(err)
	}
	return tableDataFromDocument(doc), nil
}

// LoadTables reads and builds a table set from a YAML document.
func LoadTables(r io.Reader) (*Tables, error) {
	d, err := ParseTableData(r)
	if err != nil {
		return nil, err
	}
	return Build(d)
}

func documentIssues(err error) error {
	var de *tabledata.DuplicateKeyError
	if errors.As(err, &de) {
		path := de.Path
		if path == "/" {
			path = ""
		}
		return Issues{{
			Path:    path + "/" + de.Key,
			Code:    CodeDuplicateKey,
			Message: de.Error(),
			Cause:   err,
			Offset:  -1,
			Params:  map[string]any{"line": de.Line, "column": de.Col, "firstLine": de.FirstLine, "firstColumn": de.FirstCol},
		}}
	}
	var se *tabledata.SchemaError
	if errors.As(err, &se) {
		iss := make(Issues, 0, len(se.Violations))
		for _, v := range se.Violations {
			iss = append(iss, Issue{Path: v.Path, Code: CodeInvalidTable, Message: v.Message, Offset: -1})
		}
		return iss
	}
	return Issues{{Path: "/", Code: CodeInvalidTable, Message: err.Error(), Cause: err, Offset: -1}}
}

func tableDataFromDocument(doc map[string]any) TableData {
	d := TableData{
		Name:         str(doc["name"]),
		Controls:     strMap(doc["controls"]),
		Initial:      strMap(doc["initial"]),
		Medial:       strMap(doc["medial"]),
		Final:        strMap(doc["final"]),
		Letter:       strMap(doc["letter"]),
		Digit:        strMap(doc["digit"]),
		Symbol:       strMap(doc["symbol"]),
		Abbreviation: strMap(doc["abbreviation"]),
	}
	if arr, ok := doc["ambiguous"].([]any); ok {
		for _, el := range arr {
			m, _ := el.(map[string]any)
			d.Ambiguous = append(d.Ambiguous, AmbiguousEntry{
				Symbol:    str(m["symbol"]),
				Alternate: str(m["alternate"]),
				Rule:      Rule(str(m["rule"])),
			})
		}
	}
	return d
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, el := range m {
		out[k] = str(el)
	}
	return out
}
