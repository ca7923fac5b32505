package jeomja

import (
	"strconv"
	"strings"
)

// ValidateBinary checks a space-separated binary cell string: it must be
// non-empty and every group must be exactly six characters drawn from {0,1}.
// It returns nil when valid and Issues (one per bad group) otherwise.
func ValidateBinary(s string) error {
	groups := strings.Fields(s)
	if len(groups) == 0 {
		return Issues{{Path: "/", Code: CodeEmpty, Message: "no cells", Offset: -1}}
	}
	var iss Issues
	for i, g := range groups {
		if _, err := ParseCellBits(g); err != nil {
			cell, _ := AsIssues(err)
			for _, it := range cell {
				it.Path = "/" + strconv.Itoa(i)
				it.Offset = int64(i)
				iss = AppendIssues(iss, it)
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// IsValidBinary is ValidateBinary as a predicate.
func IsValidBinary(s string) bool { return ValidateBinary(s) == nil }

// ParseBinary validates s and returns its cells.
func ParseBinary(s string) (Sequence, error) {
	if err := ValidateBinary(s); err != nil {
		return nil, err
	}
	groups := strings.Fields(s)
	out := make(Sequence, len(groups))
	for i, g := range groups {
		out[i], _ = ParseCellBits(g)
	}
	return out, nil
}
