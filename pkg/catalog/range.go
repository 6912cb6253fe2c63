package catalog

import (
	"fmt"
	"strconv"
)

// Range is an inclusive interval over numeric identifiers.
type Range struct {
	Start int
	End   int
}

// Contains reports whether id is a plain decimal number within the range.
// Signs, spaces and other non-digit characters never match.
func (r Range) Contains(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		// Overflow
		return false
	}
	return r.Start <= n && n <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}
