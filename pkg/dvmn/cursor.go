package dvmn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// ParseCursor reads a starting cursor supplied by an operator. Both unix timestamps and human readable dates are accepted.
// An empty string yields the zero cursor.
func ParseCursor(s string) (Cursor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cursor{}, nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NewCursor(f), nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}

	return NewCursor(float64(t.Unix())), nil
}
