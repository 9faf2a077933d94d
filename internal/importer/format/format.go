package format

import (
	"errors"
	"strings"
)

var errEmpty = errors.New("value is empty")

// optional trims a cell and maps the empty string to absence.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
