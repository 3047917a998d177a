package post

import (
	"errors"
	"strings"
	"time"
)

// DateLayouts lists the ISO-8601 shapes accepted in front matter, most
// specific first. Date-only values resolve to midnight UTC.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ErrInvalidDate indicates a date string matched none of the accepted
// ISO-8601 layouts.
var ErrInvalidDate = errors.New("post: invalid date format")

// ParseDate parses an ISO-8601 front matter date. Layouts without an offset
// are interpreted as UTC.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range DateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
