package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout used for every stored date.
const DateLayout = "2006-01-02"

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
	"2006/01/02",
	"2006/1/2",
}

// ParseDate parses the date formats accepted for registerDate and
// expireDate. Forms without a zone resolve to UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// DateOrZero returns the parsed date or the zero time.
func DateOrZero(s string) time.Time {
	t, _ := ParseDate(s)
	return t
}
