// Package timestamp parses the configured countdown target.
package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTarget is wrapped by every parse failure.
var ErrInvalidTarget = errors.New("invalid target instant")

// zoned layouts carry their own offset; local layouts are read in the
// parser's location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// minUnixDigits keeps short integers such as YYYYMMDD dates from being read
// as unix seconds. Nine digits reach back to March 1973.
const (
	minUnixDigits     = 9
	compactDateLayout = "20060102"
)

// Parser turns user-supplied target strings into instants.
type Parser struct {
	loc *time.Location
}

// NewParser returns a parser that reads zone-less inputs in loc
// (time.Local when nil).
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// Parse accepts RFC 3339, common date-time layouts, compact YYYYMMDD
// dates and unix seconds (at least minUnixDigits digits).
func (p *Parser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTarget)
	}

	if isDigits(s) {
		return p.parseNumeric(s)
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
}

// ParseTarget parses s in the named IANA zone ("" or "Local" for the
// system zone).
func ParseTarget(s, zone string) (time.Time, error) {
	loc, err := LoadLocation(zone)
	if err != nil {
		return time.Time{}, err
	}
	return NewParser(loc).Parse(s)
}

// LoadLocation resolves a zone name, treating "" as the system zone.
func LoadLocation(zone string) (*time.Location, error) {
	if zone == "" || strings.EqualFold(zone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", zone, err)
	}
	return loc, nil
}

// parseNumeric handles all-digit input: YYYYMMDD or unix seconds.
func (p *Parser) parseNumeric(s string) (time.Time, error) {
	switch {
	case len(s) == len(compactDateLayout):
		t, err := time.ParseInLocation(compactDateLayout, s, p.loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a YYYYMMDD date", ErrInvalidTarget, s)
		}
		return t, nil
	case len(s) >= minUnixDigits:
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTarget, s, err)
		}
		return time.Unix(secs, 0).In(p.loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
