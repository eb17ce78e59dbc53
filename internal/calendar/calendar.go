// Package calendar holds the date arithmetic behind recurring tasks.
//
// Calendar dates are carried as time.Time values at midnight UTC and stored as
// "2006-01-02" strings, so comparisons and week math never cross a DST edge.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Layout is the wire and storage format of a calendar date.
const Layout = "2006-01-02"

var weekConfig = &now.Config{
	WeekStartDay: time.Monday,
	TimeLocation: time.UTC,
}

var shortNames = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	d, err := time.ParseInLocation(Layout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Format renders the calendar part of t.
func Format(t time.Time) string {
	return Normalize(t).Format(Layout)
}

// Normalize drops the clock part of t, keeping the calendar day t shows in its
// own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar day of instant t as seen in loc.
func Today(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return Normalize(t.In(loc))
}

// NextMonday returns the first Monday strictly after d.
func NextMonday(d time.Time) time.Time {
	return weekConfig.With(Normalize(d)).BeginningOfWeek().AddDate(0, 0, 7)
}

// GapWeeks counts the whole weeks between anchor and candidate.
//
// The anchor's own week is week 0 even when the anchor is a Monday; the week
// starting on the first Monday after the anchor is week 1. A candidate before
// the anchor yields -1.
func GapWeeks(anchor, candidate time.Time) int {
	anchor = Normalize(anchor)
	candidate = Normalize(candidate)

	if candidate.Before(anchor) {
		return -1
	}

	nextMonday := NextMonday(anchor)
	if candidate.Before(nextMonday) {
		return 0
	}

	// Sub saturates past roughly 292 years, so count days from Unix seconds.
	days := int((candidate.Unix() - nextMonday.Unix()) / 86400)
	return days/7 + 1
}

// ParseWeekday accepts the three-letter English day names ("Mon" ... "Sun"),
// case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	key := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	wd, ok := shortNames[key]
	if !ok {
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	return wd, nil
}

// ShortName is the three-letter name of wd, the inverse of ParseWeekday.
func ShortName(wd time.Weekday) string {
	return wd.String()[:3]
}
