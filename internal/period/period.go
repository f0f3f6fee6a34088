// Package period computes the local wall-clock day and Monday-based week
// windows used by the range queries and reports.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/worklog/internal/model"
)

// DayLayout is the accepted day format on input and the key format for buckets
const DayLayout = "2006-01-02"

// DaysInWeek is the number of buckets in a weekly report
const DaysInWeek = 7

// Range is an inclusive window of local time
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End]
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps applies the membership rule used by the day and week queries:
// the entry starts inside the range, ends inside it, or starts before it
// and is either still open or ends after it.
func (r Range) Overlaps(start time.Time, end *time.Time) bool {
	if r.Contains(start) {
		return true
	}
	if end != nil && r.Contains(*end) {
		return true
	}
	return start.Before(r.Start) && (end == nil || end.After(r.End))
}

// StartOfDay returns midnight of t's local calendar day
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// EndOfDay returns the last microsecond of t's local calendar day
func EndOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999000, time.Local)
}

// Day returns the bounds of the calendar day containing t
func Day(t time.Time) Range {
	return Range{Start: StartOfDay(t), End: EndOfDay(t)}
}

// Week returns Monday 00:00:00 through Sunday 23:59:59.999999 of the week
// containing t.
func Week(t time.Time) Range {
	offset := (int(t.In(time.Local).Weekday()) + 6) % 7
	monday := StartOfDay(t).AddDate(0, 0, -offset)
	return Range{Start: monday, End: EndOfDay(monday.AddDate(0, 0, DaysInWeek-1))}
}

// WeekDays returns midnight of each day Monday through Sunday of the week
// containing t.
func WeekDays(t time.Time) [DaysInWeek]time.Time {
	var days [DaysInWeek]time.Time
	monday := Week(t).Start
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday
func WeekdayIndex(t time.Time) int {
	return (int(t.In(time.Local).Weekday()) + 6) % 7
}

// SameDay reports whether a and b fall on the same local calendar day
func SameDay(a, b time.Time) bool {
	a, b = a.In(time.Local), b.In(time.Local)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// dayInputLayouts are tried in order; the second also accepts unpadded
// months and days such as 2023-5-1
var dayInputLayouts = []string{DayLayout, "2006-1-2"}

// ParseDay parses a YYYY-MM-DD day in local time
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayInputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &model.ValidationError{
		Field:   "day",
		Message: fmt.Sprintf("invalid date %q, use YYYY-MM-DD", s),
	}
}
