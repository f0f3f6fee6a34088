// Package report groups work entries by project (and by weekday for weekly
// reports), sums their durations and computes billing.
package report

import (
	"fmt"
	"time"

	"github.com/dori/worklog/internal/model"
	"github.com/dori/worklog/internal/period"
	"github.com/shopspring/decimal"
)

// Source supplies the entries overlapping a day or week
type Source interface {
	GetEntriesForDay(day time.Time) ([]model.EntryWithProject, error)
	GetEntriesForWeek(day time.Time) ([]model.EntryWithProject, error)
}

// Reporter builds reports from a Source
type Reporter struct {
	source Source
}

// New creates a reporter
func New(source Source) *Reporter {
	return &Reporter{source: source}
}

// Hours converts a summed duration to fractional hours
func Hours(d time.Duration) float64 {
	return d.Seconds() / 3600
}

// DailyProject is one project's section of a daily report
type DailyProject struct {
	Project  model.Project
	Entries  []model.WorkEntry
	Duration time.Duration
	Billing  *Billing
}

// Hours returns the project total in hours
func (p DailyProject) Hours() float64 {
	return Hours(p.Duration)
}

// DailyReport is the work done on one day
type DailyReport struct {
	Day      time.Time
	Projects []DailyProject
	Duration time.Duration
}

// IsEmpty is true when no entries overlap the day
func (r *DailyReport) IsEmpty() bool {
	return len(r.Projects) == 0
}

// TotalHours returns the grand total in hours
func (r *DailyReport) TotalHours() float64 {
	return Hours(r.Duration)
}

// TotalBilling sums the billing of every billed project, or nil if none is
func (r *DailyReport) TotalBilling() *decimal.Decimal {
	var lines []*Billing
	for _, p := range r.Projects {
		lines = append(lines, p.Billing)
	}
	return sumBilling(lines)
}

// Daily builds the report for the calendar day containing day. Projects
// appear in the order they are first seen in the entries, which are sorted
// by start time. Active entries are listed but add nothing to the totals.
func (r *Reporter) Daily(day time.Time) (*DailyReport, error) {
	pairs, err := r.source.GetEntriesForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %s: %w", day.Format(period.DayLayout), err)
	}

	rep := &DailyReport{Day: period.StartOfDay(day)}
	index := make(map[int64]int)

	for _, pair := range pairs {
		i, seen := index[pair.Project.ID]
		if !seen {
			i = len(rep.Projects)
			index[pair.Project.ID] = i
			rep.Projects = append(rep.Projects, DailyProject{Project: pair.Project})
		}
		p := &rep.Projects[i]
		p.Entries = append(p.Entries, pair.Entry)
		if d, ok := pair.Entry.Duration(); ok {
			p.Duration += d
		}
	}

	for i := range rep.Projects {
		p := &rep.Projects[i]
		rep.Duration += p.Duration
		p.Billing = bill(p.Project, p.Hours())
	}
	return rep, nil
}

// DayBucket is one project's work on one weekday
type DayBucket struct {
	Entries  int
	Duration time.Duration
}

// IsEmpty is true when no entry was bucketed on this day
func (b DayBucket) IsEmpty() bool {
	return b.Entries == 0
}

// Hours returns the bucket total in hours
func (b DayBucket) Hours() float64 {
	return Hours(b.Duration)
}

// WeeklyProject is one project's row in a weekly report
type WeeklyProject struct {
	Project  model.Project
	Days     [period.DaysInWeek]DayBucket
	Entries  []model.WorkEntry
	Duration time.Duration
	Billing  *Billing
}

// Hours returns the weekly project total in hours
func (p WeeklyProject) Hours() float64 {
	return Hours(p.Duration)
}

// InProgress reports whether any of the project's entries is still running
func (p WeeklyProject) InProgress() bool {
	for i := range p.Entries {
		if p.Entries[i].IsActive() {
			return true
		}
	}
	return false
}

// WeeklyReport is the work done in one Monday to Sunday week
type WeeklyReport struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Days      [period.DaysInWeek]time.Time
	Projects  []WeeklyProject
	DayTotals [period.DaysInWeek]time.Duration
	Duration  time.Duration
}

// IsEmpty is true when no entries overlap the week
func (r *WeeklyReport) IsEmpty() bool {
	return len(r.Projects) == 0
}

// TotalHours returns the grand total in hours
func (r *WeeklyReport) TotalHours() float64 {
	return Hours(r.Duration)
}

// DayHours returns the total for weekday i (0 = Monday) in hours
func (r *WeeklyReport) DayHours(i int) float64 {
	return Hours(r.DayTotals[i])
}

// TotalBilling sums the billing of every billed project, or nil if none is
func (r *WeeklyReport) TotalBilling() *decimal.Decimal {
	var lines []*Billing
	for _, p := range r.Projects {
		lines = append(lines, p.Billing)
	}
	return sumBilling(lines)
}

// Weekly builds the report for the week containing day. Each entry lands in
// the bucket of the day it started; entries that started before Monday land
// on Monday, so the seven buckets always add up to the project total.
// Billing is computed once per project from the weekly total, and only for
// projects with logged hours.
func (r *Reporter) Weekly(day time.Time) (*WeeklyReport, error) {
	week := period.Week(day)
	pairs, err := r.source.GetEntriesForWeek(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for week of %s: %w", week.Start.Format(period.DayLayout), err)
	}

	rep := &WeeklyReport{
		WeekStart: week.Start,
		WeekEnd:   week.End,
		Days:      period.WeekDays(day),
	}
	index := make(map[int64]int)

	for _, pair := range pairs {
		i, seen := index[pair.Project.ID]
		if !seen {
			i = len(rep.Projects)
			index[pair.Project.ID] = i
			rep.Projects = append(rep.Projects, WeeklyProject{Project: pair.Project})
		}
		p := &rep.Projects[i]
		p.Entries = append(p.Entries, pair.Entry)

		bucket := 0
		if !pair.Entry.StartTime.Before(week.Start) {
			bucket = period.WeekdayIndex(pair.Entry.StartTime)
		}
		p.Days[bucket].Entries++
		if d, ok := pair.Entry.Duration(); ok {
			p.Days[bucket].Duration += d
		}
	}

	for i := range rep.Projects {
		p := &rep.Projects[i]
		for d, b := range p.Days {
			p.Duration += b.Duration
			rep.DayTotals[d] += b.Duration
		}
		rep.Duration += p.Duration
		if p.Duration > 0 {
			p.Billing = bill(p.Project, p.Hours())
		}
	}
	return rep, nil
}

func sumBilling(lines []*Billing) *decimal.Decimal {
	var total *decimal.Decimal
	for _, b := range lines {
		if b == nil {
			continue
		}
		if total == nil {
			zero := decimal.Zero
			total = &zero
		}
		sum := total.Add(b.Amount)
		total = &sum
	}
	return total
}
