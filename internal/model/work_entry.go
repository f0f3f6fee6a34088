package model

import (
	"fmt"
	"time"
)

// WorkEntry is a single work session on a project.
// A nil EndTime means the session is still in progress.
type WorkEntry struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid"`
	ProjectID   int64      `json:"project_id"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// IsActive returns true if this entry has not been stopped yet
func (e *WorkEntry) IsActive() bool {
	return e.EndTime == nil
}

// Duration returns EndTime - StartTime. The second value is false for
// active entries.
func (e *WorkEntry) Duration() (time.Duration, bool) {
	if e.EndTime == nil {
		return 0, false
	}
	return e.EndTime.Sub(e.StartTime), true
}

// DurationHours returns the duration as fractional hours
func (e *WorkEntry) DurationHours() (float64, bool) {
	d, ok := e.Duration()
	if !ok {
		return 0, false
	}
	return d.Seconds() / 3600, true
}

// Elapsed returns how long the entry has been running at now
func (e *WorkEntry) Elapsed(now time.Time) time.Duration {
	if d, ok := e.Duration(); ok {
		return d
	}
	return now.Sub(e.StartTime)
}

func (e *WorkEntry) String() string {
	if hours, ok := e.DurationHours(); ok {
		return fmt.Sprintf("%s (%.2fh)", e.Description, hours)
	}
	return fmt.Sprintf("%s (in progress)", e.Description)
}

// EntryWithProject pairs a work entry with the project it was logged against
type EntryWithProject struct {
	Entry   WorkEntry
	Project Project
}
