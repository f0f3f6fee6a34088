package ui

import (
	"time"

	"github.com/dori/worklog/internal/session"
)

// Messages for the status view

// tickMsg is sent every second while the view is open
type tickMsg time.Time

// statusLoadedMsg carries a fresh status snapshot
type statusLoadedMsg struct {
	Status session.Status
	Err    error
}

// sessionStoppedMsg indicates the stop key was handled
type sessionStoppedMsg struct {
	Result session.StopResult
	Err    error
}
