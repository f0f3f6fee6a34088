package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/worklog/internal/session"
	"github.com/dori/worklog/internal/ui/theme"
)

// Session is the part of the tracker the status view drives
type Session interface {
	Status() (session.Status, error)
	Stop() (session.StopResult, error)
}

// StatusModel is a live view of the current session. It refreshes once a
// second and can stop the running entry.
type StatusModel struct {
	tracker Session
	keys    KeyMap
	help    help.Model
	width   int
	height  int

	status    session.Status
	loaded    bool
	statusMsg string
	errorMsg  string

	// OnStop is called after the view stops a session
	OnStop func(session.StopResult)
}

// NewStatusModel creates a status view over the tracker
func NewStatusModel(tracker Session) StatusModel {
	h := help.New()
	h.ShowAll = false
	h.Styles.ShortKey = theme.Current.Styles.HelpKey
	h.Styles.ShortDesc = theme.Current.Styles.HelpDesc
	h.Styles.FullKey = theme.Current.Styles.HelpKey
	h.Styles.FullDesc = theme.Current.Styles.HelpDesc

	return StatusModel{
		tracker: tracker,
		keys:    DefaultKeyMap(),
		help:    h,
	}
}

// Init loads the first snapshot and starts the ticker
func (m StatusModel) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) load() tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		st, err := tracker.Status()
		return statusLoadedMsg{Status: st, Err: err}
	}
}

func (m StatusModel) stop() tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		res, err := tracker.Stop()
		return sessionStoppedMsg{Result: res, Err: err}
	}
}

// Update handles messages
func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.load(), tick())

	case statusLoadedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.status = msg.Status
		m.loaded = true
		m.errorMsg = ""
		return m, nil

	case sessionStoppedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		if msg.Result.Stopped {
			m.statusMsg = fmt.Sprintf("Stopped %q after %.2f hours", msg.Result.Entry.Description, msg.Result.Hours)
			if m.OnStop != nil {
				m.OnStop(msg.Result)
			}
		} else {
			m.statusMsg = "No active work to stop"
		}
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Stop):
			if m.status.State != session.Active {
				m.statusMsg = "No active work to stop"
				return m, nil
			}
			return m, m.stop()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

// cycleTheme switches to the next available theme
func (m *StatusModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = "Theme: " + next.Name
			return
		}
	}
}

// View renders the status view
func (m StatusModel) View() string {
	s := theme.Current.Styles

	body := s.Muted.Render("Loading...")
	if m.loaded {
		body = RenderStatus(m.status)
	}

	out := body + "\n"
	if m.errorMsg != "" {
		out += s.Error.Render("Error: "+m.errorMsg) + "\n"
	} else if m.statusMsg != "" {
		out += s.Success.Render(m.statusMsg) + "\n"
	}
	return out + "\n" + m.help.View(m.keys)
}

// Status returns the last loaded snapshot
func (m StatusModel) Status() session.Status {
	return m.status
}
