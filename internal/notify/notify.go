package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	command string
}

// NewNotifier creates a notifier that shells out to notify-send. It starts
// disabled; notifications are opt-in through configuration.
func NewNotifier() *Notifier {
	return &Notifier{command: "notify-send"}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// SetCommand replaces the notify-send binary
func (n *Notifier) SetCommand(command string) {
	n.command = command
}

// Args builds the notify-send argument list for a notification
func Args(notification Notification) []string {
	args := []string{}

	// Add urgency
	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Add timeout (in milliseconds)
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	// Add icon if specified
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "work-log")

	// Add title and body
	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	cmd := exec.Command(n.command, Args(notification)...)
	return cmd.Run()
}

// SendSessionStarted announces that work started on a project
func (n *Notifier) SendSessionStarted(project, description string) error {
	return n.Send(Notification{
		Title:   "Started: " + project,
		Body:    description,
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "media-playback-start-symbolic",
	})
}

// SendSessionStopped announces that work stopped, with the hours logged
func (n *Notifier) SendSessionStopped(project, description string, hours float64) error {
	return n.Send(Notification{
		Title:   "Stopped: " + project,
		Body:    fmt.Sprintf("%s (%.2f hours)", description, hours),
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
		Icon:    "media-playback-stop-symbolic",
	})
}
