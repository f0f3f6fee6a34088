package notify

import (
	"reflect"
	"testing"
	"time"
)

func TestArgs(t *testing.T) {
	got := Args(Notification{
		Title:   "Stopped: Project A",
		Body:    "review (1.50 hours)",
		Urgency: UrgencyCritical,
		Timeout: 5 * time.Second,
		Icon:    "alarm",
	})
	want := []string{"-u", "critical", "-t", "5000", "-i", "alarm", "-a", "work-log", "Stopped: Project A", "review (1.50 hours)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v\nwant %v", got, want)
	}
}

func TestArgsMinimal(t *testing.T) {
	got := Args(Notification{Title: "hi"})
	want := []string{"-u", "normal", "-a", "work-log", "hi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestDisabledNotifierDoesNothing(t *testing.T) {
	n := NewNotifier()
	n.SetCommand("/nonexistent/notify-send")

	if n.IsEnabled() {
		t.Fatal("notifier should start disabled")
	}
	if err := n.SendSessionStarted("A", "task"); err != nil {
		t.Errorf("disabled notifier returned %v", err)
	}
}

func TestEnabledNotifierRunsCommand(t *testing.T) {
	n := NewNotifier()
	n.SetEnabled(true)
	n.SetCommand("/nonexistent/notify-send")

	if err := n.SendSessionStopped("A", "task", 1.5); err == nil {
		t.Error("expected an error from a missing command")
	}
}
