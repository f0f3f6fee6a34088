package commands

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dori/worklog/internal/model"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WORKLOG_DATA_DIR", dir)
	t.Setenv("WORKLOG_DB_PATH", "")
	t.Setenv("WORKLOG_LOG_LEVEL", "")
	t.Setenv("WORKLOG_LOG_FORMAT", "")
	t.Setenv("WORKLOG_THEME", "")
	t.Setenv("WORKLOG_NOTIFY", "")
	return dir
}

// run executes the CLI with args and stdin, returning stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "", "version")
	assertContains(t, out, "work-log v"+version)
}

func TestProjectLifecycle(t *testing.T) {
	setupEnv(t)

	assertContains(t, mustRun(t, "", "projects"), "No projects found")

	out := mustRun(t, "", "project-add", "Acme", "--hourly", "--rate", "100")
	assertContains(t, out, "Project 'Acme' created with ID 1")
	mustRun(t, "", "project-add", "Internal")

	assertContains(t, mustRun(t, "", "projects"), "Acme", "Hourly", "$100.00/hour", "Internal", "Fixed")

	mustRun(t, "", "project-update", "2", "--name", "Research", "--hourly", "--rate", "80.5")
	assertContains(t, mustRun(t, "", "projects"), "Research", "$80.50/hour")

	mustRun(t, "", "project-update", "2", "--no-hourly", "--rate", "")
	out = mustRun(t, "", "projects")
	if strings.Contains(out, "$80.50") {
		t.Errorf("rate should be cleared:\n%s", out)
	}
}

func TestProjectAddRejectsBadInput(t *testing.T) {
	setupEnv(t)
	mustRun(t, "", "project-add", "Acme")
	mustRun(t, "", "project-add", "Other")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"duplicate", []string{"project-add", "Acme"}, model.ErrDuplicateName},
		{"blank name", []string{"project-add", "   "}, model.ErrValidation},
		{"bad rate", []string{"project-add", "Beta", "--rate", "abc"}, model.ErrValidation},
		{"negative rate", []string{"project-add", "Beta", "--rate", "-5"}, model.ErrValidation},
		{"bad id", []string{"project-update", "x", "--name", "y"}, model.ErrValidation},
		{"unknown id", []string{"project-update", "99", "--name", "y"}, model.ErrNotFound},
		{"rename to existing", []string{"project-update", "2", "--name", "Acme"}, model.ErrDuplicateName},
		{"hourly and no-hourly", []string{"project-update", "2", "--hourly", "--no-hourly"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProjectDelete(t *testing.T) {
	setupEnv(t)
	mustRun(t, "", "project-add", "Acme")

	out := mustRun(t, "n\n", "project-delete", "1")
	assertContains(t, out, "Delete project 'Acme'?", "Cancelled")
	assertContains(t, mustRun(t, "", "projects"), "Acme")

	out = mustRun(t, "y\n", "project-delete", "1")
	assertContains(t, out, "Project 'Acme' deleted")
	assertContains(t, mustRun(t, "", "projects"), "No projects found")

	mustRun(t, "", "project-add", "Beta")
	mustRun(t, "", "project-delete", "2", "--force")
	assertContains(t, mustRun(t, "", "projects"), "No projects found")
}

func TestStartStopFlow(t *testing.T) {
	setupEnv(t)
	mustRun(t, "", "project-add", "Acme", "--hourly", "--rate", "100")
	mustRun(t, "", "project-add", "Beta")

	assertContains(t, mustRun(t, "", "status"), "No active work")
	assertContains(t, mustRun(t, "", "stop"), "No active work to stop")

	out := mustRun(t, "", "start", "Acme", "API", "design")
	assertContains(t, out, "Started work on 'API design' for project 'Acme'")
	assertContains(t, mustRun(t, "", "status"), "API design", "Acme")

	// declined: the first entry keeps running
	out = mustRun(t, "n\n", "start", "Beta", "Review")
	assertContains(t, out, "Already working on 'API design'", "Cancelled")
	assertContains(t, mustRun(t, "", "status"), "API design")

	// no answer at all counts as no
	out = mustRun(t, "", "start", "2", "Review")
	assertContains(t, out, "Cancelled")

	out = mustRun(t, "y\n", "start", "2", "Review")
	assertContains(t, out, "Stopped work on 'API design'", "Started work on 'Review' for project 'Beta'")

	out = mustRun(t, "", "start", "--yes", "Acme", "Deploy")
	assertContains(t, out, "Stopped work on 'Review'", "Started work on 'Deploy'")

	out = mustRun(t, "", "stop")
	assertContains(t, out, "Stopped work on 'Deploy' for project 'Acme'", "Duration:")
	assertContains(t, mustRun(t, "", "status"), "No active work")

	today := mustRun(t, "", "today")
	assertContains(t, today, "Acme", "Beta", "API design", "Review", "Deploy", "Total Hours:")

	week := mustRun(t, "", "week")
	assertContains(t, week, "Acme", "Beta", "Total Hours:")
}

func TestStartUnknownProject(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "start", "Nope", "work")
	var notFound *model.ProjectNotFoundError
	if !errors.As(err, &notFound) || notFound.Ref != "Nope" {
		t.Errorf("error = %v, want project not found", err)
	}
}

func TestDayReports(t *testing.T) {
	setupEnv(t)

	assertContains(t, mustRun(t, "", "day", "2025-03-03"), "No work entries for 2025-03-03")
	assertContains(t, mustRun(t, "", "week", "2025-03-05"), "No work entries for week of 2025-03-03 to 2025-03-09")

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	assertContains(t, mustRun(t, "", "yesterday"), "No work entries for "+yesterday)

	if _, err := run(t, "", "day", "03/03/2025"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("day with bad date: error = %v, want validation error", err)
	}
	if _, err := run(t, "", "week", "2025-02-30"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("week with bad date: error = %v, want validation error", err)
	}
}

func TestDBFlagOverride(t *testing.T) {
	setupEnv(t)
	other := filepath.Join(t.TempDir(), "other.db")

	mustRun(t, "", "--db", other, "project-add", "Elsewhere")

	assertContains(t, mustRun(t, "", "projects"), "No projects found")
	assertContains(t, mustRun(t, "", "--db", other, "projects"), "Elsewhere")
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("WORKLOG_LOG_LEVEL", "loud")

	if _, err := run(t, "", "projects"); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v, want invalid configuration", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"y", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(tt.input), &out, "Proceed?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Proceed? [y/N]") {
			t.Errorf("prompt missing: %q", out.String())
		}
	}
}
