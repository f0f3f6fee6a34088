package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/worklog/internal/db"
	"github.com/dori/worklog/internal/model"
	"github.com/gofrs/flock"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// inTx runs tracker writes through one database transaction
func inTx(database *db.DB) TxRunner {
	return func(fn func(Store) error) error {
		return database.Transaction(func(tx *db.DB) error { return fn(tx) })
	}
}

func setup(t *testing.T, opts ...Option) (*Tracker, *db.DB, *clock) {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	c := &clock{now: time.Date(2023, 5, 1, 9, 0, 0, 0, time.Local)}
	tracker := New(database, append([]Option{
		WithClock(c.Now),
		WithLocker(flock.New(filepath.Join(dir, "test.lock"))),
		WithTransaction(inTx(database)),
	}, opts...)...)
	return tracker, database, c
}

func mustProject(t *testing.T, database *db.DB, name string) int64 {
	t.Helper()
	id, err := database.CreateProject(model.Project{Name: name})
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return id
}

func countActive(t *testing.T, database *db.DB) int {
	t.Helper()
	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM work_entries WHERE end_time IS NULL`).Scan(&n); err != nil {
		t.Fatalf("count active: %v", err)
	}
	return n
}

func TestStartStop(t *testing.T) {
	tracker, database, c := setup(t)
	mustProject(t, database, "Project A")

	res, err := tracker.Start("Project A", "Task 1", nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.Project.Name != "Project A" || !res.Entry.IsActive() || res.Stopped != nil {
		t.Errorf("unexpected start result: %+v", res)
	}
	if !res.Entry.StartTime.Equal(c.now) {
		t.Errorf("start time = %v, want %v", res.Entry.StartTime, c.now)
	}

	status, err := tracker.Status()
	if err != nil || status.State != Active {
		t.Fatalf("Status after start: %+v, %v", status, err)
	}

	c.Advance(90 * time.Minute)
	status, _ = tracker.Status()
	if status.ElapsedHours() != 1.5 {
		t.Errorf("ElapsedHours = %v, want 1.5", status.ElapsedHours())
	}

	stop, err := tracker.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !stop.Stopped || stop.Hours != 1.5 || stop.Project == nil || stop.Project.Name != "Project A" {
		t.Errorf("unexpected stop result: %+v", stop)
	}

	stored, _ := database.GetWorkEntry(res.Entry.ID)
	if stored.EndTime == nil || !stored.EndTime.Equal(c.now) {
		t.Errorf("stored end time = %v", stored.EndTime)
	}

	status, _ = tracker.Status()
	if status.State != Idle {
		t.Errorf("state after stop = %v", status.State)
	}
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	tracker, _, _ := setup(t)

	res, err := tracker.Stop()
	if err != nil {
		t.Fatalf("Stop on idle should not error: %v", err)
	}
	if res.Stopped {
		t.Error("nothing should have been stopped")
	}

	// Retrying is just as safe
	if res, err := tracker.Stop(); err != nil || res.Stopped {
		t.Errorf("second Stop = %+v, %v", res, err)
	}
}

func TestStartWhileActiveAborts(t *testing.T) {
	tracker, database, _ := setup(t)
	mustProject(t, database, "A")
	mustProject(t, database, "B")

	first, err := tracker.Start("A", "first", nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var asked bool
	decline := func(active model.WorkEntry, p *model.Project) bool {
		asked = true
		if active.ID != first.Entry.ID || p == nil || p.Name != "A" {
			t.Errorf("resolver got %+v, %+v", active, p)
		}
		return false
	}

	_, err = tracker.Start("B", "second", decline)
	var conflict *model.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if !asked {
		t.Error("resolver was not consulted")
	}
	if conflict.Active.ID != first.Entry.ID {
		t.Errorf("conflict names entry %d", conflict.Active.ID)
	}
	if !errors.Is(err, model.ErrConflict) {
		t.Error("should match ErrConflict")
	}

	// nil resolver aborts too
	if _, err := tracker.Start("B", "second", nil); !errors.Is(err, model.ErrConflict) {
		t.Errorf("nil resolver: %v", err)
	}
	if n := countActive(t, database); n != 1 {
		t.Errorf("active entries = %d, want 1", n)
	}
}

func TestStartWhileActiveStopsFirst(t *testing.T) {
	tracker, database, c := setup(t)
	mustProject(t, database, "A")
	mustProject(t, database, "B")

	first, _ := tracker.Start("A", "first", nil)
	c.Advance(2 * time.Hour)

	second, err := tracker.Start("B", "second", StopActive)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if second.Stopped == nil || second.Stopped.Entry.ID != first.Entry.ID || second.Stopped.Hours != 2 {
		t.Errorf("expected the first entry to be stopped: %+v", second.Stopped)
	}
	if n := countActive(t, database); n != 1 {
		t.Errorf("active entries = %d, want 1", n)
	}

	active, _ := database.GetActiveWorkEntry()
	if active.ID != second.Entry.ID {
		t.Errorf("active entry = %d, want %d", active.ID, second.Entry.ID)
	}
}

func TestResolveProject(t *testing.T) {
	tracker, database, _ := setup(t)
	idA := mustProject(t, database, "Alpha")
	// A project whose name looks like an id of a project that does not exist
	idNum := mustProject(t, database, "42")

	tests := []struct {
		ref    string
		wantID int64
	}{
		{"Alpha", idA},
		{"1", idA},
		{"42", idNum},
	}
	for _, tt := range tests {
		p, err := tracker.ResolveProject(tt.ref)
		if err != nil {
			t.Fatalf("ResolveProject(%q): %v", tt.ref, err)
		}
		if p.ID != tt.wantID {
			t.Errorf("ResolveProject(%q) = %d, want %d", tt.ref, p.ID, tt.wantID)
		}
	}

	_, err := tracker.ResolveProject("alpha")
	var nf *model.ProjectNotFoundError
	if !errors.As(err, &nf) || nf.Ref != "alpha" {
		t.Errorf("expected ProjectNotFoundError, got %v", err)
	}
}

func TestStartUnknownProjectKeepsActiveEntry(t *testing.T) {
	tracker, database, _ := setup(t)
	mustProject(t, database, "A")
	first, _ := tracker.Start("A", "first", nil)

	_, err := tracker.Start("missing", "x", StopActive)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	active, _ := database.GetActiveWorkEntry()
	if active == nil || active.ID != first.Entry.ID {
		t.Error("a failed start must not stop the running entry")
	}
}

func TestStartRequiresDescription(t *testing.T) {
	tracker, database, _ := setup(t)
	mustProject(t, database, "A")

	if _, err := tracker.Start("A", "  ", nil); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestStatusWithDeletedProject(t *testing.T) {
	tracker, database, _ := setup(t)
	id := mustProject(t, database, "Gone")
	if _, err := tracker.Start("Gone", "orphan", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	database.DeleteProject(id)

	status, err := tracker.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.State != Active || status.Project != nil {
		t.Errorf("unexpected status: %+v", status)
	}
}

type trackingLocker struct {
	held bool
}

func (l *trackingLocker) Lock() error {
	if l.held {
		return errors.New("already locked")
	}
	l.held = true
	return nil
}

func (l *trackingLocker) Unlock() error {
	l.held = false
	return nil
}

func TestResolverRunsWithoutLock(t *testing.T) {
	lk := &trackingLocker{}
	tracker, database, _ := setup(t, WithLocker(lk))
	mustProject(t, database, "A")
	mustProject(t, database, "B")
	if _, err := tracker.Start("A", "first", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var heldWhileAsking bool
	res, err := tracker.Start("B", "second", func(model.WorkEntry, *model.Project) bool {
		heldWhileAsking = lk.held
		// a concurrent stop must be able to take the lock while we ask
		if err := lk.Lock(); err != nil {
			t.Errorf("lock taken during resolver: %v", err)
		}
		lk.Unlock()
		return true
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if heldWhileAsking {
		t.Error("session lock was held while the resolver ran")
	}
	if res.Stopped == nil {
		t.Error("first entry should have been stopped")
	}
	if lk.held {
		t.Error("lock not released after Start")
	}
}

func TestStartRechecksActiveEntryUnderLock(t *testing.T) {
	tracker, database, c := setup(t)
	pid := mustProject(t, database, "A")
	mustProject(t, database, "B")
	first, _ := tracker.Start("A", "first", nil)

	// While the user is asked, another process replaces the active entry
	var otherID int64
	replace := func(active model.WorkEntry, _ *model.Project) bool {
		end := c.now
		active.EndTime = &end
		if _, err := database.UpdateWorkEntry(active); err != nil {
			t.Fatalf("UpdateWorkEntry: %v", err)
		}
		id, err := database.CreateWorkEntry(model.WorkEntry{ProjectID: pid, Description: "other", StartTime: c.now})
		if err != nil {
			t.Fatalf("CreateWorkEntry: %v", err)
		}
		otherID = id
		return true
	}

	_, err := tracker.Start("B", "second", replace)
	var conflict *model.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Active.ID != otherID || otherID == first.Entry.ID {
		t.Errorf("conflict names entry %d, want %d", conflict.Active.ID, otherID)
	}
	active, _ := database.GetActiveWorkEntry()
	if active == nil || active.ID != otherID || countActive(t, database) != 1 {
		t.Errorf("the other process's entry must stay active, got %+v", active)
	}
}

func TestStartAfterActiveEntryStoppedElsewhere(t *testing.T) {
	tracker, database, c := setup(t)
	mustProject(t, database, "A")
	mustProject(t, database, "B")
	tracker.Start("A", "first", nil)

	stopElsewhere := func(active model.WorkEntry, _ *model.Project) bool {
		end := c.now
		active.EndTime = &end
		database.UpdateWorkEntry(active)
		return true
	}

	res, err := tracker.Start("B", "second", stopElsewhere)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.Stopped != nil {
		t.Errorf("nothing was left to stop, got %+v", res.Stopped)
	}
	if countActive(t, database) != 1 {
		t.Errorf("active entries = %d, want 1", countActive(t, database))
	}
}

type failingCreate struct {
	*db.DB
}

func (failingCreate) CreateWorkEntry(model.WorkEntry) (int64, error) {
	return 0, errors.New("disk full")
}

func TestStartRollsBackStopWhenCreateFails(t *testing.T) {
	tracker, database, c := setup(t)
	mustProject(t, database, "A")
	mustProject(t, database, "B")
	first, _ := tracker.Start("A", "first", nil)
	c.Advance(time.Hour)

	failing := New(database, WithClock(c.Now), WithTransaction(func(fn func(Store) error) error {
		return database.Transaction(func(tx *db.DB) error { return fn(failingCreate{tx}) })
	}))

	if _, err := failing.Start("B", "second", StopActive); err == nil {
		t.Fatal("expected the failed insert to surface")
	}

	active, _ := database.GetActiveWorkEntry()
	if active == nil || active.ID != first.Entry.ID {
		t.Fatalf("the first entry must still be active, got %+v", active)
	}
	stored, _ := database.GetWorkEntry(first.Entry.ID)
	if stored.EndTime != nil {
		t.Errorf("closing the first entry should have been rolled back, end = %v", stored.EndTime)
	}
}
