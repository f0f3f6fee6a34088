// Package session enforces the single-active-entry rule: work is started
// and stopped here, never by writing entries directly.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dori/worklog/internal/log"
	"github.com/dori/worklog/internal/model"
)

// State of the tracker
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Store is the storage the tracker reads and writes
type Store interface {
	GetProject(id int64) (*model.Project, error)
	GetProjectByName(name string) (*model.Project, error)
	GetActiveWorkEntry() (*model.WorkEntry, error)
	CreateWorkEntry(e model.WorkEntry) (int64, error)
	GetWorkEntry(id int64) (*model.WorkEntry, error)
	UpdateWorkEntry(e model.WorkEntry) (bool, error)
}

// Locker serialises start and stop across processes. *flock.Flock
// satisfies it.
type Locker interface {
	Lock() error
	Unlock() error
}

// TxRunner runs fn inside one storage transaction, passing it a Store bound
// to that transaction. An error from fn rolls every write back.
type TxRunner func(fn func(Store) error) error

// ConflictResolver is asked what to do when work is started while another
// entry is active. Returning true stops the active entry; false aborts.
type ConflictResolver func(active model.WorkEntry, project *model.Project) bool

// StopActive always stops the running entry
func StopActive(model.WorkEntry, *model.Project) bool { return true }

// StartResult describes a successful start
type StartResult struct {
	Entry   model.WorkEntry
	Project model.Project
	// Stopped is set when a previously active entry was closed first
	Stopped *StopResult
}

// StopResult describes the outcome of a stop. Stopped is false when
// nothing was active.
type StopResult struct {
	Stopped bool
	Entry   model.WorkEntry
	// Project is nil if the entry's project has since been deleted
	Project *model.Project
	Hours   float64
}

// Status is a snapshot of the tracker
type Status struct {
	State   State
	Entry   *model.WorkEntry
	Project *model.Project
	Elapsed time.Duration
}

// ElapsedHours returns the elapsed time as fractional hours
func (s Status) ElapsedHours() float64 {
	return s.Elapsed.Seconds() / 3600
}

// Tracker is the session state machine
type Tracker struct {
	store  Store
	locker Locker
	tx     TxRunner
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocker sets the lock held during start and stop
func WithLocker(l Locker) Option {
	return func(t *Tracker) { t.locker = l }
}

// WithTransaction makes start and stop write through run, so closing the
// active entry and creating the new one commit together
func WithTransaction(run TxRunner) Option {
	return func(t *Tracker) { t.tx = run }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l.WithComponent("session")
		}
	}
}

// New creates a tracker over the given store
func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		now:    time.Now,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.tx == nil {
		t.tx = func(fn func(Store) error) error { return fn(t.store) }
	}
	return t
}

// ResolveProject finds a project by numeric id first, then by exact name
func (t *Tracker) ResolveProject(ref string) (*model.Project, error) {
	if id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64); err == nil {
		p, err := t.store.GetProject(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load project %d: %w", id, err)
		}
		if p != nil {
			return p, nil
		}
	}

	p, err := t.store.GetProjectByName(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load project '%s': %w", ref, err)
	}
	if p == nil {
		return nil, &model.ProjectNotFoundError{Ref: ref}
	}
	return p, nil
}

// Start begins a new work entry on the referenced project. If another entry
// is active, resolve decides whether it is stopped first; a nil resolver
// aborts with a *model.ConflictError.
//
// resolve runs before the session lock is taken, so a prompt never blocks a
// concurrent stop. Under the lock the active entry is checked again: if it
// is no longer the one resolve agreed to stop, Start aborts with a conflict.
func (t *Tracker) Start(ref, description string, resolve ConflictResolver) (*StartResult, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &model.ValidationError{Field: "description", Message: "must not be empty"}
	}

	// Resolve before touching the active entry so a bad reference never
	// stops running work.
	project, err := t.ResolveProject(ref)
	if err != nil {
		return nil, err
	}

	approved, err := t.approveStop(resolve)
	if err != nil {
		return nil, err
	}

	unlock, err := t.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	var res StartResult
	err = t.tx(func(store Store) error {
		active, err := store.GetActiveWorkEntry()
		if err != nil {
			return fmt.Errorf("failed to load active work entry: %w", err)
		}

		if active != nil {
			if approved == nil || approved.ID != active.ID {
				return &model.ConflictError{Active: *active}
			}
			activeProject, err := store.GetProject(active.ProjectID)
			if err != nil {
				return fmt.Errorf("failed to load project %d: %w", active.ProjectID, err)
			}
			stopped, err := t.close(store, *active, activeProject)
			if err != nil {
				return err
			}
			res.Stopped = &stopped
		}

		entry := model.WorkEntry{
			ProjectID:   project.ID,
			Description: description,
			StartTime:   t.now(),
		}
		id, err := store.CreateWorkEntry(entry)
		if err != nil {
			return fmt.Errorf("failed to create work entry: %w", err)
		}

		created, err := store.GetWorkEntry(id)
		if err != nil {
			return fmt.Errorf("failed to reload work entry %d: %w", id, err)
		}
		if created == nil {
			entry.ID = id
			created = &entry
		}
		res.Entry = *created
		res.Project = *project
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Stopped != nil {
		t.logStopped(*res.Stopped)
	}
	t.logger.Info("work started",
		"entry_id", res.Entry.ID, "entry_uid", res.Entry.UID, "project", project.Name)

	return &res, nil
}

// approveStop asks resolve about the currently active entry, if any, and
// returns the entry it agreed to stop
func (t *Tracker) approveStop(resolve ConflictResolver) (*model.WorkEntry, error) {
	active, err := t.store.GetActiveWorkEntry()
	if err != nil {
		return nil, fmt.Errorf("failed to load active work entry: %w", err)
	}
	if active == nil {
		return nil, nil
	}

	project, err := t.store.GetProject(active.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", active.ProjectID, err)
	}
	if resolve == nil || !resolve(*active, project) {
		return nil, &model.ConflictError{Active: *active}
	}
	return active, nil
}

// Stop closes the active entry at the current time. With nothing active it
// returns a result with Stopped == false and no error.
func (t *Tracker) Stop() (StopResult, error) {
	unlock, err := t.lock()
	if err != nil {
		return StopResult{}, err
	}
	defer unlock()

	var res StopResult
	err = t.tx(func(store Store) error {
		active, err := store.GetActiveWorkEntry()
		if err != nil {
			return fmt.Errorf("failed to load active work entry: %w", err)
		}
		if active == nil {
			return nil
		}

		project, err := store.GetProject(active.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to load project %d: %w", active.ProjectID, err)
		}
		res, err = t.close(store, *active, project)
		return err
	})
	if err != nil {
		return StopResult{}, err
	}

	if res.Stopped {
		t.logStopped(res)
	}
	return res, nil
}

// Status reports whether work is in progress and for how long
func (t *Tracker) Status() (Status, error) {
	active, err := t.store.GetActiveWorkEntry()
	if err != nil {
		return Status{}, fmt.Errorf("failed to load active work entry: %w", err)
	}
	if active == nil {
		return Status{State: Idle}, nil
	}

	project, err := t.store.GetProject(active.ProjectID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to load project %d: %w", active.ProjectID, err)
	}
	return Status{
		State:   Active,
		Entry:   active,
		Project: project,
		Elapsed: active.Elapsed(t.now()),
	}, nil
}

// close sets the end time on entry and writes it back through store
func (t *Tracker) close(store Store, entry model.WorkEntry, project *model.Project) (StopResult, error) {
	end := t.now()
	if end.Before(entry.StartTime) {
		end = entry.StartTime
	}
	entry.EndTime = &end

	ok, err := store.UpdateWorkEntry(entry)
	if err != nil {
		return StopResult{}, fmt.Errorf("failed to stop work entry %d: %w", entry.ID, err)
	}
	if !ok {
		return StopResult{}, fmt.Errorf("work entry %d: %w", entry.ID, model.ErrNotFound)
	}

	hours, _ := entry.DurationHours()
	return StopResult{Stopped: true, Entry: entry, Project: project, Hours: hours}, nil
}

func (t *Tracker) logStopped(res StopResult) {
	t.logger.Info("work stopped", "entry_id", res.Entry.ID, "entry_uid", res.Entry.UID, "hours", res.Hours)
}

func (t *Tracker) lock() (func(), error) {
	if t.locker == nil {
		return func() {}, nil
	}
	if err := t.locker.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	return func() {
		if err := t.locker.Unlock(); err != nil {
			t.logger.Warn("failed to release session lock", "error", err)
		}
	}, nil
}
