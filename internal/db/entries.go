package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dori/worklog/internal/model"
	"github.com/dori/worklog/internal/period"
	"github.com/google/uuid"
)

// entryRow is the shape of a row selected from work_entries alone
type entryRow struct {
	ID          int64
	UID         string
	ProjectID   int64
	Description string
	StartTime   string
	EndTime     sql.NullString
}

const entryColumns = `id, uid, project_id, description, start_time, end_time`

func (r entryRow) toEntry() (model.WorkEntry, error) {
	start, err := parseTime(r.StartTime)
	if err != nil {
		return model.WorkEntry{}, fmt.Errorf("work entry %d: %w", r.ID, err)
	}
	end, err := parseNullTime(r.EndTime)
	if err != nil {
		return model.WorkEntry{}, fmt.Errorf("work entry %d: %w", r.ID, err)
	}
	return model.WorkEntry{
		ID:          r.ID,
		UID:         r.UID,
		ProjectID:   r.ProjectID,
		Description: r.Description,
		StartTime:   start,
		EndTime:     end,
	}, nil
}

func scanEntry(s scanner) (model.WorkEntry, error) {
	var r entryRow
	if err := s.Scan(&r.ID, &r.UID, &r.ProjectID, &r.Description, &r.StartTime, &r.EndTime); err != nil {
		return model.WorkEntry{}, err
	}
	return r.toEntry()
}

// entryProjectRow is the shape of the range queries: a work entry joined to
// its project. The project columns are NULL when the project was deleted.
type entryProjectRow struct {
	entryRow
	ProjectRowID   sql.NullInt64
	ProjectName    sql.NullString
	IsBilledHourly sql.NullInt64
	HourRate       sql.NullString
}

const entryProjectColumns = `e.id, e.uid, e.project_id, e.description, e.start_time, e.end_time,
		       p.id, p.name, p.is_billed_hourly, p.hour_rate`

// toPair maps the row. ok is false when the project no longer exists.
func (r entryProjectRow) toPair() (pair model.EntryWithProject, ok bool, err error) {
	entry, err := r.entryRow.toEntry()
	if err != nil {
		return model.EntryWithProject{}, false, err
	}
	if !r.ProjectRowID.Valid {
		return model.EntryWithProject{Entry: entry}, false, nil
	}
	project, err := projectRow{
		ID:             r.ProjectRowID.Int64,
		Name:           r.ProjectName.String,
		IsBilledHourly: int(r.IsBilledHourly.Int64),
		HourRate:       r.HourRate,
	}.toProject()
	if err != nil {
		return model.EntryWithProject{}, false, err
	}
	return model.EntryWithProject{Entry: entry, Project: project}, true, nil
}

// CreateWorkEntry inserts a work entry and returns its new id. A UID is
// generated when the entry has none.
func (db *DB) CreateWorkEntry(e model.WorkEntry) (int64, error) {
	if e.UID == "" {
		e.UID = uuid.New().String()
	}
	res, err := db.conn.Exec(`
		INSERT INTO work_entries (uid, project_id, description, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
	`, e.UID, e.ProjectID, e.Description, formatTime(e.StartTime), formatNullTime(e.EndTime))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetWorkEntry returns a single work entry by ID, or nil if there is none
func (db *DB) GetWorkEntry(id int64) (*model.WorkEntry, error) {
	row := db.conn.QueryRow(`SELECT `+entryColumns+` FROM work_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetActiveWorkEntry returns the entry without an end time, or nil. If more
// than one exists the most recently started one wins.
func (db *DB) GetActiveWorkEntry() (*model.WorkEntry, error) {
	row := db.conn.QueryRow(`
		SELECT ` + entryColumns + ` FROM work_entries
		WHERE end_time IS NULL
		ORDER BY start_time DESC, id DESC
		LIMIT 1
	`)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateWorkEntry replaces every field of the entry with the given id.
// Returns false if no such entry exists.
func (db *DB) UpdateWorkEntry(e model.WorkEntry) (bool, error) {
	res, err := db.conn.Exec(`
		UPDATE work_entries
		SET project_id = ?, description = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`, e.ProjectID, e.Description, formatTime(e.StartTime), formatNullTime(e.EndTime), e.ID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// DeleteWorkEntry deletes a work entry
func (db *DB) DeleteWorkEntry(id int64) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM work_entries WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// GetEntriesForDay returns the entries overlapping the given calendar day,
// ordered by start time.
func (db *DB) GetEntriesForDay(day time.Time) ([]model.EntryWithProject, error) {
	return db.entriesIn(period.Day(day))
}

// GetEntriesForWeek returns the entries overlapping the Monday to Sunday
// week containing day, ordered by start time.
func (db *DB) GetEntriesForWeek(day time.Time) ([]model.EntryWithProject, error) {
	return db.entriesIn(period.Week(day))
}

// entriesIn selects entries that start inside r, end inside it, or start
// before it and are still open or end after it. Same rule as Range.Overlaps.
func (db *DB) entriesIn(r period.Range) ([]model.EntryWithProject, error) {
	from, to := formatTime(r.Start), formatTime(r.End)

	rows, err := db.conn.Query(`
		SELECT `+entryProjectColumns+`
		FROM work_entries e
		LEFT JOIN projects p ON e.project_id = p.id
		WHERE (e.start_time BETWEEN ? AND ?) OR
		      (e.end_time BETWEEN ? AND ?) OR
		      (e.start_time < ? AND (e.end_time > ? OR e.end_time IS NULL))
		ORDER BY e.start_time, e.id
	`, from, to, from, to, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.EntryWithProject
	for rows.Next() {
		var r entryProjectRow
		err := rows.Scan(
			&r.ID, &r.UID, &r.ProjectID, &r.Description, &r.StartTime, &r.EndTime,
			&r.ProjectRowID, &r.ProjectName, &r.IsBilledHourly, &r.HourRate,
		)
		if err != nil {
			return nil, err
		}
		pair, ok, err := r.toPair()
		if err != nil {
			return nil, err
		}
		if !ok {
			db.logger.Warn("skipping work entry with missing project",
				"entry_id", pair.Entry.ID, "project_id", pair.Entry.ProjectID)
			continue
		}
		results = append(results, pair)
	}
	return results, rows.Err()
}
