package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dori/worklog/internal/model"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// projectRow is the shape of a row selected from projects alone
type projectRow struct {
	ID             int64
	Name           string
	IsBilledHourly int
	HourRate       sql.NullString
}

const projectColumns = `id, name, is_billed_hourly, hour_rate`

func (r projectRow) toProject() (model.Project, error) {
	p := model.Project{
		ID:             r.ID,
		Name:           r.Name,
		IsBilledHourly: r.IsBilledHourly == 1,
	}
	rate, err := parseRate(r.HourRate)
	if err != nil {
		return model.Project{}, fmt.Errorf("project %d: %w", r.ID, err)
	}
	p.HourRate = rate
	return p, nil
}

func scanProject(s scanner) (model.Project, error) {
	var r projectRow
	if err := s.Scan(&r.ID, &r.Name, &r.IsBilledHourly, &r.HourRate); err != nil {
		return model.Project{}, err
	}
	return r.toProject()
}

// CreateProject inserts a project and returns its new id. An invalid
// project (blank name, negative rate) is rejected with a *model.ValidationError.
func (db *DB) CreateProject(p model.Project) (int64, error) {
	if err := db.validator.Project(p); err != nil {
		return 0, err
	}
	res, err := db.conn.Exec(`
		INSERT INTO projects (name, is_billed_hourly, hour_rate)
		VALUES (?, ?, ?)
	`, p.Name, boolToInt(p.IsBilledHourly), formatRate(p.HourRate))
	if err != nil {
		return 0, translateProjectErr(err, p.Name)
	}
	return res.LastInsertId()
}

// GetProject returns a single project by ID, or nil if there is none
func (db *DB) GetProject(id int64) (*model.Project, error) {
	row := db.conn.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectByName returns a project by exact, case-sensitive name
func (db *DB) GetProjectByName(name string) (*model.Project, error) {
	row := db.conn.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE name = ?`, name)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects ordered by name
func (db *DB) ListProjects() ([]model.Project, error) {
	rows, err := db.conn.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject replaces every field of the project with the given id.
// Returns false if no such project exists. Validation is the same as for
// CreateProject.
func (db *DB) UpdateProject(p model.Project) (bool, error) {
	if err := db.validator.Project(p); err != nil {
		return false, err
	}
	res, err := db.conn.Exec(`
		UPDATE projects SET name = ?, is_billed_hourly = ?, hour_rate = ?
		WHERE id = ?
	`, p.Name, boolToInt(p.IsBilledHourly), formatRate(p.HourRate), p.ID)
	if err != nil {
		return false, translateProjectErr(err, p.Name)
	}
	return affected(res)
}

// DeleteProject deletes a project. Work entries referencing it are left
// untouched.
func (db *DB) DeleteProject(id int64) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func translateProjectErr(err error, name string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &model.DuplicateNameError{Name: name}
	}
	return err
}

func formatRate(rate *decimal.Decimal) sql.NullString {
	if rate == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: rate.String(), Valid: true}
}

func parseRate(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("bad hour rate %q: %w", ns.String, err)
	}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}
