package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")
	ErrValidation    = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
)

// ProjectNotFoundError is returned when a project reference (id or name)
// does not resolve.
type ProjectNotFoundError struct {
	Ref string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project '%s' not found", e.Ref)
}

func (e *ProjectNotFoundError) Unwrap() error {
	return ErrNotFound
}

// DuplicateNameError is returned when a project name is already taken
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("project '%s' already exists", e.Name)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError is returned when starting work while another entry is
// still active and the caller chose not to stop it.
type ConflictError struct {
	Active WorkEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("work entry %d '%s' is still active", e.Active.ID, e.Active.Description)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
