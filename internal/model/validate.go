package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks model values before they are written
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the project rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(projectRules, Project{})
	return &Validator{validate: v}
}

// projectRules covers what struct tags can't express on a decimal
func projectRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(Project)
	if p.Name != "" && strings.TrimSpace(p.Name) == "" {
		sl.ReportError(p.Name, "Name", "Name", "required", "")
	}
	if p.HourRate != nil && p.HourRate.IsNegative() {
		sl.ReportError(p.HourRate, "HourRate", "HourRate", "nonnegative", "")
	}
}

// Project validates a project, returning a *ValidationError for the first
// failing field.
func (v *Validator) Project(p Project) error {
	err := v.validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "nonnegative":
		return "must not be negative"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
