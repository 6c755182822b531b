package model

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateRecord checks a Record for constraint violations independent of its
// type definition. Returns a *ValidationError on failure, nil on success.
func ValidateRecord(r *Record) error {
	var ve ValidationError

	name := strings.TrimSpace(r.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 200 characters or fewer"})
	}

	if strings.TrimSpace(r.Type) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "type", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateAttrs checks that the given attribute values conform to the
// provided field definitions. It rejects unknown keys, validates types, and
// enforces required constraints. Returns a *ValidationError on failure.
func ValidateAttrs(attrs map[string]any, defs []FieldDef) error {
	defsByName := make(map[string]*FieldDef, len(defs))
	for i := range defs {
		defsByName[defs[i].Name] = &defs[i]
	}

	var ve ValidationError

	// Reject unknown keys.
	for key := range attrs {
		if _, ok := defsByName[key]; !ok {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   key,
				Message: "unknown field",
			})
		}
	}

	// Validate each defined field.
	for _, d := range defs {
		val, present := attrs[d.Name]
		if !present || val == nil {
			if d.Required {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   d.Name,
					Message: "is required",
				})
			}
			continue
		}
		if err := validateAttrValue(&d, val); err != nil {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   d.Name,
				Message: err.Error(),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// validateAttrValue checks a single decoded JSON value against a field
// definition. JSON numbers decode as float64, so integer checks accept a
// float64 with no fractional part.
func validateAttrValue(d *FieldDef, val any) error {
	switch d.Type {
	case FieldTypeString:
		if _, ok := val.(string); !ok {
			return fmt.Errorf("must be a string")
		}
	case FieldTypeInteger:
		switch n := val.(type) {
		case int:
		case float64:
			if n != math.Trunc(n) {
				return fmt.Errorf("must be an integer")
			}
		default:
			return fmt.Errorf("must be an integer")
		}
	case FieldTypeFloat:
		switch val.(type) {
		case int, float64:
		default:
			return fmt.Errorf("must be a number")
		}
	case FieldTypeBoolean:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("must be a boolean")
		}
	case FieldTypeEnum:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if !contains(d.Values, s) {
			return fmt.Errorf("must be one of %v", d.Values)
		}
	default:
		return fmt.Errorf("unknown field type %q", d.Type)
	}
	return nil
}

func contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
