package model

import (
	"fmt"
	"strings"
	"time"
)

// FieldType identifies the value type of a declared field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeFloat   FieldType = "float"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeEnum    FieldType = "enum"
)

// IsValid checks whether the field type is a known value.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeString, FieldTypeInteger, FieldTypeFloat, FieldTypeBoolean, FieldTypeEnum:
		return true
	}
	return false
}

// FieldDef describes a single declared field on a record type.
type FieldDef struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Values   []string  `json:"values,omitempty"` // allowed values for enum
}

// TypeDef defines a record type: its identifier, declared fields, and the
// subset of fields resolved from the environment configuration store.
//
// Name is a dotted identifier like "storage.backend". EnvFields maps a
// declared field name to the getter used when reading it from the store.
// SectionPrefix, when set, replaces the derived prefix in config section
// names (the default prefix is Name with dots replaced by underscores).
type TypeDef struct {
	Name          string            `json:"name"`
	Fields        []FieldDef        `json:"fields,omitempty"`
	EnvFields     map[string]Getter `json:"env_fields,omitempty"`
	SectionPrefix string            `json:"section_prefix,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at,omitempty"`
}

// Validate checks the definition for structural errors: a missing name,
// duplicate or badly typed fields, and unknown getters. Env field names
// referencing undeclared fields are caught later, at schema setup.
func (d *TypeDef) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("type name is required")
	}
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("type %s: field with empty name", d.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("type %s: duplicate field %q", d.Name, f.Name)
		}
		seen[f.Name] = true
		if !f.Type.IsValid() {
			return fmt.Errorf("type %s: field %q has unknown type %q", d.Name, f.Name, f.Type)
		}
		if f.Type == FieldTypeEnum && len(f.Values) == 0 {
			return fmt.Errorf("type %s: enum field %q has no values", d.Name, f.Name)
		}
	}
	for name, getter := range d.EnvFields {
		if !getter.IsValid() {
			return fmt.Errorf("type %s: env field %q has unknown getter %q", d.Name, name, getter)
		}
	}
	return nil
}
