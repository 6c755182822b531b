package schema

import "github.com/groblegark/srvenv/internal/model"

// EnvDefaultsAttr is the serialized blob attribute that stores all
// auto-generated shadow default fields of a record.
const EnvDefaultsAttr = "env_defaults"

// DefaultFieldName derives the shadow default field name for a base field.
func DefaultFieldName(base string) string {
	return base + "_env_default"
}

// Field is the runtime descriptor for a single attribute of a registered
// type. Setup rewrites descriptors of env-backed fields in place: the field
// becomes computed and loses its stored, copy, and packed state.
type Field struct {
	Name     string
	Type     model.FieldType
	Required bool
	Values   []string

	// Sequence is the declaration order of the field. Shadow fields are
	// cloned without it.
	Sequence int

	Computed bool   // value derived at read time
	Stored   bool   // persisted in the record's attrs
	Copy     bool   // carried over when a record is duplicated
	Packed   string // serialized blob attribute holding the value, empty = none

	// Automatic marks fields created by the engine rather than declared in
	// the type definition.
	Automatic bool

	// Getter is set on computed env fields and selects the typed lookup.
	Getter model.Getter
}

// Def returns the field as a declaration, used to validate attribute values.
func (f *Field) Def() model.FieldDef {
	return model.FieldDef{
		Name:     f.Name,
		Type:     f.Type,
		Required: f.Required,
		Values:   f.Values,
	}
}
