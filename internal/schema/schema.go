// Package schema turns declared record types into runtime types whose
// env-backed fields are computed from the environment configuration store,
// with a persisted per-field fallback.
//
// For every field listed in a type's EnvFields, setup replaces the declared
// field by a computed one and registers a companion fallback field named
// <field>_env_default, stored inside the env_defaults serialized blob. The
// computed field is resolved at read time: configuration value first, stored
// default second.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/groblegark/srvenv/internal/model"
)

// SectionNameFunc computes the config section name for a single record.
type SectionNameFunc func(rec *model.Record) string

// Type is a registered record type after schema setup.
type Type struct {
	def         model.TypeDef
	fields      map[string]*Field
	sectionName SectionNameFunc
}

// TypeOption customizes type registration.
type TypeOption func(*Type)

// WithSectionName overrides how config section names are derived for records
// of this type.
func WithSectionName(fn SectionNameFunc) TypeOption {
	return func(t *Type) { t.sectionName = fn }
}

// Name returns the type's dotted identifier.
func (t *Type) Name() string {
	return t.def.Name
}

// Def returns the type's definition.
func (t *Type) Def() model.TypeDef {
	return t.def
}

// Field returns the descriptor for a field name, or nil if unknown.
func (t *Type) Field(name string) *Field {
	return t.fields[name]
}

// Fields returns all field descriptors sorted by name.
func (t *Type) Fields() []*Field {
	out := make([]*Field, 0, len(t.fields))
	for _, f := range t.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EnvFields returns the computed env-backed field descriptors sorted by name.
func (t *Type) EnvFields() []*Field {
	var out []*Field
	for _, f := range t.fields {
		if f.Computed {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StorableDefs returns the declarations of fields persisted in the record's
// attrs, excluding computed fields and blob-packed shadows.
func (t *Type) StorableDefs() []model.FieldDef {
	var defs []model.FieldDef
	for _, f := range t.Fields() {
		if f.Stored && f.Packed == "" {
			defs = append(defs, f.Def())
		}
	}
	return defs
}

// ShadowDefs returns the declarations of the shadow default fields packed
// into the env_defaults blob.
func (t *Type) ShadowDefs() []model.FieldDef {
	var defs []model.FieldDef
	for _, f := range t.Fields() {
		if f.Packed == EnvDefaultsAttr {
			defs = append(defs, f.Def())
		}
	}
	return defs
}

// SectionName computes the config section for one record. The default rule
// joins the type identifier (dots replaced by underscores, or the type's
// SectionPrefix when set) with the record's display name, e.g.
// "storage_backend.Primary". Recomputed on every call: the display name is
// mutable record state.
func (t *Type) SectionName(rec *model.Record) string {
	if t.sectionName != nil {
		return t.sectionName(rec)
	}
	prefix := t.def.SectionPrefix
	if prefix == "" {
		prefix = strings.ReplaceAll(t.def.Name, ".", "_")
	}
	return prefix + "." + rec.Name
}

// Setup transforms the type's declared env fields into computed fields and
// registers their shadow defaults. Safe to run repeatedly: the field
// mutation is unconditional state assignment and shadow creation is guarded
// by an existence check.
//
// Referencing a field name that is not declared on the type is a programming
// error and fails setup.
func (t *Type) Setup() error {
	names := make([]string, 0, len(t.def.EnvFields))
	for name := range t.def.EnvFields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		getter := t.def.EnvFields[name]
		if !getter.IsValid() {
			return fmt.Errorf("type %s: env field %q: unknown getter %q", t.def.Name, name, getter)
		}
		f, ok := t.fields[name]
		if !ok {
			return fmt.Errorf("type %s: env field %q is not a declared field", t.def.Name, name)
		}

		f.Computed = true
		f.Stored = false
		f.Copy = false
		f.Packed = ""
		f.Getter = getter

		shadow := DefaultFieldName(name)
		if _, ok := t.fields[shadow]; !ok {
			t.fields[shadow] = &Field{
				Name:      shadow,
				Type:      f.Type,
				Required:  f.Required,
				Values:    f.Values,
				Stored:    true,
				Copy:      true,
				Packed:    EnvDefaultsAttr,
				Automatic: true,
			}
		}
	}
	return nil
}

// Registry holds the registered record types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry returns an empty type registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register builds a runtime type from a definition, runs schema setup on it,
// and stores it under its name, replacing any previous registration. Setup
// failures propagate and leave the previous registration intact.
func (r *Registry) Register(def model.TypeDef, opts ...TypeOption) (*Type, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	t := &Type{
		def:    def,
		fields: make(map[string]*Field, len(def.Fields)),
	}
	for i, fd := range def.Fields {
		t.fields[fd.Name] = &Field{
			Name:     fd.Name,
			Type:     fd.Type,
			Required: fd.Required,
			Values:   fd.Values,
			Sequence: i + 1,
			Stored:   true,
			Copy:     true,
		}
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.Setup(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.types[def.Name] = t
	r.mu.Unlock()
	return t, nil
}

// Type returns the registered type for a name.
func (r *Registry) Type(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Types returns all registered types sorted by name.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].def.Name < out[j].def.Name })
	return out
}

// Remove drops a type registration. Records of removed types keep their
// stored state; they just stop resolving env fields.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.types, name)
	r.mu.Unlock()
}
