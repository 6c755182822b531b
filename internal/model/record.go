package model

import "time"

// Getter identifies the typed lookup used when a field is resolved from the
// environment configuration store.
type Getter string

const (
	GetterString Getter = "get"
	GetterBool   Getter = "get_bool"
	GetterInt    Getter = "get_int"
)

// String returns the string representation of the getter.
func (g Getter) String() string {
	return string(g)
}

// IsValid checks whether the getter is a known value.
func (g Getter) IsValid() bool {
	switch g {
	case GetterString, GetterBool, GetterInt:
		return true
	}
	return false
}

// Zero returns the empty sentinel for the getter's value type. It is the
// resolved value when a lookup fails or no fallback is set.
func (g Getter) Zero() any {
	switch g {
	case GetterBool:
		return false
	case GetterInt:
		return 0
	default:
		return ""
	}
}

// Record is a single row of a registered record type. Attrs holds the typed
// field values as a JSON object; EnvDefaults is the serialized blob holding
// the auto-generated fallback fields, keyed by shadow field name.
type Record struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Attrs       map[string]any `json:"attrs,omitempty"`
	EnvDefaults map[string]any `json:"env_defaults,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CreatedBy   string         `json:"created_by,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Attr returns the value of a field from the record's attrs, or nil.
func (r *Record) Attr(name string) any {
	if r.Attrs == nil {
		return nil
	}
	return r.Attrs[name]
}

// SetAttr assigns an in-memory field value on the record.
func (r *Record) SetAttr(name string, value any) {
	if r.Attrs == nil {
		r.Attrs = make(map[string]any)
	}
	r.Attrs[name] = value
}

// EnvDefault returns the stored fallback value for a shadow field, or nil
// when no default has been set.
func (r *Record) EnvDefault(shadowField string) any {
	if r.EnvDefaults == nil {
		return nil
	}
	return r.EnvDefaults[shadowField]
}

// SetEnvDefault stores a fallback value under a shadow field name.
func (r *Record) SetEnvDefault(shadowField string, value any) {
	if r.EnvDefaults == nil {
		r.EnvDefaults = make(map[string]any)
	}
	r.EnvDefaults[shadowField] = value
}
