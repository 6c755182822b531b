package envconf

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a section or key is absent from the store.
var ErrNotFound = errors.New("env config entry not found")

// CoerceError is returned when a stored value cannot be converted to the
// requested type.
type CoerceError struct {
	Section string
	Key     string
	Value   string
	Kind    string // requested type, "bool" or "int"
	Err     error
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot read %s in section [%s] as %s: %q", e.Key, e.Section, e.Kind, e.Value)
}

func (e *CoerceError) Unwrap() error {
	return e.Err
}
