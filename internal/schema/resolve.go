package schema

import (
	"log/slog"

	"github.com/groblegark/srvenv/internal/model"
)

// Source is the read side of the environment configuration store consumed by
// the resolver. The store itself is process-wide, read-mostly state owned by
// the caller; the resolver never mutates it.
type Source interface {
	// HasKey reports whether the section contains the key. Pure membership
	// check, no side effects.
	HasKey(section, key string) bool
	Get(section, key string) (string, error)
	GetBool(section, key string) (bool, error)
	GetInt(section, key string) (int, error)
}

// Resolver computes the env-backed field values of records.
type Resolver struct {
	src    Source
	logger *slog.Logger
}

// NewResolver returns a resolver reading from src. A nil logger falls back
// to slog.Default().
func NewResolver(src Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{src: src, logger: logger}
}

// Resolve fills the computed env fields of every record in the batch,
// in-memory only. For each record and field: if the configuration store has
// the section+key, the typed config value wins regardless of the stored
// default; otherwise the record's shadow default is used verbatim. Lookup
// failures never propagate; they are logged and collapse to the getter's
// empty sentinel. Records and fields are independent of each other.
func (r *Resolver) Resolve(t *Type, records []*model.Record) {
	envFields := t.EnvFields()
	for _, rec := range records {
		section := t.SectionName(rec)
		for _, f := range envFields {
			var value any
			if r.src.HasKey(section, f.Name) {
				value = r.lookup(section, f)
			} else {
				value = normalize(f.Getter, rec.EnvDefault(DefaultFieldName(f.Name)))
			}
			rec.SetAttr(f.Name, value)
		}
	}
}

// lookup fetches one typed value from the configuration store. Errors are
// recovered here: logged with field and section context, resolved to the
// getter's zero sentinel.
func (r *Resolver) lookup(section string, f *Field) any {
	var (
		value any
		err   error
	)
	switch f.Getter {
	case model.GetterBool:
		value, err = r.src.GetBool(section, f.Name)
	case model.GetterInt:
		value, err = r.src.GetInt(section, f.Name)
	default:
		value, err = r.src.Get(section, f.Name)
	}
	if err != nil {
		r.logger.Warn("error reading env field",
			"field", f.Name,
			"section", section,
			"error", err,
		)
		return f.Getter.Zero()
	}
	return value
}

// normalize coerces a stored shadow default to the getter's value type. JSON
// round-trips turn integers into float64; a nil default is the getter's
// empty sentinel.
func normalize(g model.Getter, v any) any {
	if v == nil {
		return g.Zero()
	}
	if g == model.GetterInt {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return v
}
