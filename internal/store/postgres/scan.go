package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/groblegark/srvenv/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a model.Record. The row must contain
// columns in the order defined by recordColumns.
func scanRecord(row scannable) (*model.Record, error) {
	var (
		r         model.Record
		attrs     []byte
		defaults  []byte
		createdBy sql.NullString
	)

	err := row.Scan(
		&r.ID,
		&r.Type,
		&r.Name,
		&attrs,
		&defaults,
		&r.CreatedAt,
		&createdBy,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedBy = createdBy.String
	if err := unmarshalBlob(attrs, &r.Attrs); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	if err := unmarshalBlob(defaults, &r.EnvDefaults); err != nil {
		return nil, fmt.Errorf("decode env defaults: %w", err)
	}
	return &r, nil
}

// scanRecordWithTotal scans a listing row that carries a leading total_count
// column before the record columns.
func scanRecordWithTotal(row scannable) (*model.Record, int, error) {
	var (
		total     int
		r         model.Record
		attrs     []byte
		defaults  []byte
		createdBy sql.NullString
	)

	err := row.Scan(
		&total,
		&r.ID,
		&r.Type,
		&r.Name,
		&attrs,
		&defaults,
		&r.CreatedAt,
		&createdBy,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	r.CreatedBy = createdBy.String
	if err := unmarshalBlob(attrs, &r.Attrs); err != nil {
		return nil, 0, fmt.Errorf("decode attrs: %w", err)
	}
	if err := unmarshalBlob(defaults, &r.EnvDefaults); err != nil {
		return nil, 0, fmt.Errorf("decode env defaults: %w", err)
	}
	return &r, total, nil
}

// scanTypeDef decodes a type_defs row: the full definition is stored as a
// single jsonb document.
func scanTypeDef(row scannable) (*model.TypeDef, error) {
	var (
		definition []byte
		updatedAt  time.Time
		def        model.TypeDef
	)
	if err := row.Scan(&definition, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(definition, &def); err != nil {
		return nil, fmt.Errorf("decode type definition: %w", err)
	}
	def.UpdatedAt = updatedAt
	return &def, nil
}

func scanEvent(row scannable) (*model.Event, error) {
	var (
		e        model.Event
		recordID sql.NullString
		actor    sql.NullString
		payload  []byte
	)
	err := row.Scan(&e.ID, &e.Topic, &recordID, &actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.RecordID = recordID.String
	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

// unmarshalBlob decodes a jsonb column into a map, leaving the target nil
// for NULL or empty-object columns.
func unmarshalBlob(data []byte, dst *map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) > 0 {
		*dst = m
	}
	return nil
}
