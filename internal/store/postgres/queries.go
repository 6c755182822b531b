package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/groblegark/srvenv/internal/model"
)

// recordColumns is the column list used for SELECT statements on the records table.
const recordColumns = `id, type, name, attrs, env_defaults, created_at, created_by, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateRecord(ctx context.Context, db executor, r *model.Record) error {
	attrs, err := jsonbMap(r.Attrs)
	if err != nil {
		return fmt.Errorf("marshal attrs: %w", err)
	}
	defaults, err := jsonbMap(r.EnvDefaults)
	if err != nil {
		return fmt.Errorf("marshal env defaults: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO records (
			id, type, name, attrs, env_defaults, created_at, created_by, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID,
		r.Type,
		r.Name,
		attrs,
		defaults,
		r.CreatedAt,
		r.CreatedBy,
		r.UpdatedAt,
	)
	return err
}

func queryGetRecord(ctx context.Context, db executor, id string) (*model.Record, error) {
	row := db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id)
	return scanRecord(row)
}

func queryListRecords(ctx context.Context, db executor, filter model.RecordFilter) ([]*model.Record, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT COUNT(*) OVER () AS total_count, ` + recordColumns + ` FROM records`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY type, name"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		records []*model.Record
		total   int
	)
	for rows.Next() {
		rec, n, err := scanRecordWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = n
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func queryUpdateRecord(ctx context.Context, db executor, r *model.Record) error {
	attrs, err := jsonbMap(r.Attrs)
	if err != nil {
		return fmt.Errorf("marshal attrs: %w", err)
	}
	defaults, err := jsonbMap(r.EnvDefaults)
	if err != nil {
		return fmt.Errorf("marshal env defaults: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		UPDATE records
		SET name = $2, attrs = $3, env_defaults = $4, updated_at = $5
		WHERE id = $1`,
		r.ID,
		r.Name,
		attrs,
		defaults,
		r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

func queryDeleteRecord(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

func querySetTypeDef(ctx context.Context, db executor, def *model.TypeDef) error {
	definition, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal type definition: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO type_defs (name, definition, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET definition = $2, updated_at = $3`,
		def.Name,
		definition,
		def.UpdatedAt,
	)
	return err
}

func queryGetTypeDef(ctx context.Context, db executor, name string) (*model.TypeDef, error) {
	row := db.QueryRowContext(ctx, `SELECT definition, updated_at FROM type_defs WHERE name = $1`, name)
	return scanTypeDef(row)
}

func queryListTypeDefs(ctx context.Context, db executor) ([]*model.TypeDef, error) {
	rows, err := db.QueryContext(ctx, `SELECT definition, updated_at FROM type_defs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []*model.TypeDef
	for rows.Next() {
		def, err := scanTypeDef(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

func queryDeleteTypeDef(ctx context.Context, db executor, name string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM type_defs WHERE name = $1`, name)
	if err != nil {
		return err
	}
	return errIfNoRows(res)
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO events (topic, record_id, actor, payload)
		VALUES ($1, $2, $3, $4)`,
		e.Topic,
		nullString(e.RecordID),
		nullString(e.Actor),
		jsonbBytes(e.Payload),
	)
	return err
}

func queryGetEvents(ctx context.Context, db executor, recordID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, record_id, actor, payload, created_at
		FROM events WHERE record_id = $1 ORDER BY id`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// errIfNoRows turns a zero-row update or delete into sql.ErrNoRows so
// callers can distinguish "not found" from other failures.
func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// jsonbMap marshals a map for a jsonb column; nil maps become empty objects.
func jsonbMap(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(m)
}

// nullString converts an empty string to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// jsonbBytes converts empty JSON payloads to NULL.
func jsonbBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
