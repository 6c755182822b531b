package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted audit entry for a record or type change.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	RecordID  string          `json:"record_id,omitempty"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
