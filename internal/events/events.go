package events

import (
	"context"

	"github.com/groblegark/srvenv/internal/model"
)

// Event topic constants
const (
	TopicRecordCreated = "srvenv.record.created"
	TopicRecordUpdated = "srvenv.record.updated"
	TopicRecordCopied  = "srvenv.record.copied"
	TopicRecordDeleted = "srvenv.record.deleted"

	TopicTypeDefUpdated = "srvenv.typedef.updated"
	TopicTypeDefDeleted = "srvenv.typedef.deleted"

	// Emitted after the environment configuration store is re-read, so
	// consumers can drop caches derived from resolved values.
	TopicEnvReloaded = "srvenv.env.reloaded"
)

// Event types

type RecordCreated struct {
	Record *model.Record `json:"record"`
}

type RecordUpdated struct {
	Record  *model.Record  `json:"record"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type RecordCopied struct {
	Record   *model.Record `json:"record"`
	SourceID string        `json:"source_id"`
}

type RecordDeleted struct {
	RecordID string `json:"record_id"`
}

type TypeDefUpdated struct {
	TypeDef *model.TypeDef `json:"type_def"`
}

type TypeDefDeleted struct {
	Name string `json:"name"`
}

type EnvReloaded struct {
	Sections int `json:"sections"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
