package store

import (
	"context"

	"github.com/groblegark/srvenv/internal/model"
)

// Store defines the persistence interface for records and type definitions.
type Store interface {
	// Record CRUD
	CreateRecord(ctx context.Context, rec *model.Record) error
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.Record, int, error) // returns records, total count, error
	UpdateRecord(ctx context.Context, rec *model.Record) error
	DeleteRecord(ctx context.Context, id string) error

	// Type definitions
	SetTypeDef(ctx context.Context, def *model.TypeDef) error
	GetTypeDef(ctx context.Context, name string) (*model.TypeDef, error)
	ListTypeDefs(ctx context.Context) ([]*model.TypeDef, error)
	DeleteTypeDef(ctx context.Context, name string) error

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, recordID string) ([]*model.Event, error)

	// Lifecycle
	Close() error
}
