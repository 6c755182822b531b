// Package client provides a typed interface for the srvenv service and an
// HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"
	"fmt"

	"github.com/groblegark/srvenv/internal/model"
)

// Client is the interface the CLI commands use to communicate with the
// srvenv server.
type Client interface {
	// Record CRUD
	CreateRecord(ctx context.Context, req *CreateRecordRequest) (*model.Record, error)
	GetRecord(ctx context.Context, id string, raw bool) (*model.Record, error)
	ListRecords(ctx context.Context, req *ListRecordsRequest) (*ListRecordsResponse, error)
	UpdateRecord(ctx context.Context, id string, req *UpdateRecordRequest) (*model.Record, error)
	CopyRecord(ctx context.Context, id, name, actor string) (*model.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	GetEvents(ctx context.Context, id string) ([]*model.Event, error)

	// Type definitions
	ListTypes(ctx context.Context) ([]model.TypeDef, error)
	GetType(ctx context.Context, name string) (*model.TypeDef, error)
	SetType(ctx context.Context, def *model.TypeDef) (*model.TypeDef, error)
	DeleteType(ctx context.Context, name string) error

	// Environment configuration
	ListSections(ctx context.Context) ([]string, error)
	GetSection(ctx context.Context, name string) (map[string]string, error)
	ReloadEnv(ctx context.Context) (int, error)

	// Health
	Health(ctx context.Context) error

	Close() error
}

// CreateRecordRequest is the payload for CreateRecord.
type CreateRecordRequest struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Attrs       map[string]any `json:"attrs,omitempty"`
	EnvDefaults map[string]any `json:"env_defaults,omitempty"`
	CreatedBy   string         `json:"created_by,omitempty"`
}

// UpdateRecordRequest is the payload for UpdateRecord. Nil fields are left
// unchanged on the server.
type UpdateRecordRequest struct {
	Name        *string        `json:"name,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty"`
	EnvDefaults map[string]any `json:"env_defaults,omitempty"`
	Actor       string         `json:"actor,omitempty"`
}

// ListRecordsRequest narrows ListRecords.
type ListRecordsRequest struct {
	Type   string
	Name   string
	Limit  int
	Offset int
	Raw    bool
}

// ListRecordsResponse carries one page of records and the total match count.
type ListRecordsResponse struct {
	Records []*model.Record `json:"records"`
	Total   int             `json:"total"`
}

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Message)
}
