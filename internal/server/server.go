// Package server exposes the record service over an HTTP JSON API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/groblegark/srvenv/internal/envconf"
	"github.com/groblegark/srvenv/internal/events"
	"github.com/groblegark/srvenv/internal/model"
	"github.com/groblegark/srvenv/internal/schema"
	"github.com/groblegark/srvenv/internal/store"
)

// EnvServer serves records whose env-backed fields are resolved through the
// environment configuration store.
type EnvServer struct {
	store     store.Store
	registry  *schema.Registry
	env       *envconf.Store
	resolver  *schema.Resolver
	publisher events.Publisher
}

// NewEnvServer returns a server backed by the given store, registry, and
// environment configuration store.
func NewEnvServer(s store.Store, reg *schema.Registry, env *envconf.Store, p events.Publisher) *EnvServer {
	return &EnvServer{
		store:     s,
		registry:  reg,
		env:       env,
		resolver:  schema.NewResolver(env, slog.Default()),
		publisher: p,
	}
}

// LoadTypes registers every persisted type definition. A definition that
// fails schema setup aborts loading: stored definitions passed setup when
// they were applied, so a failure here is a programming or data error.
func (s *EnvServer) LoadTypes(ctx context.Context) error {
	defs, err := s.store.ListTypeDefs(ctx)
	if err != nil {
		return fmt.Errorf("list type definitions: %w", err)
	}
	for _, def := range defs {
		if _, err := s.registry.Register(*def); err != nil {
			return fmt.Errorf("register type %s: %w", def.Name, err)
		}
	}
	return nil
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *EnvServer) recordAndPublish(ctx context.Context, topic, recordID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "record_id", recordID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:    topic,
		RecordID: recordID,
		Actor:    actor,
		Payload:  payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "record_id", recordID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "record_id", recordID, "error", err)
	}
}

// inputError indicates invalid user input. The HTTP layer maps it to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// checkWritableAttrs rejects writes to computed env fields and validates the
// remaining attrs against the type's persisted field declarations. A value
// for a computed field must go through its shadow default instead.
func checkWritableAttrs(t *schema.Type, attrs map[string]any) error {
	for name := range attrs {
		f := t.Field(name)
		if f != nil && f.Computed {
			return inputError(fmt.Sprintf(
				"field %q is computed from the environment; set %q instead",
				name, schema.DefaultFieldName(name),
			))
		}
	}
	if err := model.ValidateAttrs(attrs, t.StorableDefs()); err != nil {
		return inputError(err.Error())
	}
	return nil
}

// checkEnvDefaults validates that every submitted default targets an
// existing shadow field and carries a value of the original field's type.
func checkEnvDefaults(t *schema.Type, defaults map[string]any) error {
	shadowDefs := t.ShadowDefs()
	byName := make(map[string]model.FieldDef, len(shadowDefs))
	for _, d := range shadowDefs {
		byName[d.Name] = d
	}
	for name := range defaults {
		if _, ok := byName[name]; !ok {
			return inputError(fmt.Sprintf("%q is not an env default field", name))
		}
	}
	// Required is not enforced on fallbacks; an unset default is valid.
	checkDefs := make([]model.FieldDef, 0, len(shadowDefs))
	for _, d := range shadowDefs {
		d.Required = false
		checkDefs = append(checkDefs, d)
	}
	if err := model.ValidateAttrs(defaults, checkDefs); err != nil {
		return inputError(err.Error())
	}
	return nil
}

// copyRecord builds a duplicate of src honoring the per-field copy flag:
// computed env fields are excluded, shadow defaults carry over.
func copyRecord(t *schema.Type, src *model.Record, name string) *model.Record {
	dst := &model.Record{
		Type: src.Type,
		Name: name,
	}
	for _, f := range t.Fields() {
		if !f.Copy {
			continue
		}
		if f.Packed == schema.EnvDefaultsAttr {
			if v := src.EnvDefault(f.Name); v != nil {
				dst.SetEnvDefault(f.Name, v)
			}
			continue
		}
		if v := src.Attr(f.Name); v != nil {
			dst.SetAttr(f.Name, v)
		}
	}
	return dst
}
