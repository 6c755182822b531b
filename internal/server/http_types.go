package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/groblegark/srvenv/internal/events"
	"github.com/groblegark/srvenv/internal/model"
)

// handleListTypes handles GET /v1/types.
func (s *EnvServer) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types := s.registry.Types()
	defs := make([]model.TypeDef, 0, len(types))
	for _, t := range types {
		defs = append(defs, t.Def())
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": defs})
}

// handleGetType handles GET /v1/types/{name}.
func (s *EnvServer) handleGetType(w http.ResponseWriter, r *http.Request) {
	t, ok := s.registry.Type(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "type not found")
		return
	}
	writeJSON(w, http.StatusOK, t.Def())
}

// handleSetType handles PUT /v1/types/{name}: register (or replace) a type
// definition and persist it. Schema setup failures (an env field that is
// not a declared field, an unknown getter) are configuration errors and
// reject the definition.
func (s *EnvServer) handleSetType(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "type name is required")
		return
	}

	var def model.TypeDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Name != name {
		writeError(w, http.StatusBadRequest, "type name in body does not match URL")
		return
	}
	def.UpdatedAt = time.Now().UTC()

	if _, err := s.registry.Register(def); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SetTypeDef(r.Context(), &def); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store type definition")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTypeDefUpdated, "", "", events.TypeDefUpdated{TypeDef: &def})

	writeJSON(w, http.StatusOK, def)
}

// handleDeleteType handles DELETE /v1/types/{name}.
func (s *EnvServer) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.store.DeleteTypeDef(r.Context(), name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete type definition")
		return
	}
	s.registry.Remove(name)

	s.recordAndPublish(r.Context(), events.TopicTypeDefDeleted, "", "", events.TypeDefDeleted{Name: name})

	w.WriteHeader(http.StatusNoContent)
}
