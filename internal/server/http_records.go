package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/groblegark/srvenv/internal/events"
	"github.com/groblegark/srvenv/internal/idgen"
	"github.com/groblegark/srvenv/internal/model"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// createRecordRequest is the JSON body for POST /v1/records.
type createRecordRequest struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Attrs       map[string]any `json:"attrs"`
	EnvDefaults map[string]any `json:"env_defaults"`
	CreatedBy   string         `json:"created_by"`
}

// handleCreateRecord handles POST /v1/records.
func (s *EnvServer) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, ok := s.registry.Type(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown record type "+strconv.Quote(req.Type))
		return
	}

	now := time.Now().UTC()
	rec := &model.Record{
		Type:        req.Type,
		Name:        req.Name,
		Attrs:       req.Attrs,
		EnvDefaults: req.EnvDefaults,
		CreatedAt:   now,
		CreatedBy:   req.CreatedBy,
		UpdatedAt:   now,
	}

	if err := model.ValidateRecord(rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkWritableAttrs(t, rec.Attrs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkEnvDefaults(t, rec.EnvDefaults); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}
	rec.ID = id

	if err := s.store.CreateRecord(r.Context(), rec); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			writeError(w, http.StatusConflict, "a record with this type and name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordCreated, rec.ID, rec.CreatedBy, events.RecordCreated{Record: rec})

	s.resolver.Resolve(t, []*model.Record{rec})
	writeJSON(w, http.StatusCreated, rec)
}

// handleListRecords handles GET /v1/records?type=&name=&limit=&offset=&raw=
func (s *EnvServer) handleListRecords(w http.ResponseWriter, r *http.Request) {
	filter := model.RecordFilter{
		Type: r.URL.Query().Get("type"),
		Name: r.URL.Query().Get("name"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	records, total, err := s.store.ListRecords(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	if !rawRequested(r) {
		s.resolveRecords(records)
	}

	if records == nil {
		records = []*model.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"total":   total,
	})
}

// handleGetRecord handles GET /v1/records/{id}. The response carries the
// env-resolved field values unless ?raw=true is given.
func (s *EnvServer) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRecord(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}

	if !rawRequested(r) {
		s.resolveRecords([]*model.Record{rec})
	}
	writeJSON(w, http.StatusOK, rec)
}

// updateRecordRequest is the JSON body for PATCH /v1/records/{id}. Absent
// fields are left unchanged; attrs and env_defaults merge key by key, with
// null removing a key.
type updateRecordRequest struct {
	Name        *string        `json:"name"`
	Attrs       map[string]any `json:"attrs"`
	EnvDefaults map[string]any `json:"env_defaults"`
	Actor       string         `json:"actor"`
}

// handleUpdateRecord handles PATCH /v1/records/{id}.
func (s *EnvServer) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := s.store.GetRecord(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}

	t, ok := s.registry.Type(rec.Type)
	if !ok {
		writeError(w, http.StatusConflict, "record type "+strconv.Quote(rec.Type)+" is not registered")
		return
	}

	changes := make(map[string]any)
	if req.Name != nil && *req.Name != rec.Name {
		rec.Name = *req.Name
		changes["name"] = rec.Name
	}
	for k, v := range req.Attrs {
		changes[k] = v
		if v == nil {
			delete(rec.Attrs, k)
			continue
		}
		rec.SetAttr(k, v)
	}
	for k, v := range req.EnvDefaults {
		changes[k] = v
		if v == nil {
			delete(rec.EnvDefaults, k)
			continue
		}
		rec.SetEnvDefault(k, v)
	}

	if err := model.ValidateRecord(rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkWritableAttrs(t, rec.Attrs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkEnvDefaults(t, rec.EnvDefaults); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateRecord(r.Context(), rec); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			writeError(w, http.StatusConflict, "a record with this type and name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update record")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordUpdated, rec.ID, req.Actor, events.RecordUpdated{Record: rec, Changes: changes})

	s.resolver.Resolve(t, []*model.Record{rec})
	writeJSON(w, http.StatusOK, rec)
}

// copyRecordRequest is the JSON body for POST /v1/records/{id}/copy.
type copyRecordRequest struct {
	Name  string `json:"name"`
	Actor string `json:"actor"`
}

// handleCopyRecord handles POST /v1/records/{id}/copy. The duplicate keeps
// fields marked for copy; computed env fields are left out and re-resolve on
// their own, shadow defaults carry over.
func (s *EnvServer) handleCopyRecord(w http.ResponseWriter, r *http.Request) {
	var req copyRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	src, err := s.store.GetRecord(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}

	t, ok := s.registry.Type(src.Type)
	if !ok {
		writeError(w, http.StatusConflict, "record type "+strconv.Quote(src.Type)+" is not registered")
		return
	}

	dst := copyRecord(t, src, req.Name)
	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}
	now := time.Now().UTC()
	dst.ID = id
	dst.CreatedAt = now
	dst.CreatedBy = req.Actor
	dst.UpdatedAt = now

	if err := s.store.CreateRecord(r.Context(), dst); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			writeError(w, http.StatusConflict, "a record with this type and name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to copy record")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordCopied, dst.ID, req.Actor, events.RecordCopied{Record: dst, SourceID: src.ID})

	s.resolver.Resolve(t, []*model.Record{dst})
	writeJSON(w, http.StatusCreated, dst)
}

// handleDeleteRecord handles DELETE /v1/records/{id}.
func (s *EnvServer) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteRecord(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordDeleted, id, "", events.RecordDeleted{RecordID: id})

	w.WriteHeader(http.StatusNoContent)
}

// handleGetEvents handles GET /v1/records/{id}/events.
func (s *EnvServer) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.GetEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get events")
		return
	}
	if list == nil {
		list = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": list})
}

// resolveRecords fills env-backed field values for a mixed-type batch,
// grouping records by type. Records of unregistered types are returned as
// stored.
func (s *EnvServer) resolveRecords(records []*model.Record) {
	byType := make(map[string][]*model.Record)
	for _, rec := range records {
		byType[rec.Type] = append(byType[rec.Type], rec)
	}
	for name, group := range byType {
		if t, ok := s.registry.Type(name); ok {
			s.resolver.Resolve(t, group)
		}
	}
}

func rawRequested(r *http.Request) bool {
	raw, _ := strconv.ParseBool(r.URL.Query().Get("raw"))
	return raw
}
