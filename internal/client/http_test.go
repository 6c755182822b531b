package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/groblegark/srvenv/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "test-token")
}

func TestCreateRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/records" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var req CreateRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Type != "storage.backend" || req.Name != "Primary" {
			t.Errorf("request = %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Record{
			ID: "se-new1", Type: req.Type, Name: req.Name,
			Attrs: map[string]any{"directory_path": "/srv/files"},
		})
	})

	rec, err := c.CreateRecord(context.Background(), &CreateRecordRequest{
		Type: "storage.backend",
		Name: "Primary",
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID != "se-new1" || rec.Attr("directory_path") != "/srv/files" {
		t.Errorf("record = %+v", rec)
	}
}

func TestGetRecord_RawQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/records/se-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("raw") != "true" {
			t.Error("raw query parameter missing")
		}
		json.NewEncoder(w).Encode(model.Record{ID: "se-1"})
	})

	if _, err := c.GetRecord(context.Background(), "se-1", true); err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
}

func TestListRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "storage.backend" || q.Get("limit") != "10" || q.Get("offset") != "20" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(ListRecordsResponse{
			Records: []*model.Record{{ID: "se-1"}, {ID: "se-2"}},
			Total:   42,
		})
	})

	resp, err := c.ListRecords(context.Background(), &ListRecordsRequest{
		Type: "storage.backend", Limit: 10, Offset: 20,
	})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if resp.Total != 42 || len(resp.Records) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDeleteRecord_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteRecord(context.Background(), "se-1"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "record not found"})
	})

	_, err := c.GetRecord(context.Background(), "se-missing", false)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "record not found" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestSetType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/v1/types/storage.backend" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var def model.TypeDef
		if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(def)
	})

	def, err := c.SetType(context.Background(), &model.TypeDef{
		Name:      "storage.backend",
		Fields:    []model.FieldDef{{Name: "host", Type: model.FieldTypeString}},
		EnvFields: map[string]model.Getter{"host": model.GetterString},
	})
	if err != nil {
		t.Fatalf("SetType: %v", err)
	}
	if def.Name != "storage.backend" {
		t.Errorf("def = %+v", def)
	}
}

func TestGetType_EscapesName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// A slash in the name must stay one path segment.
		if got := r.URL.EscapedPath(); got != "/v1/types/odd%2Fname" {
			t.Errorf("escaped path = %s", got)
		}
		json.NewEncoder(w).Encode(model.TypeDef{Name: "odd/name"})
	})

	if _, err := c.GetType(context.Background(), "odd/name"); err != nil {
		t.Fatalf("GetType: %v", err)
	}
}

func TestDeleteType_EscapesName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/v1/types/odd%2Fname" {
			t.Errorf("escaped path = %s", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteType(context.Background(), "odd/name"); err != nil {
		t.Fatalf("DeleteType: %v", err)
	}
}

func TestGetSection_EscapesName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/v1/env/sections/odd%2Fsection" {
			t.Errorf("escaped path = %s", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"section": "odd/section", "values": map[string]string{}})
	})

	if _, err := c.GetSection(context.Background(), "odd/section"); err != nil {
		t.Fatalf("GetSection: %v", err)
	}
}

func TestGetSection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/env/sections/mail.Outgoing" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"section": "mail.Outgoing",
			"values":  map[string]string{"host": "smtp.example.com"},
		})
	})

	values, err := c.GetSection(context.Background(), "mail.Outgoing")
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	if values["host"] != "smtp.example.com" {
		t.Errorf("values = %v", values)
	}
}

func TestReloadEnv(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/env/reload" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"sections": 7})
	})

	n, err := c.ReloadEnv(context.Background())
	if err != nil {
		t.Fatalf("ReloadEnv: %v", err)
	}
	if n != 7 {
		t.Errorf("sections = %d, want 7", n)
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
