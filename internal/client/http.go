package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/srvenv/internal/model"
)

// HTTPClient implements Client using the srvenv HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Record CRUD ---

func (c *HTTPClient) CreateRecord(ctx context.Context, req *CreateRecordRequest) (*model.Record, error) {
	var rec model.Record
	if err := c.doJSON(ctx, http.MethodPost, "/v1/records", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) GetRecord(ctx context.Context, id string, raw bool) (*model.Record, error) {
	path := "/v1/records/" + url.PathEscape(id)
	if raw {
		path += "?raw=true"
	}
	var rec model.Record
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) ListRecords(ctx context.Context, req *ListRecordsRequest) (*ListRecordsResponse, error) {
	q := url.Values{}
	if req.Type != "" {
		q.Set("type", req.Type)
	}
	if req.Name != "" {
		q.Set("name", req.Name)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	if req.Raw {
		q.Set("raw", "true")
	}

	path := "/v1/records"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListRecordsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, id string, req *UpdateRecordRequest) (*model.Record, error) {
	var rec model.Record
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/records/"+url.PathEscape(id), req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) CopyRecord(ctx context.Context, id, name, actor string) (*model.Record, error) {
	body := map[string]string{"name": name}
	if actor != "" {
		body["actor"] = actor
	}
	var rec model.Record
	if err := c.doJSON(ctx, http.MethodPost, "/v1/records/"+url.PathEscape(id)+"/copy", body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/records/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) GetEvents(ctx context.Context, id string) ([]*model.Event, error) {
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/records/"+url.PathEscape(id)+"/events", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Type definitions ---

func (c *HTTPClient) ListTypes(ctx context.Context) ([]model.TypeDef, error) {
	var resp struct {
		Types []model.TypeDef `json:"types"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Types, nil
}

func (c *HTTPClient) GetType(ctx context.Context, name string) (*model.TypeDef, error) {
	var def model.TypeDef
	if err := c.doJSON(ctx, http.MethodGet, "/v1/types/"+url.PathEscape(name), nil, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *HTTPClient) SetType(ctx context.Context, def *model.TypeDef) (*model.TypeDef, error) {
	var out model.TypeDef
	if err := c.doJSON(ctx, http.MethodPut, "/v1/types/"+url.PathEscape(def.Name), def, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteType(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/types/"+url.PathEscape(name), nil, nil)
}

// --- Environment configuration ---

func (c *HTTPClient) ListSections(ctx context.Context) ([]string, error) {
	var resp struct {
		Sections []string `json:"sections"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/env/sections", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sections, nil
}

func (c *HTTPClient) GetSection(ctx context.Context, name string) (map[string]string, error) {
	var resp struct {
		Values map[string]string `json:"values"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/env/sections/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *HTTPClient) ReloadEnv(ctx context.Context) (int, error) {
	var resp struct {
		Sections int `json:"sections"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/env/reload", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Sections, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/v1/health", nil, nil)
}

// doJSON performs a request against the API, encoding body and decoding the
// response into result when non-nil.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content carries no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
