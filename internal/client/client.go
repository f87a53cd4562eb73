// Package client talks to the lead REST API on behalf of UI code and tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

type Lead = usecase.LeadOutput

type LeadClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewLeadClient(baseURL, token string) *LeadClient {
	return &LeadClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *LeadClient) WithHTTPClient(h *http.Client) *LeadClient {
	c.http = h
	return c
}

func (c *LeadClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []usecase.ValidationError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lead api: status %d", e.Status)
	}
	return fmt.Sprintf("lead api: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Success    bool                      `json:"success"`
	Data       json.RawMessage           `json:"data"`
	Pagination *usecase.Pagination       `json:"pagination"`
	Code       string                    `json:"code"`
	Message    string                    `json:"message"`
	Errors     []usecase.ValidationError `json:"errors"`
}

func (c *LeadClient) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()
	return req, nil
}

func (c *LeadClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*usecase.Pagination, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Fields: env.Errors}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return env.Pagination, nil
}

type ListResult struct {
	Leads      []Lead
	Pagination usecase.Pagination
}

func (c *LeadClient) List(ctx context.Context, params url.Values) (*ListResult, error) {
	var leads []Lead
	p, err := c.do(ctx, http.MethodGet, "/leads", params, nil, &leads)
	if err != nil {
		return nil, err
	}
	res := &ListResult{Leads: leads}
	if p != nil {
		res.Pagination = *p
	}
	return res, nil
}

// ListAll walks every page of a filtered listing.
func (c *LeadClient) ListAll(ctx context.Context, params url.Values) ([]Lead, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("limit", fmt.Sprint(entity.MaxPageSize))

	var all []Lead
	for page := 1; ; page++ {
		q.Set("page", fmt.Sprint(page))
		res, err := c.List(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Leads...)
		if int64(page) >= res.Pagination.TotalPages || len(res.Leads) == 0 {
			return all, nil
		}
	}
}

func (c *LeadClient) Get(ctx context.Context, id string) (*Lead, error) {
	var lead Lead
	if _, err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(id), nil, nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) Create(ctx context.Context, input usecase.CreateLeadInput) (*Lead, error) {
	var lead Lead
	if _, err := c.do(ctx, http.MethodPost, "/leads", nil, input, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) Update(ctx context.Context, id string, patch entity.LeadPatch) (*Lead, error) {
	var lead Lead
	if _, err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id), nil, patch, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) UpdateStatus(ctx context.Context, id string, status entity.Status) (*Lead, error) {
	var lead Lead
	body := map[string]entity.Status{"status": status}
	if _, err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id)+"/status", nil, body, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// Assign sets the owner; nil unassigns.
func (c *LeadClient) Assign(ctx context.Context, id string, userID *string) (*Lead, error) {
	var lead Lead
	body := map[string]*string{"userId": userID}
	if _, err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id)+"/assign", nil, body, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) AddNote(ctx context.Context, id, text string) (*Lead, error) {
	var lead Lead
	body := map[string]string{"text": text}
	if _, err := c.do(ctx, http.MethodPost, "/leads/"+url.PathEscape(id)+"/notes", nil, body, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *LeadClient) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/leads/"+url.PathEscape(id), nil, nil, nil)
	return err
}

func (c *LeadClient) Stats(ctx context.Context, params url.Values) (*entity.LeadStats, error) {
	var stats entity.LeadStats
	if _, err := c.do(ctx, http.MethodGet, "/leads/stats", params, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Export streams the XLSX export into w.
func (c *LeadClient) Export(ctx context.Context, params url.Values, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/leads/export", params, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("export leads: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env envelope
		json.NewDecoder(resp.Body).Decode(&env)
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Fields: env.Errors}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("export leads: %w", err)
	}
	return nil
}
