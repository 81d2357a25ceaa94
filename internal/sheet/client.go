// Package sheet talks to the spreadsheet web app that owns the license data.
// The dashboard never stores anything itself; every add and delete goes
// through here and reads come back as raw rows for the classifier.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"licenca_dashboard/internal/classify"
)

// The endpoint expects plain-text POST bodies; anything else triggers a CORS
// preflight the web app cannot answer.
const postContentType = "text/plain;charset=utf-8"

// Client wraps the single ?action= endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a logical failure reported by the endpoint (ok:false), as
// opposed to a transport or decode failure.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// List fetches the primary license requests.
func (c *Client) List(ctx context.Context) ([]classify.PrimaryRecord, error) {
	var rows []classify.PrimaryRecord
	if err := c.getRows(ctx, "list", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Indeferimentos fetches the historical denial roster.
func (c *Client) Indeferimentos(ctx context.Context) ([]classify.DenialRecord, error) {
	var rows []classify.DenialRecord
	if err := c.getRows(ctx, "indeferimentos", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// getRows performs a GET ?action=... and decodes the array. A syntactically
// valid non-array body (the web app's way of saying "nothing here") leaves
// the target empty rather than failing the load.
func (c *Client) getRows(ctx context.Context, action string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?action="+action, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: status %d", action, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", action, err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var probe any
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return fmt.Errorf("fetch %s: decode: %w", action, err)
		}
		return nil
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("fetch %s: decode: %w", action, err)
	}
	return nil
}

// Add submits a new license request.
func (c *Client) Add(ctx context.Context, rec classify.PrimaryRecord) error {
	return c.post(ctx, map[string]any{"action": "add", "record": rec})
}

// Delete removes a request by its opaque id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.post(ctx, map[string]any{"action": "delete", "id": id})
}

func (c *Client) post(ctx context.Context, payload map[string]any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", postContentType)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %v: %w", payload["action"], err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post %v: status %d", payload["action"], resp.StatusCode)
	}
	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("post %v: decode: %w", payload["action"], err)
	}
	if !result.OK {
		msg := result.Error
		if msg == "" {
			msg = "erro desconhecido"
		}
		return &APIError{Message: msg}
	}
	return nil
}
