// Package client calls the todo collection API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todo-api/models"
)

const collectionPath = "/api/todos"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api: status %d", e.Code)
	}
	return fmt.Sprintf("todo api: status %d: %s", e.Code, e.Message)
}

// Client talks to one todo server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL (scheme and host, e.g.
// "http://localhost:3000"). A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var out struct {
		Todos []models.Task `json:"todos"`
	}
	if err := c.do(ctx, http.MethodGet, nil, &out); err != nil {
		return nil, err
	}
	if out.Todos == nil {
		out.Todos = []models.Task{}
	}
	return out.Todos, nil
}

// Create adds a task with title.
func (c *Client) Create(ctx context.Context, title string) error {
	return c.do(ctx, http.MethodPost, map[string]any{"title": title}, nil)
}

// Update overwrites title and completed of id.
func (c *Client) Update(ctx context.Context, id, title string, completed bool) error {
	return c.do(ctx, http.MethodPut, map[string]any{"id": id, "title": title, "completed": completed}, nil)
}

// Delete removes id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, map[string]any{"id": id}, nil)
}

func (c *Client) do(ctx context.Context, method string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+collectionPath, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, collectionPath, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(data, &msg)
		text := msg.Error
		if text == "" {
			text = msg.Message
		}
		return &StatusError{Code: resp.StatusCode, Message: text}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
