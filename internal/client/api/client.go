// Package api is the HTTP client for the notes API. It mirrors the server's
// wire shapes and maps HTTP failures back onto the shared error sentinels so
// the CLI can react uniformly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/janegov/notesapi/internal/common"
)

// Note is a note as the server renders it.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId"`
}

// ListFilter narrows ListNotes. Zero values mean "no constraint"; dates are
// sent as the server expects them (YYYY-MM-DD or RFC3339).
type ListFilter struct {
	Search   string
	FromDate string
	ToDate   string
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  []common.FieldError `json:"errors"`
}

// Client talks to one notes API server. It remembers the bearer token from
// the last successful Register or Login and attaches it to every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsAuthenticated reports whether the client holds a bearer token.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// Logout forgets the bearer token.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// mapError turns a non-2xx response into the matching sentinel. Validation
// detail from the body is preserved so the CLI can show per-field messages.
func mapError(resp *http.Response) error {
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if len(body.Errors) > 0 {
			return &common.ValidationError{Fields: body.Errors}
		}
		return fmt.Errorf("%s", body.Message)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", body.Message, common.ErrVersionConflict)
	default:
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, body.Message)
	}
}

func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ping checks server reachability.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/ping", nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return mapError(resp)
	}
	resp.Body.Close()
	return nil
}

// Register creates an account and logs straight in with the returned token.
func (c *Client) Register(ctx context.Context, email, password, confirmPassword string) error {
	in := map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/register", nil, in)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return mapError(resp)
	}

	var tr tokenResponse
	if err := decodeJSON(resp, &tr); err != nil {
		return err
	}
	c.token = tr.Token
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	in := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil, in)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return mapError(resp)
	}

	var tr tokenResponse
	if err := decodeJSON(resp, &tr); err != nil {
		return err
	}
	c.token = tr.Token
	return nil
}

// ListNotes returns the caller's notes, newest first.
func (c *Client) ListNotes(ctx context.Context, filter ListFilter) ([]*Note, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.FromDate != "" {
		query.Set("fromDate", filter.FromDate)
	}
	if filter.ToDate != "" {
		query.Set("toDate", filter.ToDate)
	}

	resp, err := c.do(ctx, http.MethodGet, "/notes", query, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapError(resp)
	}

	var notes []*Note
	if err := decodeJSON(resp, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote returns one of the caller's notes by id.
func (c *Client) GetNote(ctx context.Context, id int64) (*Note, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapError(resp)
	}

	var note Note
	if err := decodeJSON(resp, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote creates a note and returns it as stored.
func (c *Client) CreateNote(ctx context.Context, title, description string) (*Note, error) {
	in := map[string]string{"title": title, "description": description}
	resp, err := c.do(ctx, http.MethodPost, "/notes", nil, in)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, mapError(resp)
	}

	var note Note
	if err := decodeJSON(resp, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote rewrites a note's title and description.
func (c *Client) UpdateNote(ctx context.Context, id int64, title, description string) error {
	in := map[string]string{"title": title, "description": description}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), nil, in)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return mapError(resp)
	}
	resp.Body.Close()
	return nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return mapError(resp)
	}
	resp.Body.Close()
	return nil
}
