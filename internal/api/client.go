package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrBackendUnavailable covers connection-level failures and an open
	// circuit breaker; callers show a generic "try again later" message.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// StatusError carries the backend's own error message for a non-2xx reply.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Client talks to the marketplace REST backend. Every request goes through a
// shared circuit breaker so a flapping backend does not pile up timeouts.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        "marketplace-backend",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

// envelope is the backend's standard response wrapper. Some endpoints answer
// with a bare payload instead, so every field is optional.
type envelope struct {
	OK      *bool           `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// page is the paginated wrapper used by the collection endpoints.
type page struct {
	Content json.RawMessage `json:"content"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	raw, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.doOnce(ctx, method, path, token, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return raw, err
}

func (c *Client) doOnce(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if len(text) == 0 {
		if ok {
			return nil, nil
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: httpFallback(resp)}
	}

	if !json.Valid(text) {
		if ok {
			return nil, nil
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: httpFallback(resp)}
	}

	if !ok {
		var env envelope
		msg := httpFallback(resp)
		if json.Unmarshal(text, &env) == nil {
			if env.Message != "" {
				msg = env.Message
			} else if env.Error != "" {
				msg = env.Error
			}
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}

	return json.RawMessage(text), nil
}

func httpFallback(resp *http.Response) string {
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// unwrapData peels the {ok, data} envelope when present; a bare payload is
// returned as-is.
func unwrapData(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data
	}
	return raw
}

// unwrapList additionally peels the paginated {content: [...]} wrapper.
func unwrapList(raw json.RawMessage) json.RawMessage {
	raw = unwrapData(raw)
	if len(raw) == 0 {
		return raw
	}
	var pg page
	if err := json.Unmarshal(raw, &pg); err == nil && pg.Content != nil {
		return pg.Content
	}
	return raw
}

// ListQuery mirrors the collection endpoints' query parameters.
type ListQuery struct {
	ActiveOnly bool
	Author     string
	Page       int
	Size       int
}

func (q ListQuery) encode() string {
	v := url.Values{}
	v.Set("activeOnly", fmt.Sprint(q.ActiveOnly))
	if q.Author != "" {
		v.Set("author", q.Author)
	}
	v.Set("page", fmt.Sprint(q.Page))
	v.Set("size", fmt.Sprint(q.Size))
	return v.Encode()
}

func (c *Client) ListBooks(ctx context.Context, q ListQuery, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/books?"+q.encode(), token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList(raw), nil
}

func (c *Client) GetBook(ctx context.Context, id int64, activeOnly bool, token string) (json.RawMessage, error) {
	path := fmt.Sprintf("/books/%d?activeOnly=%t", id, activeOnly)
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) CreateBook(ctx context.Context, book any, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, "/books", token, book)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) UpdateBook(ctx context.Context, book any, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPut, "/books", token, book)
	if err != nil {
		return nil, err
	}
	// update answers with a nested {ok, data} wrapper
	return unwrapData(unwrapData(raw)), nil
}

func (c *Client) ToggleBookStatus(ctx context.Context, id int64, active bool, token string) error {
	path := fmt.Sprintf("/admin/books/%d/toggle-status", id)
	_, err := c.do(ctx, http.MethodPut, path, token, map[string]bool{"active": active})
	return err
}

func (c *Client) ListAlbums(ctx context.Context, q ListQuery, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/musicAlbums?"+q.encode(), token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList(raw), nil
}

func (c *Client) GetAlbum(ctx context.Context, id int64, activeOnly bool, token string) (json.RawMessage, error) {
	path := fmt.Sprintf("/musicAlbums/%d?activeOnly=%t", id, activeOnly)
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) CreateAlbum(ctx context.Context, album any, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, "/musicAlbums", token, album)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) UpdateAlbum(ctx context.Context, album any, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPut, "/musicAlbums", token, album)
	if err != nil {
		return nil, err
	}
	return unwrapData(unwrapData(raw)), nil
}

func (c *Client) ToggleAlbumStatus(ctx context.Context, id int64, active bool, token string) error {
	path := fmt.Sprintf("/admin/musicAlbums/%d/toggle-status", id)
	_, err := c.do(ctx, http.MethodPut, path, token, map[string]bool{"active": active})
	return err
}

func (c *Client) Authenticate(ctx context.Context, credentials any) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/authenticate", "", credentials)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) Register(ctx context.Context, user any) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/register", "", user)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) UpdateUser(ctx context.Context, user any, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPut, "/users/update", token, user)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) CreateBuy(ctx context.Context, body any, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, "/buys/create", token, body)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) ConfirmBuy(ctx context.Context, buyID int64, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/buys/%d/confirm", buyID), token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) EmptyBuy(ctx context.Context, buyID int64, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/buys/%d/empty", buyID), token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (c *Client) AdminStats(ctx context.Context, token string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/stats", token, nil)
	if err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}
