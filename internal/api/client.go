package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token and is told when the backend rejects it.
type TokenSource interface {
	Token() string
	// Invalidate clears the session. refresh is true when the backend asked for a
	// fresh login rather than plainly answering 401.
	Invalidate(ctx context.Context, refresh bool)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("url.ParseRequestURI: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetTokenSource attaches the session. It is separate from New because the session
// itself logs in through this client.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens = ts
}

func (c *Client) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tokens
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	tokens := c.tokenSource()
	if tokens != nil {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.logger.With(zap.String("method", method), zap.String("path", path), zap.String("request_id", requestID))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return &Error{Kind: KindNetwork, Message: NetworkErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("read response failed", zap.Error(err))
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: NetworkErrorMessage, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	refresh := needsTokenRefresh(env.Message)
	if resp.StatusCode == http.StatusUnauthorized || refresh {
		log.Info("session rejected by backend", zap.Int("status", resp.StatusCode))
		if tokens != nil {
			tokens.Invalidate(ctx, refresh)
		}
		return &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Message: messageOr(env.Message, "Unauthorized")}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Debug("backend rejected request", zap.Int("status", resp.StatusCode), zap.String("message", env.Message))
		return &Error{Kind: KindBackend, Status: resp.StatusCode, Message: messageOr(env.Message, http.StatusText(resp.StatusCode))}
	}

	if decodeErr != nil {
		return &Error{Kind: KindBackend, Status: resp.StatusCode, Message: "Unexpected response from server", Err: decodeErr}
	}
	if !env.Success {
		return &Error{Kind: KindBackend, Status: resp.StatusCode, Message: messageOr(env.Message, "Request failed")}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindBackend, Status: resp.StatusCode, Message: "Unexpected response from server", Err: err}
	}

	return nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

// list decodes either a bare JSON array or a page object with a content array.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}

	var page struct {
		Content []T `json:"content"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*l = page.Content
	return nil
}

func pathID(id string) string {
	return url.PathEscape(id)
}
