// Package api talks to the program service: creating a program from an
// assembled request and listing the movement catalog.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/submission"
)

// IdempotencyHeader carries a fresh key per submission attempt.
const IdempotencyHeader = "Idempotency-Key"

// DefaultMaxBodyBytes bounds response bodies read by the client.
const DefaultMaxBodyBytes int64 = 1 << 20

// Logger records client diagnostics. It matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger routes request diagnostics to l.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxBodyBytes overrides the response size limit.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithKeyFunc overrides idempotency key generation.
func WithKeyFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newKey = fn
		}
	}
}

// Client is a small JSON client for the program service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  Logger
	maxBody int64
	newKey  func() string
}

// NewClient builds a client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    http.DefaultClient,
		logger:  nopLogger{},
		maxBody: DefaultMaxBodyBytes,
		newKey:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type createResponse struct {
	ID string `json:"id"`
}

// CreateProgram submits req and returns the new program id.
func (c *Client) CreateProgram(ctx context.Context, req submission.CreationRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("api: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/programs", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("api: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	key := c.newKey()
	httpReq.Header.Set(IdempotencyHeader, key)

	status, body, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", decodeFailure(status, body)
	}
	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("api: decode create response: %w", err)
	}
	created.ID = strings.TrimSpace(created.ID)
	if created.ID == "" {
		return "", errors.New("api: create response missing id")
	}
	c.logger.Printf("api: created program %s (key %s)", created.ID, key)
	return created.ID, nil
}

type movementsResponse struct {
	Movements []catalog.Movement `json:"movements"`
}

// ListMovements fetches the service's movement catalog.
func (c *Client) ListMovements(ctx context.Context) ([]catalog.Movement, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/movements", nil)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	status, body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeFailure(status, body)
	}
	var resp movementsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: decode movements: %w", err)
	}
	return resp.Movements, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("api: %s %s failed: %v", req.Method, req.URL.Path, err)
		return 0, nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()
	body, err := readAllWithLimit(resp.Body, c.maxBody)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("api: read response: %w", err)
	}
	c.logger.Printf("api: %s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)
	return resp.StatusCode, body, nil
}

// decodeFailure inspects the "detail" field, which is either a list of
// field problems or a plain string.
func decodeFailure(status int, body []byte) error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var problems []FieldProblem
		if err := json.Unmarshal(envelope.Detail, &problems); err == nil && len(problems) > 0 {
			return &ValidationError{Status: status, Problems: problems}
		}
		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil && strings.TrimSpace(detail) != "" {
			return &DetailError{Status: status, Detail: detail}
		}
	}
	return &StatusError{Status: status, Body: strings.TrimSpace(string(body))}
}

// ResponseTooLargeError reports a body over the configured limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeds %d bytes", e.Limit)
}

func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}
