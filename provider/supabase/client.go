package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/campusfeed/go-session"
	"github.com/goliatone/go-errors"
)

// Client talks to a Supabase project. The anon key authenticates the app;
// once a user signs in their access token is attached so row level security
// applies to every data request.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  session.Logger

	mu          sync.RWMutex
	accessToken string
}

// New creates a client for the project described by cfg.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.AnonKey,
		http:    httpClient,
		logger:  noopLogger{},
	}, nil
}

func (c *Client) WithLogger(logger session.Logger) *Client {
	c.logger = logger
	return c
}

// SetAccessToken attaches a user token to subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// AccessToken returns the currently attached user token, if any.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// ClearAccessToken detaches the user token.
func (c *Client) ClearAccessToken() {
	c.SetAccessToken("")
}

// From starts a PostgREST query against table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// Query builds a PostgREST request over a single table.
type Query struct {
	client  *Client
	table   string
	columns string
	filters url.Values
	order   string
	limit   int
	single  bool
}

// Select names the columns (or embedded resources) to return.
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column string, value any) *Query {
	if q.filters == nil {
		q.filters = url.Values{}
	}
	q.filters.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// Order sorts the result by column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = column + "." + dir
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single asks PostgREST for exactly one row.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) url() string {
	u := q.client.baseURL + "/rest/v1/" + q.table

	params := url.Values{}
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	for column, values := range q.filters {
		for _, v := range values {
			params.Add(column, v)
		}
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.limit))
	}

	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Get runs the select and decodes the response into out. Transient upstream
// failures are retried with backoff since reads are idempotent.
func (q *Query) Get(ctx context.Context, out any) error {
	headers := http.Header{}
	if q.single {
		headers.Set("Accept", "application/vnd.pgrst.object+json")
	}

	body, err := q.client.doRetry(ctx, http.MethodGet, q.url(), nil, headers)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to decode supabase response").
			WithMetadata(map[string]any{"table": q.table})
	}
	return nil
}

// Insert adds row to the table.
func (q *Query) Insert(ctx context.Context, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to encode row")
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Prefer", "return=minimal")

	_, err = q.client.do(ctx, http.MethodPost, q.url(), payload, headers)
	return err
}

// Update patches the rows matched by the query filters.
func (q *Query) Update(ctx context.Context, patch any) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to encode patch")
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Prefer", "return=minimal")

	_, err = q.client.do(ctx, http.MethodPatch, q.url(), payload, headers)
	return err
}

// Delete removes the rows matched by the query filters.
func (q *Query) Delete(ctx context.Context) error {
	headers := http.Header{}
	headers.Set("Prefer", "return=minimal")

	_, err := q.client.do(ctx, http.MethodDelete, q.url(), nil, headers)
	return err
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte, headers http.Header) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build supabase request")
	}

	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	c.setAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "supabase request failed").
			WithMetadata(map[string]any{"method": method, "url": rawURL})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read supabase response")
	}

	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, data)
	}

	return data, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)

	token := c.AccessToken()
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

// apiError maps a Supabase error response onto the error taxonomy.
func apiError(status int, body []byte) error {
	message := "supabase error"
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Msg != "":
			message = payload.Msg
		case payload.ErrorDescription != "":
			message = payload.ErrorDescription
		case payload.Error != "":
			message = payload.Error
		}
	}

	category := errors.CategoryOperation
	code := errors.CodeInternal
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		category = errors.CategoryAuth
		code = errors.CodeUnauthorized
	case status == http.StatusNotFound || status == http.StatusNotAcceptable:
		category = errors.CategoryNotFound
		code = errors.CodeNotFound
	case status == http.StatusConflict:
		category = errors.CategoryConflict
		code = errors.CodeConflict
	case status == http.StatusTooManyRequests:
		category = errors.CategoryRateLimit
		code = errors.CodeInternal
	case status >= 400 && status < 500:
		category = errors.CategoryBadInput
		code = errors.CodeBadRequest
	}

	return errors.New(message, category).
		WithCode(code).
		WithMetadata(map[string]any{"status": status})
}

// IsNotFound reports whether err maps to a missing row (404, or PostgREST's
// 406 for a Single query with no match).
func IsNotFound(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryNotFound
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
