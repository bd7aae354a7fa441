// Package apiclient performs authenticated calls against the travel-agency REST API.
//
// Every call returns a normalized envelope for any HTTP status. Only two kinds of
// failure are returned as errors: *model.TransportError when no usable response
// arrived, and an error matching model.ErrSessionExpired when the access token was
// rejected and could not be renewed. In the latter case the stored credentials have
// already been cleared.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/tourdesk/internal/logger"
	"github.com/dtroode/tourdesk/internal/model"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerRequestID     = "X-Request-ID"

	mimeJSON = "application/json"

	defaultTimeout = 30 * time.Second
)

// Client is a REST client bound to one API base URL and one token store.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      model.TokenStore
	notifier   model.Notifier
	logger     *logger.Logger
	newID      func() string

	// refreshes coalesces concurrent token refreshes into one request.
	refreshes singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithNotifier sets the receiver of user-facing failure notifications.
func WithNotifier(n model.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// New creates a client for baseURL, which already includes the version prefix.
func New(baseURL string, store model.TokenStore, logger *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		notifier:   nopNotifier{},
		logger:     logger.Component("apiclient"),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption adjusts a single call.
type RequestOption func(*request)

// WithHeader sets a header for one call, overriding the default of the same name.
// Authorization is managed by the client and cannot be set this way.
func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		r.headers.Set(key, value)
	}
}

// request is the immutable description of one logical call. Only the bearer
// token differs between the first attempt and the retry.
type request struct {
	method      string
	endpoint    string
	body        []byte
	contentType string
	headers     http.Header
	id          string
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (*model.RawEnvelope, error) {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts ...RequestOption) (*model.RawEnvelope, error) {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, opts)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts ...RequestOption) (*model.RawEnvelope, error) {
	return c.doJSON(ctx, http.MethodPut, endpoint, body, opts)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts ...RequestOption) (*model.RawEnvelope, error) {
	return c.doJSON(ctx, http.MethodPatch, endpoint, body, opts)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (*model.RawEnvelope, error) {
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, opts)
}

// Upload posts file as multipart form data under the "file" field, with fields
// added as extra form values.
func (c *Client) Upload(ctx context.Context, endpoint string, file model.File, fields map[string]string, opts ...RequestOption) (*model.RawEnvelope, error) {
	body, contentType, err := multipartBody(file, fields)
	if err != nil {
		return nil, err
	}

	r := c.newRequest(http.MethodPost, endpoint, opts)
	r.body = body
	r.contentType = contentType
	return c.do(ctx, r)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any, opts []RequestOption) (*model.RawEnvelope, error) {
	r := c.newRequest(method, endpoint, opts)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		r.body = data
	}
	return c.do(ctx, r)
}

func (c *Client) newRequest(method, endpoint string, opts []RequestOption) *request {
	r := &request{
		method:   method,
		endpoint: endpoint,
		headers:  make(http.Header),
		id:       c.newID(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// do runs the request through the refresh state machine:
// a 401 on a request that carried a token leads to one refresh and one retry.
func (c *Client) do(ctx context.Context, r *request) (*model.RawEnvelope, error) {
	creds, err := c.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	resp, err := c.send(ctx, r, creds.AccessToken)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusUnauthorized && creds.AccessToken != "" {
		token, err := c.renew(ctx, creds.AccessToken)
		if err != nil {
			return nil, err
		}

		resp, err = c.send(ctx, r, token)
		if err != nil {
			return nil, err
		}
	}

	env, err := normalize(resp)
	if err != nil {
		return nil, &model.TransportError{Method: r.method, URL: c.baseURL + r.endpoint, Err: err}
	}

	// A 2xx reply with success false is returned to the caller without a toast.
	if !isSuccess(env.Status) && env.Message != "" {
		c.notifier.Notify(ctx, model.Notification{
			Level:   model.NotificationError,
			Message: env.Message,
			Status:  env.Status,
			Method:  r.method,
			Path:    r.endpoint,
		})
	}

	return env, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, r *request, token string) (*response, error) {
	url := c.baseURL + r.endpoint

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = r.header(token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("API request failed",
			"method", r.method,
			"path", r.endpoint,
			"request_id", r.id,
			"error", err.Error())
		return nil, &model.TransportError{Method: r.method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransportError{Method: r.method, URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("API request",
		"method", r.method,
		"path", r.endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", r.id,
		"authenticated", token != "")

	return &response{status: resp.StatusCode, body: data}, nil
}

// header merges defaults, per-call headers and the bearer token, in that order.
func (r *request) header(token string) http.Header {
	h := make(http.Header, len(r.headers)+4)
	h.Set(headerAccept, mimeJSON)
	if r.contentType == "" {
		h.Set(headerContentType, mimeJSON)
	}

	for k, v := range r.headers {
		if http.CanonicalHeaderKey(k) == headerAuthorization {
			continue
		}
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	if r.contentType != "" {
		h.Set(headerContentType, r.contentType)
	}
	h.Set(headerRequestID, r.id)
	if token != "" {
		h.Set(headerAuthorization, "Bearer "+token)
	}
	return h
}

func multipartBody(file model.File, fields map[string]string) ([]byte, string, error) {
	if file.Content == nil {
		return nil, "", fmt.Errorf("upload file %q has no content", file.Name)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := file.Name
	if name == "" {
		name = "file"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", fmt.Errorf("failed to read upload file: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.Notification) {}
