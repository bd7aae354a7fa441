package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// APIPrefix is the version prefix the fake backend serves under.
const APIPrefix = "/v1"

// RecordedRequest is a request received by Backend.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Backend is a scripted fake of the REST API that records every request.
type Backend struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	handlers map[string]http.HandlerFunc
}

// NewBackend starts a fake backend that is closed when the test ends.
// Unscripted routes answer 404 with an error envelope.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{handlers: make(map[string]http.HandlerFunc)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// BaseURL is the versioned root to hand to the API client.
func (b *Backend) BaseURL() string {
	return b.server.URL + APIPrefix
}

// Handle scripts the answer for method and path (without the version prefix).
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method+" "+path] = h
}

// Requests returns a copy of the requests received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Count returns how many requests hit method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	path := strings.TrimPrefix(r.URL.Path, APIPrefix)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method: r.Method,
		Path:   path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := b.handlers[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "route not found"})
		return
	}
	h(w, r)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope around data.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

// Fail writes a failure envelope with message.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"success": false, "message": message})
}

// BearerIs reports whether r carries the given bearer token.
func BearerIs(r *http.Request, token string) bool {
	return r.Header.Get("Authorization") == "Bearer "+token
}
