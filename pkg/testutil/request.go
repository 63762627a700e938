// Package testutil holds the request builders and response assertions shared
// by the handler suites.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"placement/pkg/requestcontext"
)

// NewJSONRequest builds a request whose body is body marshaled to JSON. A nil
// body sends no payload.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		payload = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody sends raw as-is, for malformed payloads.
func NewRequestWithBody(t *testing.T, method, path string, raw string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsStudent, AsRecruiter and AsAdmin attach the caller RequireAuth would
// resolve from a bearer token.
func AsStudent(req *http.Request, studentID string) *http.Request {
	return as(req, studentID, requestcontext.RoleStudent)
}

func AsRecruiter(req *http.Request, recruiterID string) *http.Request {
	return as(req, recruiterID, requestcontext.RoleRecruiter)
}

func AsAdmin(req *http.Request, adminID string) *http.Request {
	return as(req, adminID, requestcontext.RoleAdmin)
}

func as(req *http.Request, actorID string, role requestcontext.Role) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), requestcontext.Principal{ID: actorID, Role: role})
	return req.WithContext(ctx)
}

// DoRequest serves req through handler and returns the recorded response.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
