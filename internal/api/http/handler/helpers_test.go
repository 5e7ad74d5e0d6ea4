package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/recipe-server/internal/api/http/context"
)

var ctxManager = httpcontext.NewManager()

// newRequest builds a request for user 1 with an optional {id} route param.
func newRequest(method, target, body, id string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(ctxManager.SetUserIDToContext(req.Context(), 1))
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func httpBody(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}
