package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingBindings(called *Operation) map[Operation]http.Handler {
	bindings := make(map[Operation]http.Handler)
	for _, op := range []Operation{OpListAll, OpGetOne, OpCreate, OpUpdate, OpDelete, OpDeleteAll, OpStreamEvents} {
		op := op
		bindings[op] = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = op
		})
	}
	return bindings
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	var called Operation
	d, err := NewDispatcher(ProductRoutes(BasePaths...), recordingBindings(&called), http.NotFoundHandler())
	require.NoError(t, err)
	return d
}

func TestDispatcher_Match(t *testing.T) {
	d := newTestDispatcher(t)

	tests := []struct {
		name       string
		method     string
		path       string
		accept     string
		expectedOp Operation
		expectedID string
	}{
		{name: "List", method: http.MethodGet, path: "/products", expectedOp: OpListAll},
		{name: "List with trailing slash", method: http.MethodGet, path: "/products/", expectedOp: OpListAll},
		{name: "Functional list", method: http.MethodGet, path: "/functional-products/", expectedOp: OpListAll},
		{name: "Functional list without slash", method: http.MethodGet, path: "/functional-products", expectedOp: OpListAll},
		{name: "Create", method: http.MethodPost, path: "/products", expectedOp: OpCreate},
		{name: "Functional create", method: http.MethodPost, path: "/functional-products/", expectedOp: OpCreate},
		{name: "Delete all", method: http.MethodDelete, path: "/products", expectedOp: OpDeleteAll},
		{name: "Functional delete all", method: http.MethodDelete, path: "/functional-products/", expectedOp: OpDeleteAll},
		{name: "Get one", method: http.MethodGet, path: "/products/p1", expectedOp: OpGetOne, expectedID: "p1"},
		{name: "Functional get one", method: http.MethodGet, path: "/functional-products/p1", expectedOp: OpGetOne, expectedID: "p1"},
		{name: "Update", method: http.MethodPut, path: "/products/p1", expectedOp: OpUpdate, expectedID: "p1"},
		{name: "Delete", method: http.MethodDelete, path: "/products/p1", expectedOp: OpDelete, expectedID: "p1"},
		{name: "Events", method: http.MethodGet, path: "/products/events", accept: "text/event-stream", expectedOp: OpStreamEvents},
		{name: "Functional events", method: http.MethodGet, path: "/functional-products/events", accept: "text/event-stream", expectedOp: OpStreamEvents},
		{name: "Events without Accept", method: http.MethodGet, path: "/products/events", expectedOp: OpStreamEvents},
		{name: "Events accepting JSON", method: http.MethodGet, path: "/products/events", accept: "application/json", expectedOp: OpStreamEvents},
		{name: "Literal suffix with other verb falls to parameter", method: http.MethodDelete, path: "/products/events", expectedOp: OpDelete, expectedID: "events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}

			op, params, err := d.Match(req)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOp, op)
			if tt.expectedID != "" {
				assert.Equal(t, tt.expectedID, params["id"])
			} else {
				assert.NotContains(t, params, "id")
			}
		})
	}
}

func TestDispatcher_LiteralBeatsParameter(t *testing.T) {
	d := newTestDispatcher(t)

	for _, base := range BasePaths {
		for i := 0; i < 5; i++ {
			op, params, err := d.Match(httptest.NewRequest(http.MethodGet, base+"/events", nil))
			require.NoError(t, err)
			assert.Equal(t, OpStreamEvents, op)
			assert.NotEqual(t, "events", params["id"])
		}
	}
}

func TestDispatcher_OrderDecidesPrecedence(t *testing.T) {
	var called Operation
	bindings := recordingBindings(&called)

	// The same siblings with the parameter first: the literal is shadowed.
	reversed := []Node{
		Group("/products", nil,
			Route(http.MethodGet, "/{id}", OpGetOne),
			Route(http.MethodGet, "/events", OpStreamEvents),
		),
	}
	d, err := NewDispatcher(reversed, bindings, http.NotFoundHandler())
	require.NoError(t, err)

	op, params, err := d.Match(httptest.NewRequest(http.MethodGet, "/products/events", nil))
	require.NoError(t, err)
	assert.Equal(t, OpGetOne, op)
	assert.Equal(t, "events", params["id"])
}

func TestDispatcher_NoMatch(t *testing.T) {
	d := newTestDispatcher(t)

	tests := []struct {
		name        string
		method      string
		path        string
		accept      string
		contentType string
	}{
		{name: "Unknown base", method: http.MethodGet, path: "/orders"},
		{name: "Base prefix only", method: http.MethodGet, path: "/productsx"},
		{name: "Nested too deep", method: http.MethodGet, path: "/products/p1/extra"},
		{name: "Unsupported verb on collection", method: http.MethodPatch, path: "/products"},
		{name: "Update without id", method: http.MethodPut, path: "/products"},
		{name: "Guard rejects plain text", method: http.MethodGet, path: "/products", accept: "text/plain"},
		{name: "Guard rejects XML body and response", method: http.MethodPost, path: "/products", accept: "application/xml", contentType: "application/xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			op, params, err := d.Match(req)

			assert.ErrorIs(t, err, ErrNoMatch)
			assert.Empty(t, op)
			assert.Nil(t, params)
		})
	}
}

func TestDispatcher_ServeHTTP(t *testing.T) {
	var called Operation
	notFoundCalled := false
	d, err := NewDispatcher(ProductRoutes(BasePaths...), recordingBindings(&called),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			notFoundCalled = true
			w.WriteHeader(http.StatusNotFound)
		}))
	require.NoError(t, err)

	d.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/products/p1", nil))
	assert.Equal(t, OpUpdate, called)
	assert.False(t, notFoundCalled)

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.True(t, notFoundCalled)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewDispatcher_MissingBinding(t *testing.T) {
	_, err := NewDispatcher(ProductRoutes("/products"), map[Operation]http.Handler{
		OpListAll: http.NotFoundHandler(),
	}, http.NotFoundHandler())

	assert.Error(t, err)
}
