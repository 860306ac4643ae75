package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONOrEventStream(t *testing.T) {
	tests := []struct {
		name        string
		accept      []string
		contentType string
		expected    bool
	}{
		{name: "No headers", expected: true},
		{name: "Accept JSON", accept: []string{"application/json"}, expected: true},
		{name: "Accept JSON with charset", accept: []string{"application/json; charset=utf-8"}, expected: true},
		{name: "Accept event stream", accept: []string{"text/event-stream"}, expected: true},
		{name: "Accept anything", accept: []string{"*/*"}, expected: true},
		{name: "Accept application wildcard", accept: []string{"application/*"}, expected: true},
		{name: "Accept text wildcard", accept: []string{"text/*"}, expected: true},
		{name: "Accept list with JSON", accept: []string{"text/html, application/json;q=0.9"}, expected: true},
		{name: "Repeated Accept headers", accept: []string{"text/html", "application/json"}, expected: true},
		{name: "Accept plain text", accept: []string{"text/plain"}, expected: false},
		{name: "Accept image wildcard", accept: []string{"image/*"}, expected: false},
		{name: "Malformed Accept", accept: []string{"not a media type"}, expected: false},
		{name: "Plain text accepted but JSON sent", accept: []string{"text/plain"}, contentType: "application/json", expected: true},
		{name: "JSON sent with charset", accept: []string{"text/plain"}, contentType: "application/json; charset=utf-8", expected: true},
		{name: "XML sent", accept: []string{"application/xml"}, contentType: "application/xml", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			for _, a := range tt.accept {
				req.Header.Add("Accept", a)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			assert.Equal(t, tt.expected, JSONOrEventStream(req))
		})
	}
}
