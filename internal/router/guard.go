package router

import (
	"mime"
	"net/http"
	"strings"
)

const (
	mediaTypeJSON        = "application/json"
	mediaTypeEventStream = "text/event-stream"
)

// Guard is a request predicate evaluated before a group's routes.
type Guard func(r *http.Request) bool

// JSONOrEventStream accepts requests that accept JSON, send JSON, or accept
// an event stream.
func JSONOrEventStream(r *http.Request) bool {
	return accepts(r, mediaTypeJSON) || hasContentType(r, mediaTypeJSON) || accepts(r, mediaTypeEventStream)
}

// accepts reports whether the Accept header admits mediaType.
// A missing Accept header admits everything.
func accepts(r *http.Request, mediaType string) bool {
	values := r.Header.Values("Accept")
	if len(values) == 0 {
		return true
	}

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			accepted, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			if compatible(accepted, mediaType) {
				return true
			}
		}
	}
	return false
}

// hasContentType reports whether the request body is declared as mediaType.
func hasContentType(r *http.Request, mediaType string) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	parsed, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return parsed == mediaType
}

func compatible(pattern, mediaType string) bool {
	if pattern == "*/*" || pattern == mediaType {
		return true
	}
	typ, sub, ok := strings.Cut(pattern, "/")
	if !ok || sub != "*" {
		return false
	}
	return strings.HasPrefix(mediaType, typ+"/")
}
