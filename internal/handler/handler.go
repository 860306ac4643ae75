package handler

import (
	"encoding/json"
	"net/http"

	"product-stream/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
// Encoding failures are only logged; the status line is already sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeError writes an error response with the given status code.
// Client errors are logged at debug level; server errors at error level.
func writeError(w http.ResponseWriter, status int, domainErr *model.DomainError, logger zerolog.Logger) {
	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", domainErr.Code).Int("status", status).Msg(domainErr.Message)

	writeJSON(w, status, model.ErrorResponse{
		Error:   domainErr.Code,
		Message: domainErr.Message,
	}, logger)
}

// NotFound renders the response for requests no route accepts.
func NotFound(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, model.ErrRouteNotFound, logger)
	}
}
