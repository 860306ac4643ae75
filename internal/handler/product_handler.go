package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"product-stream/internal/async"
	"product-stream/internal/model"
	"product-stream/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps product request bodies.
const maxBodyBytes = 1 << 20

var errInternal = model.NewDomainError(model.ErrCodeInternalError, "Internal server error")

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll writes every product as a JSON array, encoding items as storage yields them.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	started := false
	err := h.service.ListAll().Subscribe(r.Context(), func(p model.Product) error {
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}

		sep := ","
		if !started {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			sep = "["
			started = true
		}
		if _, err := w.Write([]byte(sep)); err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	})

	if err != nil {
		if !started {
			writeError(w, http.StatusInternalServerError, errInternal, h.logger)
			return
		}
		// Headers are gone; the truncated array tells the client the listing failed.
		h.logger.Warn().Err(err).Msg("product listing aborted mid-stream")
		return
	}

	if !started {
		writeJSON(w, http.StatusOK, []model.Product{}, h.logger)
		return
	}
	_, _ = w.Write([]byte("]\n"))
}

// GetByID handles GET requests for a single product.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, ok, err := h.service.GetOne(mux.Vars(r)["id"]).Await(r.Context())
	h.respond(w, http.StatusOK, product, ok, err)
}

// Create handles POST requests that add a product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	product, _, err := decodeProduct(w, r).Await(r.Context())
	if err != nil {
		h.respond(w, http.StatusCreated, model.Product{}, false, err)
		return
	}

	created, ok, err := h.service.Create(product).Await(r.Context())
	h.respond(w, http.StatusCreated, created, ok, err)
}

// Update handles PUT requests replacing a product's name and price.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, ok, err := h.service.Update(mux.Vars(r)["id"], decodeProduct(w, r)).Await(r.Context())
	h.respond(w, http.StatusOK, product, ok, err)
}

// Delete handles DELETE requests for a single product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, ok, err := h.service.Delete(mux.Vars(r)["id"]).Await(r.Context())
	h.respondEmpty(w, ok, err)
}

// DeleteAll handles DELETE requests on the collection.
func (h *ProductHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	_, ok, err := h.service.DeleteAll().Await(r.Context())
	h.respondEmpty(w, ok, err)
}

// Events streams product events as server-sent events until the client goes away.
func (h *ProductHandler) Events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// The stream outlives the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn().Err(err).Msg("failed to clear write deadline")
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		h.logger.Error().Err(err).Msg("response does not support streaming")
		return
	}

	err := h.service.StreamEvents().Subscribe(r.Context(), func(ev model.ProductEvent) error {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data:%s\n\n", b); err != nil {
			return err
		}
		return rc.Flush()
	})

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		h.logger.Debug().Msg("event stream closed by client")
	default:
		h.logger.Debug().Err(err).Msg("event stream ended")
	}
}

// respond maps a task outcome to a response: empty is 404, a malformed body 400, any other fault 500.
func (h *ProductHandler) respond(w http.ResponseWriter, status int, product model.Product, ok bool, err error) {
	switch {
	case errors.Is(err, model.ErrMalformedProduct):
		writeError(w, http.StatusBadRequest, model.ErrMalformedProduct, h.logger)
	case err != nil:
		h.logger.Error().Err(err).Msg("product operation failed")
		writeError(w, http.StatusInternalServerError, errInternal, h.logger)
	case !ok:
		writeError(w, http.StatusNotFound, model.ErrProductNotFound, h.logger)
	default:
		writeJSON(w, status, product, h.logger)
	}
}

func (h *ProductHandler) respondEmpty(w http.ResponseWriter, ok bool, err error) {
	switch {
	case err != nil:
		h.logger.Error().Err(err).Msg("product operation failed")
		writeError(w, http.StatusInternalServerError, errInternal, h.logger)
	case !ok:
		writeError(w, http.StatusNotFound, model.ErrProductNotFound, h.logger)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// decodeProduct reads the request body lazily, when the returned task is awaited.
// Cancelling ctx aborts a read that is still waiting for the client.
func decodeProduct(w http.ResponseWriter, r *http.Request) async.Task[model.Product] {
	return func(ctx context.Context) (model.Product, bool, error) {
		stop := context.AfterFunc(ctx, func() { abortRead(w, r) })
		defer stop()

		var product model.Product
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&product); err != nil {
			if ctx.Err() != nil {
				return model.Product{}, false, ctx.Err()
			}
			return model.Product{}, false, fmt.Errorf("%w: %v", model.ErrMalformedProduct, err)
		}
		return product, true, nil
	}
}

// abortRead unblocks a pending body read. Server bodies serialise Close with
// Read, so the connection read deadline is used where the writer supports it.
func abortRead(w http.ResponseWriter, r *http.Request) {
	if err := http.NewResponseController(w).SetReadDeadline(time.Now()); err == nil {
		return
	}
	_ = r.Body.Close()
}
