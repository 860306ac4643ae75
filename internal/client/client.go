// Package client is a Go client for the product API.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"product-stream/internal/async"
	"product-stream/internal/model"

	"github.com/rs/zerolog"
)

// DefaultBasePath is the route tree the client talks to.
const DefaultBasePath = "/products"

// ErrNotFound is returned when the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Is reports 404 responses as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the product API.
type Client struct {
	baseURL    string
	basePath   string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. It must not set a Timeout if event
// streams are used; cancel through the context instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBasePath selects the route tree, e.g. /functional-products.
func WithBasePath(path string) Option {
	return func(c *Client) { c.basePath = "/" + strings.Trim(path, "/") }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		basePath:   DefaultBasePath,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "product-client").Logger()
	return c
}

// List returns every product.
func (c *Client) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, c.collectionPath(), nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns a single product, or ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, c.itemPath(id), nil, &product); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

// Create adds a product and returns it with its assigned ID.
func (c *Client) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	var created model.Product
	if err := c.do(ctx, http.MethodPost, c.collectionPath(), product, &created); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &created, nil
}

// Update replaces the name and price of an existing product, or returns ErrNotFound.
func (c *Client) Update(ctx context.Context, id string, product model.Product) (*model.Product, error) {
	var updated model.Product
	if err := c.do(ctx, http.MethodPut, c.itemPath(id), product, &updated); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a product, or returns ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// DeleteAll removes every product.
func (c *Client) DeleteAll(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, c.collectionPath(), nil, nil); err != nil {
		return fmt.Errorf("failed to delete all products: %w", err)
	}
	return nil
}

// Events returns the server's product event feed as a cold stream. Each
// subscription opens its own connection; cancelling the context closes it.
func (c *Client) Events() async.Stream[model.ProductEvent] {
	return func(ctx context.Context, emit func(model.ProductEvent) error) error {
		req, err := c.newRequest(ctx, http.MethodGet, c.basePath+"/events", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to open event stream: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to open event stream: %w", decodeAPIError(resp))
		}

		c.logger.Debug().Str("path", req.URL.Path).Msg("event stream opened")

		err = readEvents(resp.Body, func(data []byte) error {
			var ev model.ProductEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				return fmt.Errorf("invalid event %q: %w", data, err)
			}
			return emit(ev)
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// readEvents parses server-sent events and calls fn with the data of each.
// Multi-line data fields are joined with newlines.
func readEvents(r io.Reader, fn func(data []byte) error) error {
	reader := bufio.NewReader(r)
	var data []byte
	hasData := false

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimRight(line, "\r\n")
			switch {
			case len(line) == 0:
				if hasData {
					if ferr := fn(data); ferr != nil {
						return ferr
					}
				}
				data, hasData = nil, false
			case bytes.HasPrefix(line, []byte(":")):
				// comment
			case bytes.HasPrefix(line, []byte("data:")):
				value := bytes.TrimPrefix(line[len("data:"):], []byte(" "))
				if hasData {
					data = append(data, '\n')
				}
				data = append(data, value...)
				hasData = true
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read event stream: %w", err)
		}
	}
}

func (c *Client) collectionPath() string {
	return c.basePath
}

func (c *Client) itemPath(id string) string {
	return c.basePath + "/" + url.PathEscape(id)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body model.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}
