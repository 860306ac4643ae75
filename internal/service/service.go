package service

import (
	"product-stream/internal/async"
	"product-stream/internal/model"
)

// ProductService orchestrates product operations against the storage port.
//
// Every method returns a cold computation: nothing touches storage until the
// result is awaited or subscribed. A missing product is an empty result, not
// an error.
type ProductService interface {
	// ListAll emits every stored product in arrival order.
	ListAll() async.Stream[model.Product]

	// GetOne looks up a product by ID.
	GetOne(id string) async.Task[model.Product]

	// Create stores a new product and returns it with its assigned ID.
	Create(product model.Product) async.Task[model.Product]

	// Update replaces name and price of an existing product with those of patch.
	// The lookup and the patch are awaited concurrently.
	Update(id string, patch async.Task[model.Product]) async.Task[model.Product]

	// Delete removes an existing product and returns what was removed.
	Delete(id string) async.Task[model.Product]

	// DeleteAll removes every product.
	DeleteAll() async.Task[struct{}]

	// StreamEvents subscribes to the product event feed.
	StreamEvents() async.Stream[model.ProductEvent]
}

// EventSource supplies the product event feed.
type EventSource interface {
	Events() async.Stream[model.ProductEvent]
}
