package repository

import (
	"context"

	"product-stream/internal/model"
)

// ProductRepository defines the storage port for products.
// Implementations must honour ctx cancellation on every call.
type ProductRepository interface {
	// FindAll calls yield for every stored product in arrival order.
	// Iteration stops, and the underlying cursor is released, as soon as
	// yield returns an error or ctx is done; that error is returned.
	FindAll(ctx context.Context, yield func(model.Product) error) error

	// FindByID retrieves a single product by its ID.
	// Returns nil, nil when no product has that ID.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// Save inserts or replaces a product. An empty ID is assigned before storing.
	Save(ctx context.Context, product model.Product) (*model.Product, error)

	// Delete removes the given product.
	Delete(ctx context.Context, product model.Product) error

	// DeleteAll removes every product.
	DeleteAll(ctx context.Context) error
}
