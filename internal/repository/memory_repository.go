package repository

import (
	"context"
	"sync"

	"product-stream/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryProductRepository implements ProductRepository in process memory.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
	order    []string
	logger   zerolog.Logger
}

// NewMemoryProductRepository creates an empty in-memory product repository.
func NewMemoryProductRepository(logger zerolog.Logger) ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]model.Product),
		logger:   logger.With().Str("repository", "product-memory").Logger(),
	}
}

// FindAll iterates over a snapshot so yield never runs under the lock.
func (r *memoryProductRepository) FindAll(ctx context.Context, yield func(model.Product) error) error {
	r.mu.RLock()
	snapshot := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, r.products[id])
	}
	r.mu.RUnlock()

	for _, p := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := yield(p); err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a single product by its ID.
func (r *memoryProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}
	return &p, nil
}

// Save inserts or replaces a product, assigning a UUID when the ID is empty.
func (r *memoryProductRepository) Save(ctx context.Context, product model.Product) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = product

	return &product, nil
}

// Delete removes the product with the same ID, if present.
func (r *memoryProductRepository) Delete(ctx context.Context, product model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		return nil
	}
	delete(r.products, product.ID)
	for i, id := range r.order {
		if id == product.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAll removes every product.
func (r *memoryProductRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[string]model.Product)
	r.order = nil
	return nil
}
