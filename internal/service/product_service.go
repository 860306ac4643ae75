package service

import (
	"context"
	"fmt"

	"product-stream/internal/async"
	"product-stream/internal/model"
	"product-stream/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	events      EventSource
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, events EventSource, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		events:      events,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// ListAll streams products straight from storage without buffering.
func (s *productService) ListAll() async.Stream[model.Product] {
	return func(ctx context.Context, emit func(model.Product) error) error {
		var count int
		err := s.productRepo.FindAll(ctx, func(p model.Product) error {
			if err := emit(p); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error().Err(err).Int("emitted", count).Msg("failed to list products")
			}
			return fmt.Errorf("failed to list products: %w", err)
		}

		s.logger.Debug().Int("count", count).Msg("listed products")
		return nil
	}
}

// GetOne retrieves a single product by ID.
func (s *productService) GetOne(id string) async.Task[model.Product] {
	return s.findByID(id)
}

// Create saves a product. Any client-supplied ID is discarded so storage assigns a fresh one.
func (s *productService) Create(product model.Product) async.Task[model.Product] {
	return func(ctx context.Context) (model.Product, bool, error) {
		product.ID = ""

		saved, err := s.productRepo.Save(ctx, product)
		if err != nil {
			s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
			return model.Product{}, false, fmt.Errorf("failed to create product: %w", err)
		}

		s.logger.Info().Str("product_id", saved.ID).Str("name", saved.Name).Msg("product created")
		return *saved, true, nil
	}
}

// Update joins the existing record with the patch, keeping the stored ID.
func (s *productService) Update(id string, patch async.Task[model.Product]) async.Task[model.Product] {
	merged := async.Zip(s.findByID(id), patch, func(existing, p model.Product) model.Product {
		return model.Product{ID: existing.ID, Name: p.Name, Price: p.Price}
	})

	return async.FlatMap(merged, func(product model.Product) async.Task[model.Product] {
		return func(ctx context.Context) (model.Product, bool, error) {
			saved, err := s.productRepo.Save(ctx, product)
			if err != nil {
				s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
				return model.Product{}, false, fmt.Errorf("failed to update product: %w", err)
			}

			s.logger.Info().Str("product_id", saved.ID).Msg("product updated")
			return *saved, true, nil
		}
	})
}

// Delete removes the product if it exists.
func (s *productService) Delete(id string) async.Task[model.Product] {
	return async.FlatMap(s.findByID(id), func(existing model.Product) async.Task[model.Product] {
		return func(ctx context.Context) (model.Product, bool, error) {
			if err := s.productRepo.Delete(ctx, existing); err != nil {
				s.logger.Error().Err(err).Str("product_id", existing.ID).Msg("failed to delete product")
				return model.Product{}, false, fmt.Errorf("failed to delete product: %w", err)
			}

			s.logger.Info().Str("product_id", existing.ID).Msg("product deleted")
			return existing, true, nil
		}
	})
}

// DeleteAll removes every product.
func (s *productService) DeleteAll() async.Task[struct{}] {
	return func(ctx context.Context) (struct{}, bool, error) {
		if err := s.productRepo.DeleteAll(ctx); err != nil {
			s.logger.Error().Err(err).Msg("failed to delete all products")
			return struct{}{}, false, fmt.Errorf("failed to delete all products: %w", err)
		}

		s.logger.Info().Msg("all products deleted")
		return struct{}{}, true, nil
	}
}

// StreamEvents subscribes to the event source.
func (s *productService) StreamEvents() async.Stream[model.ProductEvent] {
	return s.events.Events()
}

func (s *productService) findByID(id string) async.Task[model.Product] {
	return async.FromOptional(func(ctx context.Context) (*model.Product, error) {
		if id == "" {
			s.logger.Debug().Msg("product ID is empty")
			return nil, nil
		}

		product, err := s.productRepo.FindByID(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
			}
			return nil, fmt.Errorf("failed to get product: %w", err)
		}
		if product == nil {
			s.logger.Debug().Str("product_id", id).Msg("product not found")
		}
		return product, nil
	})
}
