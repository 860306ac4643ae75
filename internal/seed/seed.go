// Package seed populates the catalogue at startup.
package seed

import (
	"context"
	"fmt"

	"product-stream/internal/model"
	"product-stream/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentSaves bounds the number of in-flight saves while seeding.
const maxConcurrentSaves = 8

// Loader defines the interface for loading seed files.
type Loader interface {
	// Load reads a gzipped JSON-lines product file.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// DefaultProducts returns the built-in catalogue.
func DefaultProducts() []model.Product {
	return []model.Product{
		{Name: "Big Latte", Price: 2.99},
		{Name: "Big Decaf", Price: 2.49},
		{Name: "Green Tea", Price: 1.99},
	}
}

// Seed saves products into repo. With reset, every existing product is
// deleted first. IDs are cleared so storage assigns fresh ones; the order in
// which concurrent saves land is not guaranteed.
func Seed(ctx context.Context, repo repository.ProductRepository, products []model.Product, reset bool, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "seeder").Logger()

	if reset {
		if err := repo.DeleteAll(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to reset catalogue")
			return fmt.Errorf("failed to reset catalogue: %w", err)
		}
		logger.Info().Msg("catalogue reset")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSaves)

	for _, p := range products {
		p.ID = ""
		g.Go(func() error {
			saved, err := repo.Save(gctx, p)
			if err != nil {
				return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
			}
			logger.Debug().Str("product_id", saved.ID).Str("name", saved.Name).Msg("product seeded")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("seeding failed")
		return err
	}

	logger.Info().Int("count", len(products)).Msg("catalogue seeded")
	return nil
}
