package repository

import (
	"context"
	"errors"
	"fmt"

	"product-stream/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// FindAll streams every product in creation order.
func (r *productRepository) FindAll(ctx context.Context, yield func(model.Product) error) error {
	query := `
		SELECT id, name, price
		FROM products
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return fmt.Errorf("failed to scan product: %w", err)
		}
		if err := yield(p); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return fmt.Errorf("error iterating products: %w", err)
	}

	return nil
}

// FindByID retrieves a single product by its ID.
func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, price
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Save upserts a product, assigning a UUID when the ID is empty.
func (r *productRepository) Save(ctx context.Context, product model.Product) (*model.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	query := `
		INSERT INTO products (id, name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price
		RETURNING id, name, price
	`

	var saved model.Product
	err := r.pool.QueryRow(ctx, query, product.ID, product.Name, product.Price).
		Scan(&saved.ID, &saved.Name, &saved.Price)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to save product")
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return &saved, nil
}

// Delete removes the given product.
func (r *productRepository) Delete(ctx context.Context, product model.Product) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, product.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.logger.Debug().
		Str("product_id", product.ID).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("product deleted")

	return nil
}

// DeleteAll removes every product.
func (r *productRepository) DeleteAll(ctx context.Context) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete all products")
		return fmt.Errorf("failed to delete all products: %w", err)
	}

	r.logger.Info().Int64("rows_affected", tag.RowsAffected()).Msg("all products deleted")

	return nil
}
