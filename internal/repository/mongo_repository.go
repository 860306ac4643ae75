package repository

import (
	"context"
	"errors"
	"fmt"

	"product-stream/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoProductRepository implements ProductRepository on a MongoDB collection.
// Documents use a string _id holding the hex form of an ObjectID.
type mongoProductRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoProductRepository creates a MongoDB-backed product repository.
func NewMongoProductRepository(collection *mongo.Collection, logger zerolog.Logger) ProductRepository {
	return &mongoProductRepository{
		collection: collection,
		logger:     logger.With().Str("repository", "product-mongo").Logger(),
	}
}

// FindAll iterates the collection cursor in _id order.
func (r *mongoProductRepository) FindAll(ctx context.Context, yield func(model.Product) error) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return fmt.Errorf("failed to query products: %w", err)
	}
	defer func() {
		_ = cursor.Close(context.WithoutCancel(ctx))
	}()

	for cursor.Next(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		var p model.Product
		if err := cursor.Decode(&p); err != nil {
			r.logger.Error().Err(err).Msg("failed to decode product document")
			return fmt.Errorf("failed to decode product: %w", err)
		}
		if err := yield(p); err != nil {
			return err
		}
	}

	if err := cursor.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Error().Err(err).Msg("error iterating product cursor")
		return fmt.Errorf("error iterating products: %w", err)
	}

	return nil
}

// FindByID retrieves a single product by its ID.
func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Save replaces the document with the same _id, inserting it when missing.
func (r *mongoProductRepository) Save(ctx context.Context, product model.Product) (*model.Product, error) {
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product, opts); err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to save product")
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return &product, nil
}

// Delete removes the given product.
func (r *mongoProductRepository) Delete(ctx context.Context, product model.Product) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": product.ID})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.logger.Debug().
		Str("product_id", product.ID).
		Int64("deleted", result.DeletedCount).
		Msg("product deleted")

	return nil
}

// DeleteAll removes every product.
func (r *mongoProductRepository) DeleteAll(ctx context.Context) error {
	result, err := r.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete all products")
		return fmt.Errorf("failed to delete all products: %w", err)
	}

	r.logger.Info().Int64("deleted", result.DeletedCount).Msg("all products deleted")

	return nil
}
