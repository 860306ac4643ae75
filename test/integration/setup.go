package integration

import (
	"context"
	"testing"
	"time"

	"product-stream/internal/config"
	"product-stream/internal/database"
	"product-stream/internal/repository"
	"product-stream/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a migrated PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// TestMongo represents a MongoDB test instance.
type TestMongo struct {
	Container  *mongodb.MongoDBContainer
	Client     *mongo.Client
	Collection *mongo.Collection
}

// SetupTestMongo creates a MongoDB test container and product collection.
func SetupTestMongo(t *testing.T) *TestMongo {
	t.Helper()

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	mongoConfig := config.MongoConfig{
		URI:         uri,
		Database:    "testdb",
		Collection:  "products",
		Timeout:     10,
		MaxPoolSize: 10,
	}

	client, err := database.NewMongoClient(ctx, mongoConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	return &TestMongo{
		Container:  mongoContainer,
		Client:     client,
		Collection: database.ProductCollection(client, mongoConfig),
	}
}

// SeedProducts inserts the default catalogue.
func SeedProducts(t *testing.T, repo repository.ProductRepository) {
	t.Helper()

	if err := seed.Seed(context.Background(), repo, seed.DefaultProducts(), false, zerolog.Nop()); err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}
}

// CleanupDB removes every product.
func CleanupDB(t *testing.T, repo repository.ProductRepository) {
	t.Helper()

	if err := repo.DeleteAll(context.Background()); err != nil {
		t.Fatalf("failed to clean products: %v", err)
	}
}

// storageBackends starts every container-backed storage port.
func storageBackends(t *testing.T) map[string]repository.ProductRepository {
	t.Helper()
	logger := zerolog.Nop()

	testDB := SetupTestDB(t)
	testMongo := SetupTestMongo(t)

	return map[string]repository.ProductRepository{
		"postgres": repository.NewProductRepository(testDB.Pool, logger),
		"mongo":    repository.NewMongoProductRepository(testMongo.Collection, logger),
	}
}
