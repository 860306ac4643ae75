package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type product struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Writes a gzipped JSON-lines catalogue usable as SEED_FILE
// or uploaded under S3_PREFIX.
func main() {
	out := flag.String("out", "data/seeds/products.jsonl.gz", "output file")
	flag.Parse()

	products := []product{
		{Name: "Big Latte", Price: 2.99},
		{Name: "Big Decaf", Price: 2.49},
		{Name: "Green Tea", Price: 1.99},
		{Name: "Black Tea", Price: 1.99},
		{Name: "White Tea", Price: 0.99},
		{Name: "Flat White", Price: 3.25},
		{Name: "Espresso", Price: 1.75},
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := createSeedFile(*out, products); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(products))
	fmt.Println("\nLoad it at startup with:")
	fmt.Printf("  SEED_FILE=%s SEED_RESET=true go run ./cmd/api\n", *out)
}

func createSeedFile(filePath string, products []product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
	}

	return nil
}
