package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"object-gateway/internal/config"
	"object-gateway/internal/repository/postgres"
)

const schemaPath = "database/schema.sql"

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database")

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	ctx := context.Background()

	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}

	fmt.Println("Schema executed successfully")

	tables := []string{"users", "buckets", "objects", "versions", "bucket_permissions", "object_permissions"}

	for _, table := range tables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := db.Pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			fmt.Printf("Error checking table %q: %v\n", table, err)
			continue
		}

		if exists {
			fmt.Printf("Table %q created\n", table)
		} else {
			fmt.Printf("Table %q NOT created\n", table)
		}
	}

	fmt.Println("Database setup complete")
}
