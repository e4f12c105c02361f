package main

import (
	"context"
	"log"

	"deltajournal-backend/config"
	"deltajournal-backend/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Remote.URL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Remote.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.CreateSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	for _, table := range repository.TableOrder {
		log.Printf("✓ Table %s ready", table)
	}
	log.Println("✓ Indexes ready")
}
