package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"deltajournal-backend/config"
	"deltajournal-backend/models"
	"deltajournal-backend/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
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

	users := repository.NewUserRepository(pool)

	email := "test@example.com"
	password := "testpassword123"

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		log.Printf("User with email %s already exists (ID: %s)", email, existing.ID)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("Failed to look up user: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Test accounts skip email confirmation
	confirmedAt := time.Now()
	user := &models.User{
		Email:            email,
		PasswordHash:     string(hashedPassword),
		EmailConfirmedAt: &confirmedAt,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("✅ Test user created successfully!\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", email)
	fmt.Printf("   Password: %s\n", password)
}
