// Package app assembles the journal services from configuration.
package app

import (
	"context"
	"fmt"
	"io"

	"deltajournal-backend/config"
	"deltajournal-backend/logger"
	"deltajournal-backend/repository"
	"deltajournal-backend/service"
	"deltajournal-backend/storage"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the wired services shared by the HTTP server and the CLI
type App struct {
	Config   *config.Config
	Data     service.DataService
	Auth     *service.AuthService
	Insights *service.InsightService

	pool   *pgxpool.Pool
	blobs  storage.Storage
	gemini *genai.Client
}

// New connects the backend selected by cfg. With a configured remote backend
// the Postgres pool is opened and pinged; otherwise the local blob store is used.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	var dataOpts []service.DataServiceOption
	var authOpts []service.AuthServiceOption

	if cfg.Remote.Configured() {
		pool, err := initPostgres(ctx, cfg.Remote.URL)
		if err != nil {
			return nil, err
		}
		a.pool = pool

		dataOpts = append(dataOpts, service.WithRemoteStores(service.NewPostgresStores(
			repository.NewEntryRepository(pool),
			repository.NewProfileRepository(pool),
			repository.NewQuestRepository(pool),
			repository.NewLeadRepository(pool),
		)))
		authOpts = append(authOpts,
			service.WithUserStore(repository.NewUserRepository(pool)),
			service.WithSessionStore(repository.NewSessionRepository(pool)),
		)
	} else {
		blobs, err := storage.NewStorage(storage.StorageConfig{
			Type:         storage.StorageType(cfg.Storage.Type),
			LocalPath:    cfg.Storage.LocalPath,
			SQLitePath:   cfg.Storage.SQLitePath,
			S3Bucket:     cfg.Storage.S3Bucket,
			S3Prefix:     cfg.Storage.S3Prefix,
			S3Region:     cfg.Storage.S3Region,
			AWSAccessKey: cfg.Storage.AWSAccessKey,
			AWSSecretKey: cfg.Storage.AWSSecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		a.blobs = blobs
		dataOpts = append(dataOpts, service.WithBlobStorage(blobs))
		logger.Info("local journal storage initialized", "type", cfg.Storage.Type)
	}

	a.Data = service.NewDataService(cfg.Remote, dataOpts...)
	a.Auth = service.NewAuthService(cfg.Remote, authOpts...)

	client, err := service.NewGeminiClient(ctx, cfg.AI.APIKey)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.gemini = client

	var insightOpts []service.InsightServiceOption
	if client != nil {
		insightOpts = append(insightOpts, service.WithTextGenerator(service.NewGeminiGenerator(client, cfg.AI.Model)))
	}
	a.Insights = service.NewInsightService(insightOpts...)

	return a, nil
}

// Close releases the database pool, the blob store, and the Gemini client
func (a *App) Close() {
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			logger.Warn("failed to close gemini client", "error", err)
		}
	}
	if c, ok := a.blobs.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("Postgres connection established")
	return pool, nil
}
