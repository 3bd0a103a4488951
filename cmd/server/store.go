package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/internal/config"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
	"github.com/maxviazov/orgs-directory-service/internal/repository/jsonfile"
	"github.com/maxviazov/orgs-directory-service/internal/repository/postgres"
	"github.com/maxviazov/orgs-directory-service/internal/repository/redis"
)

// openStore builds the document store selected by cfg.Store.Driver. The returned close
// function releases connections and is safe to call once.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.DocumentStore, repository.TxManager, func(), error) {
	log = log.With().Str("module", "store").Str("driver", cfg.Store.Driver).Logger()

	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, nil, nil, fmt.Errorf("postgres migrations failed: %w", err)
			}
		}
		log.Info().Str("document_id", cfg.Postgres.DocumentID).Msg("postgres store ready")
		return postgres.NewDocumentStore(pool, cfg.Postgres.DocumentID), postgres.NewTxManager(pool), pool.Close, nil

	case "redis":
		store, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis store failed: %w", err)
		}
		log.Info().Bool("in_memory", cfg.Redis.InMemory).Str("key", cfg.Redis.Key).Msg("redis store ready")
		return store, repository.NoopTxManager(), func() { _ = store.Close() }, nil

	default:
		store, err := jsonfile.New(cfg.Store.File.Path, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("file store failed: %w", err)
		}
		log.Info().Str("path", cfg.Store.File.Path).Msg("file store ready")
		return store, repository.NoopTxManager(), func() {}, nil
	}
}
