// Package redis stores the aggregate document as a JSON string under a single Redis key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/internal/config"
	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
)

// Store is a DocumentStore over Redis. Close releases the client and, in in-memory mode,
// the embedded server.
type Store struct {
	client goredis.UniversalClient
	key    string
	mini   *miniredis.Miniredis
	log    zerolog.Logger
}

// Options maps the service config to go-redis options.
func Options(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	}
}

// New connects to Redis, or starts an embedded miniredis when cfg.InMemory is set.
func New(cfg config.RedisConfig, logger zerolog.Logger) (*Store, error) {
	if cfg.Key == "" {
		return nil, errors.New("redis: key is required")
	}
	l := logger.With().Str("module", "repository").Str("component", "redis").Str("key", cfg.Key).Logger()

	opts := Options(cfg)
	var mini *miniredis.Miniredis
	if cfg.InMemory {
		m, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start in-memory redis: %w", err)
		}
		mini = m
		opts.Addr = m.Addr()
		l.Warn().Str("addr", m.Addr()).Msg("using in-memory redis; data is lost on exit")
	}
	return NewWithClient(goredis.NewClient(opts), cfg.Key, mini, l), nil
}

// NewWithClient wraps an existing client. mini may be nil.
func NewWithClient(client goredis.UniversalClient, key string, mini *miniredis.Miniredis, logger zerolog.Logger) *Store {
	return &Store{client: client, key: key, mini: mini, log: logger}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (model.Document, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.Document{Orgs: []model.Org{}}, nil
	}
	if err != nil {
		return model.Document{}, errors.Join(repository.ErrStoreUnavailable, err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Error().Err(err).Msg("stored document is not valid json")
		return model.Document{}, errors.Join(repository.ErrCorruptDocument, err)
	}
	if doc.Orgs == nil {
		doc.Orgs = []model.Org{}
	}
	return doc, nil
}

// Save replaces the key in one SET; Redis applies it atomically.
func (s *Store) Save(ctx context.Context, doc model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	s.log.Debug().Int("bytes", len(raw)).Msg("document saved")
	return nil
}

func (s *Store) Close() error {
	err := s.client.Close()
	if s.mini != nil {
		s.mini.Close()
	}
	return err
}

var _ repository.DocumentStore = (*Store)(nil)
