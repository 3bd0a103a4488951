package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
)

type documentStore struct {
	pool *pgxpool.Pool
	id   string
}

// NewDocumentStore keeps the aggregate as one JSONB row keyed by documentID.
func NewDocumentStore(pool *pgxpool.Pool, documentID string) repository.DocumentStore {
	if documentID == "" {
		documentID = "default"
	}
	return &documentStore{pool: pool, id: documentID}
}

func (s *documentStore) Ping(ctx context.Context) error {
	return NewPinger(s.pool).Ping(ctx)
}

func (s *documentStore) Load(ctx context.Context) (model.Document, error) {
	if err := ensurePool(s.pool); err != nil {
		return model.Document{}, err
	}
	query := `SELECT body FROM org_documents WHERE id = $1`
	if inTx(ctx) {
		// Lock the row for the rest of the read-modify-write cycle.
		query += ` FOR UPDATE`
	}
	var body []byte
	err := getQ(ctx, s.pool).QueryRow(ctx, query, s.id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Document{Orgs: []model.Org{}}, nil
	}
	if err != nil {
		return model.Document{}, repository.MapPgError(err)
	}
	var doc model.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.Document{}, errors.Join(repository.ErrCorruptDocument, err)
	}
	if doc.Orgs == nil {
		doc.Orgs = []model.Org{}
	}
	return doc, nil
}

func (s *documentStore) Save(ctx context.Context, doc model.Document) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = getQ(ctx, s.pool).Exec(ctx,
		`INSERT INTO org_documents (id, body, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		s.id, body,
	)
	return repository.MapPgError(err)
}

var _ repository.DocumentStore = (*documentStore)(nil)
