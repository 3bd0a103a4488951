package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/orgs-directory-service/internal/repository"
)

// q is a minimal query executor implemented by both pgxpool.Pool and pgx.Tx.
type q interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// inTx reports whether ctx carries an open transaction.
func inTx(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return ok && tx != nil
}

func getQ(ctx context.Context, pool *pgxpool.Pool) q {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok && tx != nil {
		return tx
	}
	return pool
}

type txManager struct{ pool *pgxpool.Pool }

// NewTxManager runs units of work in a pgx transaction. The document repository uses it so that
// the load, mutate and save steps of one write hit the same row lock.
func NewTxManager(pool *pgxpool.Pool) repository.TxManager { return &txManager{pool: pool} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ensurePool(m.pool); err != nil {
		return err
	}
	if inTx(ctx) {
		return fn(ctx)
	}
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return repository.MapPgError(err)
	}
	defer func() {
		// If not committed yet, rollback; ignore rollback errors if context canceled.
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		return repository.MapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.MapPgError(err)
	}
	return nil
}

var _ repository.TxManager = (*txManager)(nil)

// helper to assert we didn't accidentally nil the pool
func ensurePool(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("pgx pool is nil")
	}
	return nil
}
