package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable means the backend could not be reached or refused the operation.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCorruptDocument means the stored bytes are not a valid document.
	ErrCorruptDocument = errors.New("corrupt document")
)

// MapPgError translates the Postgres error codes I care about to domain errors.
// Everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidTextRepresentation, pgerrcode.InvalidJSONText:
			return errors.Join(ErrCorruptDocument, err)
		case pgerrcode.UndefinedTable,
			pgerrcode.CannotConnectNow,
			pgerrcode.AdminShutdown,
			pgerrcode.TooManyConnections:
			return errors.Join(ErrStoreUnavailable, err)
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}
