package repository

import (
	"context"

	"github.com/maxviazov/orgs-directory-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for stores that support it.
// Stores without transactions use NoopTxManager and just run fn.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// DocumentStore persists the whole aggregate. There are no partial updates:
// every write replaces the document in full.
type DocumentStore interface {
	Pinger
	Load(ctx context.Context) (model.Document, error)
	Save(ctx context.Context, doc model.Document) error
}

// OrgRepository declares per-entity operations over the aggregate.
// I return domain models and surface domain errors from errors.go rather than backend errors.
type OrgRepository interface {
	ListOrgs(ctx context.Context) ([]model.OrgSummary, error)
	GetOrg(ctx context.Context, orgID string) (model.Org, error)
	ListUsers(ctx context.Context, orgID string) ([]model.User, error)
	ListLabels(ctx context.Context, orgID string) ([]string, error)
	// AddLabel appends label to the org and returns the saved org.
	AddLabel(ctx context.Context, orgID, label string) (model.Org, error)
	// UpdateUser merges patch into the stored user and returns the saved user.
	UpdateUser(ctx context.Context, orgID, userID string, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, orgID, userID string) error
}

type noopTx struct{}

// NoopTxManager runs fn directly; used by stores with no transaction support.
func NoopTxManager() TxManager { return noopTx{} }

func (noopTx) WithinTx(ctx context.Context, fn TxFunc) error { return fn(ctx) }
