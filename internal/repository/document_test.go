package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
	"github.com/maxviazov/orgs-directory-service/internal/repository/contract"
)

func memoryFactory(t *testing.T) (repository.DocumentStore, repository.TxManager, func()) {
	return repository.NewMemoryStore(model.Document{}), nil, func() {}
}

func TestMemoryStore_Contract(t *testing.T) {
	contract.RunDocumentStoreContract(t, memoryFactory)
}

func TestDocumentRepository_Contract(t *testing.T) {
	contract.RunOrgRepositoryContract(t, memoryFactory)
}

func TestDocumentRepository_SaveFailurePropagates(t *testing.T) {
	store := repository.NewMemoryStore(contract.Fixture())
	boom := errors.New("disk full")
	store.FailSave = boom
	repo := repository.NewDocumentRepository(store, nil)

	_, err := repo.AddLabel(context.Background(), "org-1", "x")
	require.ErrorIs(t, err, boom)

	labels, err := repo.ListLabels(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"vip"}, labels)
}

func TestDocumentRepository_NotFoundDoesNotWrite(t *testing.T) {
	store := repository.NewMemoryStore(contract.Fixture())
	repo := repository.NewDocumentRepository(store, nil)

	err := repo.DeleteUser(context.Background(), "org-1", "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, store.Writes())
}

func TestDocumentRepository_ListUsersFillsOrg(t *testing.T) {
	doc := model.Document{Orgs: []model.Org{{ID: "o", Name: "O", Users: []model.User{{ID: "u"}}}}}
	repo := repository.NewDocumentRepository(repository.NewMemoryStore(doc), nil)
	users, err := repo.ListUsers(context.Background(), "o")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "o", users[0].Org)
}

type recordingTx struct{ calls int }

func (r *recordingTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	r.calls++
	return fn(ctx)
}

func TestDocumentRepository_WritesRunInsideTx(t *testing.T) {
	tx := &recordingTx{}
	repo := repository.NewDocumentRepository(repository.NewMemoryStore(contract.Fixture()), tx)
	ctx := context.Background()

	_, err := repo.ListOrgs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, tx.calls)

	_, err = repo.AddLabel(ctx, "org-1", "new")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteUser(ctx, "org-1", "u-2"))
	assert.Equal(t, 2, tx.calls)
}
