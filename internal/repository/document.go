package repository

import (
	"context"
	"slices"

	"github.com/maxviazov/orgs-directory-service/internal/model"
)

// documentRepository implements OrgRepository over any DocumentStore.
// Reads load the whole document; writes load, mutate and save it back inside one WithinTx call.
type documentRepository struct {
	store DocumentStore
	tx    TxManager
}

// NewDocumentRepository wires an OrgRepository on top of store. A nil tx means no transactions.
func NewDocumentRepository(store DocumentStore, tx TxManager) OrgRepository {
	if tx == nil {
		tx = NoopTxManager()
	}
	return &documentRepository{store: store, tx: tx}
}

func findOrg(doc model.Document, orgID string) int {
	return slices.IndexFunc(doc.Orgs, func(o model.Org) bool { return o.ID == orgID })
}

func findUser(org model.Org, userID string) int {
	return slices.IndexFunc(org.Users, func(u model.User) bool { return u.ID == userID })
}

func (r *documentRepository) ListOrgs(ctx context.Context) ([]model.OrgSummary, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.OrgSummary, 0, len(doc.Orgs))
	for _, o := range doc.Orgs {
		out = append(out, o.Summary())
	}
	return out, nil
}

func (r *documentRepository) GetOrg(ctx context.Context, orgID string) (model.Org, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return model.Org{}, err
	}
	i := findOrg(doc, orgID)
	if i < 0 {
		return model.Org{}, ErrNotFound
	}
	return doc.Orgs[i], nil
}

func (r *documentRepository) ListUsers(ctx context.Context, orgID string) ([]model.User, error) {
	org, err := r.GetOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(org.Users))
	for _, u := range org.Users {
		if u.Org == "" {
			u.Org = org.ID
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *documentRepository) ListLabels(ctx context.Context, orgID string) ([]string, error) {
	org, err := r.GetOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return append([]string{}, org.Labels...), nil
}

// mutate loads the document, applies fn and saves the result. fn returning an error aborts
// before anything is written, so a missing org or user never touches the store.
func (r *documentRepository) mutate(ctx context.Context, fn func(doc *model.Document) error) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		doc, err := r.store.Load(ctx)
		if err != nil {
			return err
		}
		doc = doc.Clone()
		if err := fn(&doc); err != nil {
			return err
		}
		return r.store.Save(ctx, doc)
	})
}

func (r *documentRepository) AddLabel(ctx context.Context, orgID, label string) (model.Org, error) {
	var saved model.Org
	err := r.mutate(ctx, func(doc *model.Document) error {
		i := findOrg(*doc, orgID)
		if i < 0 {
			return ErrNotFound
		}
		doc.Orgs[i].Labels = append(doc.Orgs[i].Labels, label)
		saved = doc.Orgs[i]
		return nil
	})
	if err != nil {
		return model.Org{}, err
	}
	return saved, nil
}

func (r *documentRepository) UpdateUser(ctx context.Context, orgID, userID string, patch model.UserPatch) (model.User, error) {
	var saved model.User
	err := r.mutate(ctx, func(doc *model.Document) error {
		i := findOrg(*doc, orgID)
		if i < 0 {
			return ErrNotFound
		}
		j := findUser(doc.Orgs[i], userID)
		if j < 0 {
			return ErrNotFound
		}
		doc.Orgs[i].Users[j] = patch.Apply(doc.Orgs[i].Users[j])
		saved = doc.Orgs[i].Users[j]
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return saved, nil
}

func (r *documentRepository) DeleteUser(ctx context.Context, orgID, userID string) error {
	return r.mutate(ctx, func(doc *model.Document) error {
		i := findOrg(*doc, orgID)
		if i < 0 {
			return ErrNotFound
		}
		j := findUser(doc.Orgs[i], userID)
		if j < 0 {
			return ErrNotFound
		}
		doc.Orgs[i].Users = slices.Delete(doc.Orgs[i].Users, j, j+1)
		return nil
	})
}

var _ OrgRepository = (*documentRepository)(nil)
