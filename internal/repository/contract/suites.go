package contract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
)

// StoreFactory builds a fresh, empty store for one subtest. tx may be nil for stores
// without transactions.
type StoreFactory func(t *testing.T) (store repository.DocumentStore, tx repository.TxManager, cleanup func())

// Fixture is the document every suite seeds before exercising a backend.
func Fixture() model.Document {
	return model.Document{Orgs: []model.Org{
		{
			ID:     "org-1",
			Name:   "Acme",
			Labels: []string{"vip"},
			Users: []model.User{
				{ID: "u-1", Org: "org-1", FirstName: "Grace", LastName: "Hopper", Email: "grace@acme.test"},
				{ID: "u-2", Org: "org-1", FirstName: "Alan", LastName: "Turing", Extra: map[string]json.RawMessage{
					"avatar": json.RawMessage(`"turing.png"`),
				}},
			},
		},
		{ID: "org-2", Name: "Globex", Labels: []string{}, Users: []model.User{}},
	}}
}

func seed(t *testing.T, s repository.DocumentStore) {
	t.Helper()
	if err := s.Save(context.Background(), Fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func RunDocumentStoreContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	t.Run("ping", func(t *testing.T) {
		s, _, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})

	t.Run("load_empty", func(t *testing.T) {
		s, _, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		doc, err := s.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(doc.Orgs) != 0 {
			t.Fatalf("expected empty document, got %d orgs", len(doc.Orgs))
		}
	})

	t.Run("save_and_load_roundtrip", func(t *testing.T) {
		s, _, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s)
		doc, err := s.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(doc.Orgs) != 2 || doc.Orgs[0].ID != "org-1" || doc.Orgs[1].ID != "org-2" {
			t.Fatalf("order or content changed: %+v", doc.Orgs)
		}
		u := doc.Orgs[0].Users[1]
		if string(u.Extra["avatar"]) != `"turing.png"` {
			t.Fatalf("unknown user fields dropped: %+v", u.Extra)
		}
	})

	t.Run("save_replaces_whole_document", func(t *testing.T) {
		s, _, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s)
		ctx := context.Background()
		if err := s.Save(ctx, model.Document{Orgs: []model.Org{{ID: "only", Name: "Only"}}}); err != nil {
			t.Fatalf("save: %v", err)
		}
		doc, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(doc.Orgs) != 1 || doc.Orgs[0].ID != "only" {
			t.Fatalf("expected replaced document, got %+v", doc.Orgs)
		}
	})
}

func RunOrgRepositoryContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	newRepo := func(t *testing.T) (repository.OrgRepository, repository.DocumentStore) {
		s, tx, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s)
		return repository.NewDocumentRepository(s, tx), s
	}

	t.Run("list_orgs_projects_summary", func(t *testing.T) {
		repo, _ := newRepo(t)
		orgs, err := repo.ListOrgs(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orgs) != 2 || orgs[0] != (model.OrgSummary{ID: "org-1", Name: "Acme"}) {
			t.Fatalf("unexpected orgs: %+v", orgs)
		}
	})

	t.Run("get_org_not_found", func(t *testing.T) {
		repo, _ := newRepo(t)
		_, err := repo.GetOrg(context.Background(), "nope")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_users_and_labels", func(t *testing.T) {
		repo, _ := newRepo(t)
		ctx := context.Background()
		users, err := repo.ListUsers(ctx, "org-1")
		if err != nil || len(users) != 2 {
			t.Fatalf("users: %v %+v", err, users)
		}
		labels, err := repo.ListLabels(ctx, "org-1")
		if err != nil || len(labels) != 1 || labels[0] != "vip" {
			t.Fatalf("labels: %v %+v", err, labels)
		}
		empty, err := repo.ListUsers(ctx, "org-2")
		if err != nil || len(empty) != 0 {
			t.Fatalf("empty org users: %v %+v", err, empty)
		}
	})

	t.Run("add_label_persists", func(t *testing.T) {
		repo, s := newRepo(t)
		ctx := context.Background()
		saved, err := repo.AddLabel(ctx, "org-2", "partner")
		if err != nil {
			t.Fatalf("add label: %v", err)
		}
		if len(saved.Labels) != 1 || saved.Labels[0] != "partner" {
			t.Fatalf("unexpected saved org: %+v", saved)
		}
		doc, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got := doc.Orgs[1].Labels; len(got) != 1 || got[0] != "partner" {
			t.Fatalf("label not persisted: %+v", got)
		}
	})

	t.Run("add_label_missing_org_leaves_store_unchanged", func(t *testing.T) {
		repo, s := newRepo(t)
		ctx := context.Background()
		before, _ := s.Load(ctx)
		_, err := repo.AddLabel(ctx, "ghost", "x")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		after, _ := s.Load(ctx)
		b, _ := json.Marshal(before)
		a, _ := json.Marshal(after)
		if string(a) != string(b) {
			t.Fatalf("store changed:\nbefore=%s\nafter=%s", b, a)
		}
	})

	t.Run("update_user_applies_patch_only", func(t *testing.T) {
		repo, s := newRepo(t)
		ctx := context.Background()
		first := "Amazing"
		saved, err := repo.UpdateUser(ctx, "org-1", "u-1", model.UserPatch{FirstName: &first})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if saved.FirstName != "Amazing" || saved.LastName != "Hopper" {
			t.Fatalf("unexpected saved user: %+v", saved)
		}
		doc, _ := s.Load(ctx)
		if doc.Orgs[0].Users[0].FirstName != "Amazing" {
			t.Fatalf("patch not persisted: %+v", doc.Orgs[0].Users[0])
		}
	})

	t.Run("update_user_not_found", func(t *testing.T) {
		repo, _ := newRepo(t)
		ctx := context.Background()
		if _, err := repo.UpdateUser(ctx, "org-1", "ghost", model.UserPatch{}); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("missing user: expected ErrNotFound, got %v", err)
		}
		if _, err := repo.UpdateUser(ctx, "ghost", "u-1", model.UserPatch{}); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("missing org: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_user", func(t *testing.T) {
		repo, _ := newRepo(t)
		ctx := context.Background()
		if err := repo.DeleteUser(ctx, "org-1", "u-1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		users, _ := repo.ListUsers(ctx, "org-1")
		if len(users) != 1 || users[0].ID != "u-2" {
			t.Fatalf("unexpected users after delete: %+v", users)
		}
		if err := repo.DeleteUser(ctx, "org-1", "u-1"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}
