package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxviazov/orgs-directory-service/internal/model"
)

func newSeedCommand(configPath *string) *cobra.Command {
	var (
		orgCount int
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a demo directory into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			if orgCount < 1 {
				return errors.New("--orgs must be positive")
			}
			store, _, closeStore, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			current, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load current document: %w", err)
			}
			if len(current.Orgs) > 0 && !force {
				return fmt.Errorf("store already holds %d orgs; pass --force to overwrite", len(current.Orgs))
			}

			doc := demoDocument(orgCount)
			if err := store.Save(cmd.Context(), doc); err != nil {
				return fmt.Errorf("save demo document: %w", err)
			}
			log.Info().Int("orgs", len(doc.Orgs)).Str("driver", cfg.Store.Driver).Msg("✅ demo data written")
			return nil
		},
	}
	cmd.Flags().IntVar(&orgCount, "orgs", 25, "number of organizations to generate")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite a non-empty store")
	return cmd
}

var (
	demoFirstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken"}
	demoLastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson"}
	demoRoles      = []string{"admin", "member", "viewer"}
)

// demoDocument builds n orgs. Org i holds i%4 users, so every fourth org is empty
// and the rest fill one to three rows.
func demoDocument(n int) model.Document {
	doc := model.Document{Orgs: make([]model.Org, 0, n)}
	uid := 0
	for i := 1; i <= n; i++ {
		org := model.Org{
			ID:     fmt.Sprintf("org-%03d", i),
			Name:   fmt.Sprintf("Organization %d", i),
			Labels: []string{},
			Users:  []model.User{},
		}
		if i%3 == 0 {
			org.Labels = append(org.Labels, "partner")
		}
		for j := 0; j < i%4; j++ {
			uid++
			first := demoFirstNames[uid%len(demoFirstNames)]
			last := demoLastNames[(uid*3)%len(demoLastNames)]
			org.Users = append(org.Users, model.User{
				ID:        fmt.Sprintf("user-%04d", uid),
				Org:       org.ID,
				FirstName: first,
				LastName:  last,
				Email:     fmt.Sprintf("%s.%s@example.com", first, last),
				Role:      demoRoles[uid%len(demoRoles)],
			})
		}
		doc.Orgs = append(doc.Orgs, org)
	}
	return doc
}
