package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxviazov/orgs-directory-service/internal/model"
)

func newOrgsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List every organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			orgs, err := c.FetchOrgs(cmd.Context(), opts.perPage)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(orgs))
			for _, o := range orgs {
				rows = append(rows, []string{o.ID, o.Name})
			}
			return render(cmd.OutOrStdout(), opts.output, orgs, []string{"ID", "NAME"}, rows)
		},
	}
}

func newUsersCommand(opts *globalOptions) *cobra.Command {
	var orgIDs []string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users of all organizations, sorted by last name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			var orgs []model.OrgSummary
			if len(orgIDs) > 0 {
				for _, id := range orgIDs {
					org, err := c.GetOrg(cmd.Context(), id)
					if err != nil {
						return fmt.Errorf("org %s: %w", id, err)
					}
					orgs = append(orgs, org)
				}
			} else if orgs, err = c.FetchOrgs(cmd.Context(), opts.perPage); err != nil {
				return err
			}
			users, err := c.FetchUsers(cmd.Context(), orgs, opts.perPage)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.LastName, u.FirstName, u.Email, u.Role, u.OrgName})
			}
			return render(cmd.OutOrStdout(), opts.output, users,
				[]string{"ID", "LAST NAME", "FIRST NAME", "EMAIL", "ROLE", "ORG"}, rows)
		},
	}
	cmd.Flags().StringSliceVar(&orgIDs, "org", nil, "restrict to these org ids")
	return cmd
}

func newLabelsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "labels <org-id>",
		Short: "List labels of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			labels, err := c.FetchLabels(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(labels))
			for _, l := range labels {
				rows = append(rows, []string{l})
			}
			return render(cmd.OutOrStdout(), opts.output, labels, []string{"LABEL"}, rows)
		},
	}
}

func newLabelCommand(opts *globalOptions) *cobra.Command {
	label := &cobra.Command{Use: "label", Short: "Manage organization labels"}
	label.AddCommand(&cobra.Command{
		Use:   "add <org-id> <label>",
		Short: "Append a label to an organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			org, err := c.CreateLabel(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, org,
				[]string{"ID", "NAME", "LABELS"}, [][]string{{org.ID, org.Name, strings.Join(org.Labels, ", ")}})
		},
	})
	return label
}

func newUserCommand(opts *globalOptions) *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Edit or remove a user"}

	var (
		mask []string
		set  []string
	)
	update := &cobra.Command{
		Use:   "update <org-id> <user-id>",
		Short: "Update the masked fields of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := userFromAssignments(args[0], args[1], set)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			saved, err := c.SaveUser(cmd.Context(), u, mask)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, saved,
				[]string{"ID", "LAST NAME", "FIRST NAME", "EMAIL", "ROLE"},
				[][]string{{saved.ID, saved.LastName, saved.FirstName, saved.Email, saved.Role}})
		},
	}
	update.Flags().StringSliceVar(&mask, "mask", nil, "fields to apply, e.g. first_name,last_name")
	update.Flags().StringArrayVar(&set, "set", nil, "field=value assignment, repeatable")

	remove := &cobra.Command{
		Use:     "rm <org-id> <user-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a user from an organization",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.RemoveUser(cmd.Context(), model.User{Org: args[0], ID: args[1]}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return err
		},
	}

	user.AddCommand(update, remove)
	return user
}

// userFromAssignments turns --set key=value pairs into a user record addressed by org and id.
// Keys the model does not name are carried as extra fields.
func userFromAssignments(orgID, userID string, set []string) (model.User, error) {
	u := model.User{ID: userID, Org: orgID}
	for _, kv := range set {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return model.User{}, fmt.Errorf("--set %q: expected field=value", kv)
		}
		switch key {
		case "first_name":
			u.FirstName = value
		case "last_name":
			u.LastName = value
		case "email":
			u.Email = value
		case "role":
			u.Role = value
		case "id", "org":
			return model.User{}, fmt.Errorf("--set %q: %s cannot be changed", kv, key)
		default:
			raw, _ := json.Marshal(value)
			if u.Extra == nil {
				u.Extra = map[string]json.RawMessage{}
			}
			u.Extra[key] = raw
		}
	}
	return u, nil
}
