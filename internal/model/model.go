// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the only behavior is JSON plumbing for users.
package model

import (
	"encoding/json"
	"fmt"
)

// Document is the whole persisted aggregate: every organization with its users and labels.
type Document struct {
	Orgs []Org `json:"orgs"`
}

// Org represents an organization as stored.
type Org struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
	Users  []User   `json:"users"`
}

// OrgSummary is the public projection of an organization used by list and get endpoints.
type OrgSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary projects an org to its id and name.
func (o Org) Summary() OrgSummary {
	return OrgSummary{ID: o.ID, Name: o.Name}
}

// User is a member of an organization. Fields the service does not know about are kept
// in Extra so that a read-modify-write cycle never drops them.
type User struct {
	ID        string `json:"id"`
	Org       string `json:"org,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	// OrgName is filled client-side when users of several orgs are merged into one list.
	OrgName string `json:"org_name,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// userFields mirrors User without methods so encoding/json does not recurse.
type userFields struct {
	ID        string `json:"id"`
	Org       string `json:"org,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	OrgName   string `json:"org_name,omitempty"`
}

var knownUserKeys = map[string]struct{}{
	"id": {}, "org": {}, "first_name": {}, "last_name": {}, "email": {}, "role": {}, "org_name": {},
}

// UnmarshalJSON decodes known fields and stashes the rest in Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	var f userFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*u = User{
		ID:        f.ID,
		Org:       f.Org,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Role:      f.Role,
		OrgName:   f.OrgName,
	}
	for k, v := range all {
		if _, known := knownUserKeys[k]; known {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes known fields followed by Extra. Known keys always win over Extra.
func (u User) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(userFields{
		ID:        u.ID,
		Org:       u.Org,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		OrgName:   u.OrgName,
	})
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(u.Extra)+len(knownUserKeys))
	for k, v := range u.Extra {
		merged[k] = v
	}
	var base map[string]json.RawMessage
	if err := json.Unmarshal(known, &base); err != nil {
		return nil, fmt.Errorf("re-decode user: %w", err)
	}
	for k, v := range base {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UserPatch is a validated partial update: nil fields are left untouched.
// Only whitelisted fields exist here; id and org are never patchable.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Role == nil
}

// Apply returns a copy of u with the patch merged in.
func (p UserPatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}

// Clone deep-copies the document so callers can mutate it without touching a shared snapshot.
func (d Document) Clone() Document {
	out := Document{Orgs: make([]Org, len(d.Orgs))}
	for i, o := range d.Orgs {
		c := Org{ID: o.ID, Name: o.Name}
		c.Labels = append([]string{}, o.Labels...)
		c.Users = make([]User, len(o.Users))
		for j, u := range o.Users {
			if u.Extra != nil {
				extra := make(map[string]json.RawMessage, len(u.Extra))
				for k, v := range u.Extra {
					extra[k] = v
				}
				u.Extra = extra
			}
			c.Users[j] = u
		}
		out.Orgs[i] = c
	}
	return out
}
