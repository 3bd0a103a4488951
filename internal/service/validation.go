package service

import (
	"encoding/json"
	"strings"

	"github.com/maxviazov/orgs-directory-service/internal/model"
)

// ParseMask splits a comma-separated field list, trimming blanks and dropping duplicates.
func ParseMask(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// patchable is the allow-list of user fields a PATCH may touch, keyed by JSON name.
var patchable = map[string]func(p *model.UserPatch, v *string){
	"first_name": func(p *model.UserPatch, v *string) { p.FirstName = v },
	"last_name":  func(p *model.UserPatch, v *string) { p.LastName = v },
	"email":      func(p *model.UserPatch, v *string) { p.Email = v },
	"role":       func(p *model.UserPatch, v *string) { p.Role = v },
}

// BuildUserPatch keeps the body fields that are both named in mask and allow-listed.
// Masked fields missing from the body are skipped; masked fields outside the allow-list are
// returned as ignored. A JSON null clears the field.
func BuildUserPatch(mask []string, body map[string]json.RawMessage) (model.UserPatch, []string, error) {
	var patch model.UserPatch
	var ignored []string
	var ferrs []FieldError
	for _, field := range mask {
		set, ok := patchable[field]
		if !ok {
			ignored = append(ignored, field)
			continue
		}
		raw, present := body[field]
		if !present {
			continue
		}
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			ferrs = append(ferrs, FieldError{Field: field, Message: "must be a string"})
			continue
		}
		if v == nil {
			empty := ""
			v = &empty
		}
		set(&patch, v)
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.UserPatch{}, ignored, err
	}
	return patch, ignored, nil
}
