// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, presence checks and domain error shaping.
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// OrgService defines organization, user and label use cases.
type OrgService interface {
	ListOrgs(ctx context.Context, p pagination.Params) (pagination.Page[model.OrgSummary], error)
	GetOrg(ctx context.Context, orgID string) (model.OrgSummary, error)
	ListUsers(ctx context.Context, orgID string, p pagination.Params) (pagination.Page[model.User], error)
	ListLabels(ctx context.Context, orgID string) ([]string, error)
	AddLabel(ctx context.Context, orgID, label string) (model.Org, error)
	// UpdateUser applies the fields of body named in mask, ignoring everything else.
	UpdateUser(ctx context.Context, orgID, userID string, mask []string, body map[string]json.RawMessage) (model.User, error)
	DeleteUser(ctx context.Context, orgID, userID string) error
}
