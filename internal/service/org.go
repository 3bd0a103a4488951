package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

// Options tunes OrgService behavior.
type Options struct {
	// StrictPages turns requests past the last page into pagination.ErrPageOutOfRange.
	StrictPages bool
}

// orgService holds org use-case logic: presence checks + orchestration, no transport / storage details.
type orgService struct {
	repo repository.OrgRepository
	opts Options
	log  zerolog.Logger
}

func NewOrgService(repo repository.OrgRepository, logger zerolog.Logger, opts Options) OrgService {
	l := logger.With().Str("module", "service").Str("component", "org").Logger()
	return &orgService{repo: repo, opts: opts, log: l}
}

func paginate[T any](s *orgService, items []T, p pagination.Params) (pagination.Page[T], error) {
	if s.opts.StrictPages {
		if err := pagination.Check(len(items), p); err != nil {
			return pagination.Page[T]{}, err
		}
	}
	return pagination.Paginate(items, p), nil
}

func (s *orgService) ListOrgs(ctx context.Context, p pagination.Params) (pagination.Page[model.OrgSummary], error) {
	orgs, err := s.repo.ListOrgs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list orgs failed")
		return pagination.Page[model.OrgSummary]{}, err
	}
	return paginate(s, orgs, p)
}

func (s *orgService) GetOrg(ctx context.Context, orgID string) (model.OrgSummary, error) {
	org, err := s.repo.GetOrg(ctx, orgID)
	if err != nil {
		return model.OrgSummary{}, err
	}
	return org.Summary(), nil
}

func (s *orgService) ListUsers(ctx context.Context, orgID string, p pagination.Params) (pagination.Page[model.User], error) {
	users, err := s.repo.ListUsers(ctx, orgID)
	if err != nil {
		return pagination.Page[model.User]{}, err
	}
	return paginate(s, users, p)
}

func (s *orgService) ListLabels(ctx context.Context, orgID string) ([]string, error) {
	return s.repo.ListLabels(ctx, orgID)
}

func (s *orgService) AddLabel(ctx context.Context, orgID, label string) (model.Org, error) {
	start := time.Now()
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Org{}, NewInvalidInputError([]FieldError{{Field: "label", Message: "must not be empty"}})
	}
	org, err := s.repo.AddLabel(ctx, orgID, label)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("org_id", orgID).Msg("add label failed")
		}
		return model.Org{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("org_id", orgID).Str("label", label).Msg("label added")
	return org, nil
}

func (s *orgService) UpdateUser(ctx context.Context, orgID, userID string, mask []string, body map[string]json.RawMessage) (model.User, error) {
	start := time.Now()
	patch, ignored, err := BuildUserPatch(mask, body)
	if err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("user patch validation failed")
		return model.User{}, err
	}
	if len(ignored) > 0 {
		s.log.Debug().Strs("ignored", ignored).Str("user_id", userID).Msg("mask names fields that cannot be patched")
	}
	if patch.Empty() {
		return s.currentUser(ctx, orgID, userID)
	}
	user, err := s.repo.UpdateUser(ctx, orgID, userID, patch)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("org_id", orgID).Str("user_id", userID).Msg("update user failed")
		}
		return model.User{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("org_id", orgID).Str("user_id", userID).Msg("user updated")
	return user, nil
}

func (s *orgService) DeleteUser(ctx context.Context, orgID, userID string) error {
	if err := s.repo.DeleteUser(ctx, orgID, userID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("org_id", orgID).Str("user_id", userID).Msg("delete user failed")
		}
		return err
	}
	s.log.Info().Str("org_id", orgID).Str("user_id", userID).Msg("user deleted")
	return nil
}

// currentUser answers a patch that changes nothing without writing the store.
func (s *orgService) currentUser(ctx context.Context, orgID, userID string) (model.User, error) {
	users, err := s.repo.ListUsers(ctx, orgID)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.ID == userID {
			s.log.Debug().Str("org_id", orgID).Str("user_id", userID).Msg("empty patch, nothing written")
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}
