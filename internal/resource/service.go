package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
)

// Service implements resource CRUD. Each mutation and its access-log entry
// share one transaction.
type Service struct {
	repo *Repository
	log  *accesslog.Repository
}

// NewService creates a resource service.
func NewService(db *database.DB, log *accesslog.Repository) *Service {
	return &Service{repo: NewRepository(db), log: log}
}

// List returns resources matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Resource, error) {
	return s.repo.List(ctx, f)
}

// Get returns one resource.
func (s *Service) Get(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.Get(ctx, id)
}

// Create validates in and inserts it.
func (s *Service) Create(ctx context.Context, actor accesslog.Actor, in CreateInput) (*Resource, error) {
	res := &Resource{
		Name:     in.Name,
		Category: in.Category,
		Status:   in.Status,
		Location: in.Location,
	}
	if res.Status == "" {
		res.Status = StatusActive
	}
	if err := Validate(res); err != nil {
		return nil, err
	}

	err := s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		if err := s.repo.WithTx(tx).Create(ctx, res); err != nil {
			return nil, err
		}
		return actor.Success(accesslog.ActionCreateResource,
			fmt.Sprintf("Recurso '%s' criado", res.Name)), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update applies the non-nil fields of in to resource id.
func (s *Service) Update(ctx context.Context, actor accesslog.Actor, id int64, in UpdateInput) (*Resource, error) {
	var updated *Resource
	err := s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		repo := s.repo.WithTx(tx)
		res, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if in.Name != nil {
			res.Name = *in.Name
		}
		if in.Category != nil {
			res.Category = *in.Category
		}
		if in.Status != nil {
			res.Status = *in.Status
		}
		if in.Location != nil {
			res.Location = *in.Location
		}
		if err := Validate(res); err != nil {
			return nil, err
		}
		if err := repo.Update(ctx, res); err != nil {
			return nil, err
		}
		updated = res
		return actor.Success(accesslog.ActionUpdateResource,
			fmt.Sprintf("Recurso ID %d atualizado", id)), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes resource id and returns it.
func (s *Service) Delete(ctx context.Context, actor accesslog.Actor, id int64) (*Resource, error) {
	var deleted *Resource
	err := s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		repo := s.repo.WithTx(tx)
		res, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		deleted = res
		return actor.Success(accesslog.ActionDeleteResource,
			fmt.Sprintf("Recurso '%s' removido", res.Name)), nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Count returns the number of resources with status, or all when empty.
func (s *Service) Count(ctx context.Context, status Status) (int, error) {
	return s.repo.Count(ctx, status)
}

// CountByCategory groups resources by category, largest first.
func (s *Service) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	return s.repo.CountByCategory(ctx)
}
