package categories

import (
	"context"
	"errors"
	"fmt"
)

var errInvalidID = fmt.Errorf("%w: invalid category id", ErrNotFound)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Category, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, errInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	category = normalize(category)
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, category Category) error {
	if id <= 0 {
		return errInvalidID
	}
	category = normalize(category)
	if err := s.validate(category); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, category)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// DisplayName names the budget scope: "Overall" when id is nil and
// "Unknown Category" when the id no longer resolves.
func (s *Service) DisplayName(ctx context.Context, id *int64) (string, error) {
	if id == nil {
		return OverallName, nil
	}
	c, err := s.Get(ctx, *id)
	if errors.Is(err, ErrNotFound) {
		return UnknownName, nil
	}
	if err != nil {
		return "", err
	}
	return c.Name, nil
}
