package notifications

import (
	"context"
	"fmt"
	"log/slog"
)

var errInvalidID = fmt.Errorf("%w: invalid notification id", ErrNotFound)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Notification, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) MarkRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return errInvalidID
	}
	return s.repo.MarkRead(ctx, id)
}

// ClearAll empties the feed and returns how many entries were cleared.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.ClearAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("notifications cleared", slog.Int64("count", n))
	return n, nil
}
