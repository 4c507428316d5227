package settings

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Service reads settings through the cache and writes them back.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService builds the service. cache may be nil.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Get returns the stored settings, or Defaults when none are saved.
// Concurrent misses share one repository load.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("settings cache read", slog.Any("error", err))
	} else if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		loaded, err := s.repo.Load(ctx)
		if errors.Is(err, ErrNotFound) {
			return Defaults(), nil
		}
		if err != nil {
			return Settings{}, err
		}
		if err := s.cache.Set(ctx, loaded); err != nil {
			s.logger.Warn("settings cache write", slog.Any("error", err))
		}
		return loaded, nil
	})
	if err != nil {
		return Settings{}, err
	}
	return v.(Settings), nil
}

// Update merges input into the current settings, validates and saves them.
func (s *Service) Update(ctx context.Context, input UpdateInput) (Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	next, err := input.Apply(current)
	if err != nil {
		return Settings{}, err
	}
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	saved, err := s.repo.Save(ctx, next)
	if err != nil {
		return Settings{}, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("settings cache invalidate", slog.Any("error", err))
	}
	s.logger.Info("settings updated",
		slog.Int("first_day_of_month", saved.FirstDayOfMonth),
		slog.String("currency", saved.Currency),
		slog.String("calendar", saved.Calendar.String()),
	)
	return saved, nil
}
