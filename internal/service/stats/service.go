// Package stats serves site-wide counters and the category list, both
// cached for a short time.
package stats

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/metrics"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

// Source provides the uncached data.
type Source interface {
	Stats() repository.StatsRepository
	Categories() repository.CategoryRepository
}

type Service struct {
	source Source
	cache  repository.Cache
	ttl    time.Duration
}

// NewService returns a stats service. A nil cache disables caching.
func NewService(source Source, cache repository.Cache, ttl time.Duration) *Service {
	return &Service{source: source, cache: cache, ttl: ttl}
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := cached(ctx, s, repository.CacheKeyStats, func(ctx context.Context) (domain.Stats, error) {
		return s.source.Stats().Stats(ctx)
	})
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return &stats, nil
}

// Categories returns every category with its card count, ordered by name.
func (s *Service) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	categories, err := cached(ctx, s, repository.CacheKeyCategories, func(ctx context.Context) ([]domain.CategoryCount, error) {
		return s.source.Categories().ListWithCounts(ctx)
	})
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	if categories == nil {
		categories = []domain.CategoryCount{}
	}
	return categories, nil
}

// cached reads key from the cache, falling back to load and storing its result.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			if err := json.Unmarshal([]byte(raw), &v); err == nil {
				metrics.CacheResults.WithLabelValues(key, "hit").Inc()
				return v, nil
			}
			logging.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		case errors.Is(err, repository.ErrCacheMiss):
			metrics.CacheResults.WithLabelValues(key, "miss").Inc()
		default:
			metrics.CacheResults.WithLabelValues(key, "error").Inc()
			logging.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if s.cache != nil {
		data, err := json.Marshal(v)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.ttl)
		}
		if err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}
