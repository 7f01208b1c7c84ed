package services

import (
	"context"

	"github.com/socially/socially/pkg/cache"
	"github.com/socially/socially/pkg/logger"
)

// PageCache is the boundary to the external rendering layer's page cache.
// Invalidation is a fire-and-forget signal: a failed delete is logged and
// never fails the action that triggered it.
type PageCache struct {
	cache  *cache.RedisClient
	logger *logger.Logger
}

func NewPageCache(cache *cache.RedisClient, logger *logger.Logger) *PageCache {
	return &PageCache{
		cache:  cache,
		logger: logger,
	}
}

func pageKey(path string) string {
	return "page:" + path
}

func (s *PageCache) Invalidate(ctx context.Context, path string) {
	if err := s.cache.Delete(ctx, pageKey(path)); err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Failed to invalidate cached page")
	}
}
