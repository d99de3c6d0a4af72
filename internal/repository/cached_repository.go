package repository

import (
	"context"

	"github.com/irieemon/design-matrix-app-sub016/internal/cache"
	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
	"github.com/irieemon/design-matrix-app-sub016/internal/models"
)

// CachedIdeaRepository wraps an IdeaRepository with a Redis-backed list
// cache. Reads check the cache first and fall back to the database;
// writes invalidate the session's cached list.
type CachedIdeaRepository struct {
	repo  IdeaRepository
	cache *cache.IdeaCache
}

// NewCachedIdeaRepository creates a new cached idea repository.
func NewCachedIdeaRepository(repo IdeaRepository, ideaCache *cache.IdeaCache) *CachedIdeaRepository {
	return &CachedIdeaRepository{repo: repo, cache: ideaCache}
}

// Create stores a new idea and invalidates the session's cached list.
func (c *CachedIdeaRepository) Create(ctx context.Context, create *models.IdeaCreate) (*models.Idea, error) {
	idea, err := c.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	// Cache errors are not critical; the list will be rebuilt on read.
	_ = c.cache.Invalidate(ctx, idea.SessionID)

	return idea, nil
}

// ListBySession returns the session's ideas, serving from cache when
// possible.
func (c *CachedIdeaRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Idea, error) {
	if ideas, err := c.cache.GetList(ctx, sessionID); err == nil {
		metrics.RecordCacheHit()
		return ideas, nil
	}
	metrics.RecordCacheMiss()

	ideas, err := c.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	_ = c.cache.SetList(ctx, sessionID, ideas)

	return ideas, nil
}

// Delete removes an idea. The cached list for every session it might
// appear in cannot be derived from the ID alone, so the repository is
// consulted through ListBySession misses after the TTL; callers that
// know the session should invalidate explicitly.
func (c *CachedIdeaRepository) Delete(ctx context.Context, id string) error {
	return c.repo.Delete(ctx, id)
}

// InvalidateSession drops the session's cached list.
func (c *CachedIdeaRepository) InvalidateSession(ctx context.Context, sessionID string) error {
	return c.cache.Invalidate(ctx, sessionID)
}

// HealthCheck checks both cache and database health.
func (c *CachedIdeaRepository) HealthCheck(ctx context.Context) error {
	if err := c.cache.Ping(ctx); err != nil {
		return err
	}
	return c.repo.HealthCheck(ctx)
}
