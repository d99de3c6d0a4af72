package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/internal/models"
)

// defaultIdeaListTTL bounds how long a session's idea list may be served
// from cache without a write invalidating it.
const defaultIdeaListTTL = 5 * time.Minute

// IdeaCache caches per-session idea lists.
type IdeaCache struct {
	cache Cache
	ttl   time.Duration
}

// NewIdeaCache creates an idea list cache on top of a generic cache.
func NewIdeaCache(c Cache, ttl time.Duration) *IdeaCache {
	if ttl == 0 {
		ttl = defaultIdeaListTTL
	}
	return &IdeaCache{cache: c, ttl: ttl}
}

func ideaListKey(sessionID string) string {
	return fmt.Sprintf("ideas:session:%s", sessionID)
}

// GetList returns the cached idea list for a session, or ErrCacheMiss.
func (c *IdeaCache) GetList(ctx context.Context, sessionID string) ([]models.Idea, error) {
	data, err := c.cache.Get(ctx, ideaListKey(sessionID))
	if err != nil {
		return nil, err
	}

	var ideas []models.Idea
	if err := json.Unmarshal(data, &ideas); err != nil {
		return nil, fmt.Errorf("corrupt cached idea list: %w", err)
	}
	return ideas, nil
}

// SetList stores a session's idea list.
func (c *IdeaCache) SetList(ctx context.Context, sessionID string, ideas []models.Idea) error {
	data, err := json.Marshal(ideas)
	if err != nil {
		return fmt.Errorf("failed to encode idea list: %w", err)
	}
	return c.cache.Set(ctx, ideaListKey(sessionID), data, c.ttl)
}

// Invalidate drops a session's cached idea list.
func (c *IdeaCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.cache.Delete(ctx, ideaListKey(sessionID))
}

// Ping checks cache health.
func (c *IdeaCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}
