package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/fitfriends/backend/internal/models"
)

type profileEntry struct {
	user    models.User
	expires time.Time
}

// CachingProfileRepository wraps a ProfileRepository with a TTL-based
// in-memory cache. Profiles change rarely compared to how often the
// leaderboard and friend views read them.
type CachingProfileRepository struct {
	base ProfileRepository
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]profileEntry
}

// NewCachingProfileRepository returns a ProfileRepository that caches Get
// lookups for the provided TTL. FindByUsername is never cached: the friend
// search flow must observe new accounts immediately.
func NewCachingProfileRepository(base ProfileRepository, ttl time.Duration) *CachingProfileRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProfileRepository{
		base:  base,
		ttl:   ttl,
		items: make(map[string]profileEntry),
	}
}

// Get returns a cached profile when available, otherwise it delegates to the
// underlying repository and stores the result. Not-found is never cached.
func (c *CachingProfileRepository) Get(ctx context.Context, userID string) (models.User, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[userID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.user, nil
	}

	user, err := c.base.Get(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	c.mu.Lock()
	c.items[userID] = profileEntry{user: user, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return user, nil
}

// FindByUsername delegates to the underlying repository.
func (c *CachingProfileRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return c.base.FindByUsername(ctx, username)
}

// Invalidate drops the cached profile for a user, used after friend-list
// mutations so the next read sees the new relation.
func (c *CachingProfileRepository) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

var _ ProfileRepository = (*CachingProfileRepository)(nil)
