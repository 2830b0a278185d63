package memory

import (
	"time"

	"concierge-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ThreadCache keeps recently resolved thread pointers in process so the
// voice worker avoids a database round trip per utterance. Entries
// expire quickly because the chat backend may repoint a user at any
// time; the database row stays authoritative.
type ThreadCache struct {
	cache *cache.Cache
}

func NewThreadCache() *ThreadCache {
	// Short TTL keeps the worker close to the database truth, purge
	// every minute keeps the map small.
	c := cache.New(30*time.Second, 1*time.Minute)
	return &ThreadCache{
		cache: c,
	}
}

func (r *ThreadCache) Save(thread *entity.UserThread) {
	r.cache.Set(thread.UserId.String(), thread, cache.DefaultExpiration)
}

func (r *ThreadCache) Get(userId uuid.UUID) (*entity.UserThread, bool) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.(*entity.UserThread), true
	}
	return nil, false
}

func (r *ThreadCache) Invalidate(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
