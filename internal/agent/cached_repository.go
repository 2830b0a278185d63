package agent

import (
	"context"

	"concierge-be/internal/entity"
	"concierge-be/internal/repository/contract"
	"concierge-be/internal/repository/memory"

	"github.com/google/uuid"
)

// cachedThreadRepository fronts the database pointer table with a
// short-TTL in-process cache. Voice turns arrive far more often than
// pointers change; the event handler invalidates on pointer moves so
// staleness is bounded by the event bus, the TTL is just a backstop.
type cachedThreadRepository struct {
	inner contract.UserThreadRepository
	cache *memory.ThreadCache
}

func NewCachedThreadRepository(inner contract.UserThreadRepository, cache *memory.ThreadCache) contract.UserThreadRepository {
	return &cachedThreadRepository{
		inner: inner,
		cache: cache,
	}
}

func (r *cachedThreadRepository) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserThread, error) {
	if cached, ok := r.cache.Get(userId); ok {
		return cached, nil
	}

	row, err := r.inner.FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if row != nil {
		r.cache.Save(row)
	}
	return row, nil
}

func (r *cachedThreadRepository) Upsert(ctx context.Context, thread *entity.UserThread) error {
	if err := r.inner.Upsert(ctx, thread); err != nil {
		return err
	}
	r.cache.Save(thread)
	return nil
}

func (r *cachedThreadRepository) Delete(ctx context.Context, userId uuid.UUID) error {
	if err := r.inner.Delete(ctx, userId); err != nil {
		return err
	}
	r.cache.Invalidate(userId)
	return nil
}
