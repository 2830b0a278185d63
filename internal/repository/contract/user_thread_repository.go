package contract

import (
	"context"

	"concierge-be/internal/entity"

	"github.com/google/uuid"
)

type UserThreadRepository interface {
	// Upsert points the user at a thread, overwriting any existing row.
	Upsert(ctx context.Context, thread *entity.UserThread) error
	// FindByUserId returns nil, nil when no pointer exists.
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserThread, error)
	Delete(ctx context.Context, userId uuid.UUID) error
}
