package contract

import (
	"context"

	"concierge-be/internal/entity"

	"github.com/google/uuid"
)

type UserAssistantRepository interface {
	// Upsert writes the mapping for a user, overwriting any existing
	// row. Last write wins when two processes race.
	Upsert(ctx context.Context, assistant *entity.UserAssistant) error
	// FindByUserId returns nil, nil when no mapping exists.
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserAssistant, error)
	Delete(ctx context.Context, userId uuid.UUID) error
}
