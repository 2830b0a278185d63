package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserThread tracks the thread a user's next chat or voice turn is
// routed to. One row per user; switching threads overwrites ThreadId.
type UserThread struct {
	UserId    uuid.UUID
	ThreadId  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
