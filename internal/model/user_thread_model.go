package model

import (
	"time"

	"github.com/google/uuid"
)

type UserThread struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ThreadId  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserThread) TableName() string {
	return "user_threads"
}
