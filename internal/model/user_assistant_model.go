package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserAssistant struct {
	UserId        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AssistantId   string         `gorm:"type:text;not null"`
	AssistantName string         `gorm:"type:text;not null"`
	Embedding     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (UserAssistant) TableName() string {
	return "user_assistants"
}
