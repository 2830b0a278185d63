package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserAssistant is the durable mapping between a platform user and the
// assistant provisioned for them at the memory provider.
type UserAssistant struct {
	UserId        uuid.UUID
	AssistantId   string
	AssistantName string
	Embedding     EmbeddingConfig
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type EmbeddingConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Dims     int    `json:"dims"`
}
