package dto

import (
	"time"

	"github.com/google/uuid"
)

type MeResponse struct {
	UserId        uuid.UUID `json:"user_id"`
	AssistantId   string    `json:"assistant_id,omitempty"`
	AssistantName string    `json:"assistant_name,omitempty"`
	ThreadId      string    `json:"thread_id,omitempty"`
	Provisioned   bool      `json:"provisioned"`
}

type ProvisionResponse struct {
	AssistantId   string `json:"assistant_id"`
	AssistantName string `json:"assistant_name"`
	Created       bool   `json:"created"` // false when an existing assistant was reused
}

type ThreadResponse struct {
	ThreadId  string    `json:"thread_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type SwitchThreadRequest struct {
	ThreadId string `json:"thread_id" validate:"required"`
}

type ThreadMessageResponse struct {
	MessageId string `json:"message_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type ThreadHistoryResponse struct {
	ThreadId string                  `json:"thread_id"`
	Messages []ThreadMessageResponse `json:"messages"`
}

type DocumentResponse struct {
	DocumentId string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
}

type AddMemoryRequest struct {
	Content string `json:"content" validate:"required"`
}

type MemoryResponse struct {
	MemoryId string                 `json:"memory_id"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type ChatModelResponse struct {
	Id       string `json:"id"`
	Label    string `json:"label"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Default  bool   `json:"default"`
}
