package mapper

import (
	"encoding/json"
	"time"

	"concierge-be/internal/entity"
	"concierge-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Assistant Mappers

func (m *SessionMapper) UserAssistantToEntity(a *model.UserAssistant) *entity.UserAssistant {
	if a == nil {
		return nil
	}

	var embedding entity.EmbeddingConfig
	if len(a.Embedding) > 0 {
		// Rows written before embedding config was recorded stay zero-valued.
		_ = json.Unmarshal(a.Embedding, &embedding)
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserAssistant{
		UserId:        a.UserId,
		AssistantId:   a.AssistantId,
		AssistantName: a.AssistantName,
		Embedding:     embedding,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *SessionMapper) UserAssistantToModel(a *entity.UserAssistant) *model.UserAssistant {
	if a == nil {
		return nil
	}

	embedding, _ := json.Marshal(a.Embedding)

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.UserAssistant{
		UserId:        a.UserId,
		AssistantId:   a.AssistantId,
		AssistantName: a.AssistantName,
		Embedding:     datatypes.JSON(embedding),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

// Thread Mappers

func (m *SessionMapper) UserThreadToEntity(t *model.UserThread) *entity.UserThread {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.UserThread{
		UserId:    t.UserId,
		ThreadId:  t.ThreadId,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SessionMapper) UserThreadToModel(t *entity.UserThread) *model.UserThread {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.UserThread{
		UserId:    t.UserId,
		ThreadId:  t.ThreadId,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
