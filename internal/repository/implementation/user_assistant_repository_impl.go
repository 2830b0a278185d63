package implementation

import (
	"context"
	"errors"

	"concierge-be/internal/entity"
	"concierge-be/internal/mapper"
	"concierge-be/internal/model"
	"concierge-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserAssistantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewUserAssistantRepository(db *gorm.DB) contract.UserAssistantRepository {
	return &UserAssistantRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *UserAssistantRepositoryImpl) Upsert(ctx context.Context, assistant *entity.UserAssistant) error {
	m := r.mapper.UserAssistantToModel(assistant)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"assistant_id", "assistant_name", "embedding", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*assistant = *r.mapper.UserAssistantToEntity(m)
	return nil
}

func (r *UserAssistantRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserAssistant, error) {
	var m model.UserAssistant
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserAssistantToEntity(&m), nil
}

func (r *UserAssistantRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserAssistant{}).Error
}
