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

type UserThreadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewUserThreadRepository(db *gorm.DB) contract.UserThreadRepository {
	return &UserThreadRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *UserThreadRepositoryImpl) Upsert(ctx context.Context, thread *entity.UserThread) error {
	m := r.mapper.UserThreadToModel(thread)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"thread_id", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*thread = *r.mapper.UserThreadToEntity(m)
	return nil
}

func (r *UserThreadRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserThread, error) {
	var m model.UserThread
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserThreadToEntity(&m), nil
}

func (r *UserThreadRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserThread{}).Error
}
