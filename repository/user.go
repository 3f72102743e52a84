package repository

import (
	"context"
	"errors"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IncrementStorageUsed applies an atomic delta clamped at zero. The clamp
// guards decrements against drift; overshoot on increments is prevented by
// admission control, not here.
func (r *UserRepository) IncrementStorageUsed(ctx context.Context, id uuid.UUID, delta int64) error {
	result := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumn("storage_used", gorm.Expr("GREATEST(storage_used + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
