package repository

import (
	"context"
	"errors"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoMetadataRepository struct {
	db *gorm.DB
}

func NewPhotoMetadataRepository(db *gorm.DB) *PhotoMetadataRepository {
	return &PhotoMetadataRepository{db: db}
}

func (r *PhotoMetadataRepository) Create(ctx context.Context, meta *entity.PhotoMetadata) error {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(meta).Error
}

func (r *PhotoMetadataRepository) FindByFileID(ctx context.Context, fileID uuid.UUID) (*entity.PhotoMetadata, error) {
	var meta entity.PhotoMetadata
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &meta, nil
}

func (r *PhotoMetadataRepository) MarkOrganized(ctx context.Context, fileID uuid.UUID, organizedPath string) error {
	result := r.db.WithContext(ctx).Model(&entity.PhotoMetadata{}).
		Where("file_id = ?", fileID).
		Updates(map[string]interface{}{
			"organized":      true,
			"organized_path": organizedPath,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *PhotoMetadataRepository) DeleteByFileID(ctx context.Context, fileID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PhotoMetadata{}, "file_id = ?", fileID).Error
}
