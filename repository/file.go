package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) FindByPath(ctx context.Context, userID uuid.UUID, filePath string) (*entity.File, error) {
	var file entity.File
	err := r.db.WithContext(ctx).Where("user_id = ? AND file_path = ?", userID, filePath).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.File, error) {
	var files []entity.File
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) FindImagesByUser(ctx context.Context, userID uuid.UUID) ([]entity.File, error) {
	var files []entity.File
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND file_type = ?", userID, entity.FileTypeImage).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindImagesByUserWithMetadata preloads the photo metadata row for each image
// so the by-date grouping can use the capture date without per-file queries.
func (r *FileRepository) FindImagesByUserWithMetadata(ctx context.Context, userID uuid.UUID) ([]entity.File, error) {
	var files []entity.File
	err := r.db.WithContext(ctx).
		Preload("Metadata").
		Where("user_id = ? AND file_type = ?", userID, entity.FileTypeImage).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindByUserSince powers the mobile client's auto-backup poll.
func (r *FileRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]entity.File, error) {
	var files []entity.File
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at > ?", userID, since).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// SummaryByType returns per-category count and total size for one user.
func (r *FileRepository) SummaryByType(ctx context.Context, userID uuid.UUID) ([]entity.TypeSummary, error) {
	var summary []entity.TypeSummary
	err := r.db.WithContext(ctx).Model(&entity.File{}).
		Select("file_type AS type, COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS total_size").
		Where("user_id = ?", userID).
		Group("file_type").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.File{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
