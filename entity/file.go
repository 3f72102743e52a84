package entity

import (
	"time"

	"github.com/google/uuid"
)

// FileType is the coarse category derived from the filename extension.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeDocument FileType = "document"
	FileTypeAudio    FileType = "audio"
	FileTypeOther    FileType = "other"
)

// ValidFileType reports whether t is one of the known categories.
func ValidFileType(t FileType) bool {
	switch t {
	case FileTypeImage, FileTypeVideo, FileTypeDocument, FileTypeAudio, FileTypeOther:
		return true
	}
	return false
}

// File is the authoritative record for an uploaded blob. The blob must exist
// on disk before the record is committed; deleting the record removes the
// blob, the thumbnail and the metadata row.
type File struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_filename"`
	OriginalName  string    `json:"original_name" gorm:"type:varchar(255);not null"`
	FileName      string    `json:"file_name" gorm:"type:varchar(255);not null;uniqueIndex:idx_user_filename"`
	FilePath      string    `json:"file_path" gorm:"type:text;not null"`
	ThumbnailPath *string   `json:"thumbnail_path" gorm:"type:text"`
	FileType      FileType  `json:"file_type" gorm:"type:varchar(20);not null;index"`
	FileSize      int64     `json:"file_size" gorm:"not null"`
	IsPublic      bool      `json:"is_public" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Metadata *PhotoMetadata `json:"metadata,omitempty" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

// TypeSummary is one row of the per-type aggregate (count and total bytes).
type TypeSummary struct {
	Type      FileType `json:"type"`
	Count     int64    `json:"count"`
	TotalSize int64    `json:"totalSize"`
}
