package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PhotoMetadata holds the best-effort enrichment for an image file. Absence of
// this row is not an error state for the owning File.
type PhotoMetadata struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	FileID        uuid.UUID      `json:"file_id" gorm:"type:uuid;not null;uniqueIndex"`
	DateTaken     *time.Time     `json:"date_taken"`
	Latitude      *float64       `json:"latitude" gorm:"type:decimal(10,7)"`
	Longitude     *float64       `json:"longitude" gorm:"type:decimal(10,7)"`
	CameraModel   *string        `json:"camera_model" gorm:"type:varchar(255)"`
	Resolution    *string        `json:"resolution" gorm:"type:varchar(32)"`
	Organized     bool           `json:"organized" gorm:"not null;default:false"`
	OrganizedPath *string        `json:"organized_path" gorm:"type:text"`
	Raw           datatypes.JSON `json:"-"`
	CreatedAt     time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}
