package dto

import (
	"time"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
)

// FileView is the descriptor the mobile client caches locally. The shape
// (name/size/type/isUploaded/thumbnailUrl) is part of the client contract.
type FileView struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Size         int64           `json:"size"`
	Type         entity.FileType `json:"type"`
	Path         string          `json:"path"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	UserID       uuid.UUID       `json:"userId"`
	IsUploaded   bool            `json:"isUploaded"`
	ThumbnailURL *string         `json:"thumbnailUrl"`
}

func NewFileView(file *entity.File) FileView {
	return FileView{
		ID:           file.ID,
		Name:         file.OriginalName,
		Size:         file.FileSize,
		Type:         file.FileType,
		Path:         file.FilePath,
		CreatedAt:    file.CreatedAt,
		UpdatedAt:    file.UpdatedAt,
		UserID:       file.UserID,
		IsUploaded:   true,
		ThumbnailURL: file.ThumbnailPath,
	}
}

func NewFileViews(files []entity.File) []FileView {
	views := make([]FileView, 0, len(files))
	for i := range files {
		views = append(views, NewFileView(&files[i]))
	}
	return views
}

type BatchUploadResponse struct {
	Succeeded   []FileView `json:"succeeded"`
	FailedCount int        `json:"failedCount"`
}

type MetadataView struct {
	FileID        uuid.UUID  `json:"fileId"`
	DateTaken     *time.Time `json:"dateTaken"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	CameraModel   *string    `json:"cameraModel"`
	Resolution    *string    `json:"resolution"`
	Organized     bool       `json:"organized"`
	OrganizedPath *string    `json:"organizedPath"`
}

func NewMetadataView(meta *entity.PhotoMetadata) MetadataView {
	return MetadataView{
		FileID:        meta.FileID,
		DateTaken:     meta.DateTaken,
		Latitude:      meta.Latitude,
		Longitude:     meta.Longitude,
		CameraModel:   meta.CameraModel,
		Resolution:    meta.Resolution,
		Organized:     meta.Organized,
		OrganizedPath: meta.OrganizedPath,
	}
}

// PhotoGroup is one day's worth of photos in the by-date listing.
type PhotoGroup struct {
	Date   string     `json:"date"` // YYYY-MM-DD
	Photos []FileView `json:"photos"`
}

type SyncStatusResponse struct {
	Since       *time.Time `json:"since"`
	PendingNone bool       `json:"upToDate"`
	NewCount    int        `json:"newCount"`
	NewBytes    int64      `json:"newBytes"`
}
