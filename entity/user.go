package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStorageLimit is the quota assigned to newly provisioned accounts (5 GiB).
const DefaultStorageLimit int64 = 5 * 1024 * 1024 * 1024

// User rows are provisioned by the external auth service. This service only
// reads them for admission control and adjusts storage_used through an atomic
// delta (see repository.UserRepository.IncrementStorageUsed).
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"type:varchar(255);not null"`
	StorageUsed  int64     `json:"storage_used" gorm:"not null;default:0"`
	StorageLimit int64     `json:"storage_limit" gorm:"not null;default:5368709120"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Files []File `json:"files,omitempty" gorm:"foreignKey:UserID"`
}

// StorageRemaining never reports a negative value, even if accounting drifted.
func (u *User) StorageRemaining() int64 {
	if u.StorageUsed >= u.StorageLimit {
		return 0
	}
	return u.StorageLimit - u.StorageUsed
}
