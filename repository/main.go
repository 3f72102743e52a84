package repository

import (
	"github.com/cloudstore-app/cloudstore-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	UserRepo          *UserRepository
	FileRepo          *FileRepository
	PhotoMetadataRepo *PhotoMetadataRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		UserRepo:          NewUserRepository(infra.Postgres.DB),
		FileRepo:          NewFileRepository(infra.Postgres.DB),
		PhotoMetadataRepo: NewPhotoMetadataRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		UserRepo:          NewUserRepository(tx),
		FileRepo:          NewFileRepository(tx),
		PhotoMetadataRepo: NewPhotoMetadataRepository(tx),
	}
}
