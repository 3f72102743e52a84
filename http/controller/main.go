package controller

import (
	"github.com/cloudstore-app/cloudstore-service/config"
	"github.com/cloudstore-app/cloudstore-service/infra"
	"github.com/cloudstore-app/cloudstore-service/ingest"
	"github.com/cloudstore-app/cloudstore-service/organizer"
	"github.com/cloudstore-app/cloudstore-service/repository"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository

	Pipeline  *ingest.Pipeline
	Batch     *ingest.BatchCoordinator
	Organizer *organizer.Organizer
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}

	pipeline := ingest.NewPipeline(
		infra.Blob,
		infra.Thumbnailer,
		infra.Metadata,
		repo.UserRepo,
		repo.FileRepo,
		repo.PhotoMetadataRepo,
		infra.Logger,
	)

	batch := ingest.NewBatchCoordinator(
		pipeline,
		repo.UserRepo,
		config.EnvConfig.Storage.MaxBatchFiles,
		infra.Logger,
		infra.Produce.PhotoService,
	)

	org := organizer.New(
		infra.Blob,
		infra.Metadata,
		repo.FileRepo,
		repo.PhotoMetadataRepo,
		infra.Logger,
	)

	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Pipeline:   pipeline,
		Batch:      batch,
		Organizer:  org,
	}
}
