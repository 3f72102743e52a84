package ingest

import (
	"context"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
)

// The pipeline takes its collaborators as narrow interfaces so tests can
// substitute in-memory fakes; the gorm repositories satisfy them in
// production.

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// IncrementStorageUsed must be an atomic delta clamped at zero, not a
	// read-then-write of a previously fetched snapshot.
	IncrementStorageUsed(ctx context.Context, id uuid.UUID, delta int64) error
}

type FileStore interface {
	Create(ctx context.Context, file *entity.File) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type MetadataStore interface {
	Create(ctx context.Context, meta *entity.PhotoMetadata) error
}

// Logger is the slice of infra.LoggerClient the pipeline needs.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// OrganizeScheduler queues a background organize run after a batch; outcomes
// are observed via logs, never via the batch response.
type OrganizeScheduler interface {
	ScheduleOrganize(ctx context.Context, userID uuid.UUID) error
}
