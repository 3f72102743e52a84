package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
)

// BatchResult aggregates per-file outcomes. Partial failure is not an error:
// failed files are counted and excluded from Succeeded.
type BatchResult struct {
	Succeeded      []*Result
	FailedCount    int
	BytesCommitted int64
}

// BatchCoordinator drives the pipeline over up to maxFiles uploads in one
// call. Admission is all-or-nothing over the declared total; processing and
// the final quota commit are per-file-failure tolerant.
type BatchCoordinator struct {
	pipeline  *Pipeline
	users     UserStore
	maxFiles  int
	logger    Logger
	scheduler OrganizeScheduler
}

func NewBatchCoordinator(pipeline *Pipeline, users UserStore, maxFiles int, logger Logger, scheduler OrganizeScheduler) *BatchCoordinator {
	if maxFiles <= 0 {
		maxFiles = 20
	}
	return &BatchCoordinator{
		pipeline:  pipeline,
		users:     users,
		maxFiles:  maxFiles,
		logger:    logger,
		scheduler: scheduler,
	}
}

func (c *BatchCoordinator) Ingest(ctx context.Context, userID uuid.UUID, uploads []Upload, autoOrganize bool) (*BatchResult, error) {
	if len(uploads) == 0 {
		return &BatchResult{}, nil
	}
	if len(uploads) > c.maxFiles {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyFiles, len(uploads), c.maxFiles)
	}

	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, newError(KindUserNotFound, err)
		}
		return nil, newError(KindStoreFailed, err)
	}

	var total int64
	for _, up := range uploads {
		total += up.Size
	}
	if err := c.pipeline.Ledger().CheckAdmission(user, total); err != nil {
		// Whole-batch admission: nothing has been written yet, nothing to
		// clean up.
		return nil, err
	}

	result := &BatchResult{}
	for _, up := range uploads {
		res, err := c.pipeline.IngestForBatch(ctx, user, up)
		if err != nil {
			c.logger.WarningWithContextf(ctx, "[Batch] File %q failed: %v", up.OriginalName, err)
			result.FailedCount++
			continue
		}
		result.Succeeded = append(result.Succeeded, res)
		result.BytesCommitted += res.BytesStored
	}

	// Commit only the bytes of files that actually made it, not the declared
	// total.
	if result.BytesCommitted > 0 {
		if err := c.pipeline.Ledger().Commit(ctx, userID, result.BytesCommitted); err != nil {
			c.logger.ErrorWithContextf(ctx, err, "[Batch] Quota commit of %d bytes failed for user %s", result.BytesCommitted, userID)
			return nil, newError(KindStoreFailed, fmt.Errorf("commit quota: %w", err))
		}
	}

	if autoOrganize && c.scheduler != nil && len(result.Succeeded) > 0 {
		if err := c.scheduler.ScheduleOrganize(ctx, userID); err != nil {
			// Fire-and-forget: scheduling failure never fails the batch.
			c.logger.WarningWithContextf(ctx, "[Batch] Failed to schedule organize for user %s: %v", userID, err)
		}
	}

	return result, nil
}
