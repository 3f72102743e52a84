package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	calls []uuid.UUID
	err   error
}

func (s *fakeScheduler) ScheduleOrganize(_ context.Context, userID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, userID)
	return nil
}

func newBatchFixture(t *testing.T, limit int64, maxFiles int) (*pipelineFixture, *BatchCoordinator, *fakeScheduler) {
	t.Helper()
	f := newPipelineFixture(t, limit)
	scheduler := &fakeScheduler{}
	coordinator := NewBatchCoordinator(f.pipeline, f.users, maxFiles, nopLogger{}, scheduler)
	return f, coordinator, scheduler
}

func TestBatchEmptyIsNoop(t *testing.T) {
	f, coordinator, _ := newBatchFixture(t, 1024, 20)

	result, err := coordinator.Ingest(context.Background(), f.user.ID, nil, false)
	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	assert.Zero(t, result.FailedCount)
	assert.Zero(t, result.BytesCommitted)
}

func TestBatchRejectsTooManyFiles(t *testing.T) {
	f, coordinator, _ := newBatchFixture(t, 1024, 2)

	uploads := []Upload{upload("a.txt", "x"), upload("b.txt", "y"), upload("c.txt", "z")}
	_, err := coordinator.Ingest(context.Background(), f.user.ID, uploads, false)
	assert.True(t, errors.Is(err, ErrTooManyFiles))

	// Rejected before any processing.
	assert.Equal(t, int64(0), f.blobs.SubtreeSize(f.blobs.UserDir(f.user.ID)))
}

func TestBatchUserNotFound(t *testing.T) {
	_, coordinator, _ := newBatchFixture(t, 1024, 20)

	_, err := coordinator.Ingest(context.Background(), uuid.New(), []Upload{upload("a.txt", "x")}, false)
	assert.True(t, IsKind(err, KindUserNotFound))
}

func TestBatchAdmissionIsAllOrNothing(t *testing.T) {
	f, coordinator, _ := newBatchFixture(t, 10, 20)

	// Each file fits individually; the declared total does not.
	uploads := []Upload{
		upload("a.txt", "123456"),
		upload("b.txt", "123456"),
	}
	_, err := coordinator.Ingest(context.Background(), f.user.ID, uploads, false)
	assert.True(t, IsKind(err, KindOverQuota))

	assert.Equal(t, int64(0), f.blobs.SubtreeSize(f.blobs.UserDir(f.user.ID)))
	assert.Empty(t, f.files.created)
	assert.Equal(t, int64(0), f.users.increments[f.user.ID])
}

func TestBatchToleratesPartialFailure(t *testing.T) {
	f, coordinator, _ := newBatchFixture(t, 1024, 20)
	f.files.failOnName["doc2.txt"] = true

	var uploads []Upload
	for i := 0; i < 5; i++ {
		uploads = append(uploads, upload(fmt.Sprintf("doc%d.txt", i), "12345"))
	}

	result, err := coordinator.Ingest(context.Background(), f.user.ID, uploads, false)
	require.NoError(t, err)

	assert.Len(t, result.Succeeded, 4)
	assert.Equal(t, 1, result.FailedCount)
	// Only the bytes of files that made it are committed.
	assert.Equal(t, int64(20), result.BytesCommitted)
	assert.Equal(t, int64(20), f.users.increments[f.user.ID])
	// The failed file's blob was rolled back.
	assert.Equal(t, int64(20), f.blobs.SubtreeSize(f.blobs.UserDir(f.user.ID)))
}

func TestBatchSchedulesOrganizeWhenRequested(t *testing.T) {
	f, coordinator, scheduler := newBatchFixture(t, 1024, 20)

	_, err := coordinator.Ingest(context.Background(), f.user.ID, []Upload{upload("a.txt", "x")}, true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.user.ID}, scheduler.calls)

	// Not requested: no scheduling.
	_, err = coordinator.Ingest(context.Background(), f.user.ID, []Upload{upload("b.txt", "y")}, false)
	require.NoError(t, err)
	assert.Len(t, scheduler.calls, 1)
}

func TestBatchSchedulerFailureDoesNotFailBatch(t *testing.T) {
	f, coordinator, scheduler := newBatchFixture(t, 1024, 20)
	scheduler.err = errors.New("broker down")

	result, err := coordinator.Ingest(context.Background(), f.user.ID, []Upload{upload("a.txt", "x")}, true)
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 1)
}

func TestBatchAllFilesFailCommitsNothing(t *testing.T) {
	f, coordinator, _ := newBatchFixture(t, 1024, 20)
	f.files.failOnName["a.txt"] = true
	f.files.failOnName["b.txt"] = true

	result, err := coordinator.Ingest(context.Background(), f.user.ID, []Upload{upload("a.txt", "x"), upload("b.txt", "y")}, false)
	require.NoError(t, err)

	assert.Empty(t, result.Succeeded)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, int64(0), f.users.increments[f.user.ID])
}
