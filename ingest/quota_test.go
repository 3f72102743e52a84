package ingest

import (
	"context"
	"testing"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAdmission(t *testing.T) {
	ledger := NewQuotaLedger(newFakeUserStore())
	user := &entity.User{ID: uuid.New(), StorageUsed: 90, StorageLimit: 100}

	// Exactly filling the quota is admitted; one byte more is not.
	assert.NoError(t, ledger.CheckAdmission(user, 10))
	err := ledger.CheckAdmission(user, 11)
	assert.True(t, IsKind(err, KindOverQuota))

	assert.NoError(t, ledger.CheckAdmission(user, 0))
}

func TestCommitAndRelease(t *testing.T) {
	user := &entity.User{ID: uuid.New(), StorageUsed: 0, StorageLimit: 100}
	users := newFakeUserStore(user)
	ledger := NewQuotaLedger(users)
	ctx := context.Background()

	require.NoError(t, ledger.Commit(ctx, user.ID, 40))
	assert.Equal(t, int64(40), users.increments[user.ID])

	require.NoError(t, ledger.Release(ctx, user.ID, 15))
	assert.Equal(t, int64(25), users.increments[user.ID])
}

func TestCommitUnknownUser(t *testing.T) {
	ledger := NewQuotaLedger(newFakeUserStore())
	err := ledger.Commit(context.Background(), uuid.New(), 10)
	assert.Error(t, err)
}
