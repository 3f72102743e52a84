package ingest

import (
	"context"
	"fmt"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
)

// QuotaLedger enforces admission control against a user snapshot and commits
// byte deltas through the atomic store primitive.
type QuotaLedger struct {
	users UserStore
}

func NewQuotaLedger(users UserStore) *QuotaLedger {
	return &QuotaLedger{users: users}
}

// CheckAdmission is a pure check against the snapshot; it must run before any
// blob write whose success is still uncertain.
func (l *QuotaLedger) CheckAdmission(user *entity.User, incomingBytes int64) error {
	if user.StorageUsed+incomingBytes > user.StorageLimit {
		return newError(KindOverQuota, fmt.Errorf(
			"storage limit exceeded: used %d + incoming %d > limit %d",
			user.StorageUsed, incomingBytes, user.StorageLimit))
	}
	return nil
}

// Commit applies a byte delta. The storage layer clamps at zero on
// decrements, so accounting drift never underflows.
func (l *QuotaLedger) Commit(ctx context.Context, userID uuid.UUID, deltaBytes int64) error {
	return l.users.IncrementStorageUsed(ctx, userID, deltaBytes)
}

// Release gives bytes back after a delete.
func (l *QuotaLedger) Release(ctx context.Context, userID uuid.UUID, bytes int64) error {
	return l.users.IncrementStorageUsed(ctx, userID, -bytes)
}
