package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudstore-app/cloudstore-service/infra"
	"github.com/cloudstore-app/cloudstore-service/infra/produce"
	"github.com/cloudstore-app/cloudstore-service/organizer"
	"github.com/cloudstore-app/cloudstore-service/repository"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// OrganizeConsumer drains the photo organize queue and runs the date-partition
// organizer over the requesting user's blob tree.
type OrganizeConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
	organizer  *organizer.Organizer
}

func NewOrganizeConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *OrganizeConsumer {
	return &OrganizeConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
		organizer: organizer.New(
			infra.Blob,
			infra.Metadata,
			repo.FileRepo,
			repo.PhotoMetadataRepo,
			infra.Logger,
		),
	}
}

func (c *OrganizeConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.OrganizePhotosQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register organize consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Organize Consumer] Started listening on queue: %s", produce.OrganizePhotosQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Organize Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Organize Consumer] Channel closed")
					return
				}
				c.handleOrganize(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *OrganizeConsumer) handleOrganize(ctx context.Context, msg amqp.Delivery) {
	var payload produce.OrganizePhotosMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Organize Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Organize Consumer] Invalid user ID %q: %v", payload.UserID, err)
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Organize Consumer] Organizing photos for user %s (trigger: %s)", userID, payload.Trigger)

	// The organize run is per-file-failure tolerant and reports counters, so
	// the message is acked regardless of how many photos failed.
	report := c.organizer.Organize(ctx, userID)

	c.infra.Logger.InfoWithContextf(ctx, "[Organize Consumer] Done for user %s: organized=%d skipped=%d failed=%d total=%d",
		userID, report.Organized, report.Skipped, report.Failed, report.Total)
	_ = msg.Ack(false)
}
