package produce

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	PhotoExchange = "photos.exchange"

	OrganizePhotosQueue      = "photos.organize"
	OrganizePhotosRoutingKey = "photos.organize"
)

// OrganizePhotosMessage asks the consumer to run the date-partition organizer
// over one user's blob tree.
type OrganizePhotosMessage struct {
	UserID    string `json:"user_id"`
	Trigger   string `json:"trigger"` // "batch_upload" or "manual"
	Timestamp int64  `json:"timestamp"`
}

// PhotoProduceService publishes photo background jobs.
type PhotoProduceService struct {
	channel *amqp.Channel
}

func InitPhotoProduceService(channel *amqp.Channel) *PhotoProduceService {
	service := &PhotoProduceService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		PhotoExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Photo exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		OrganizePhotosQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Organize Photos queue: " + err.Error())
	}

	err = channel.QueueBind(
		OrganizePhotosQueue,
		OrganizePhotosRoutingKey,
		PhotoExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Organize Photos queue: " + err.Error())
	}

	return service
}

// PublishOrganizePhotos publishes an organize job to the queue.
func (s *PhotoProduceService) PublishOrganizePhotos(ctx context.Context, msg OrganizePhotosMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		PhotoExchange,
		OrganizePhotosRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

// ScheduleOrganize satisfies the batch coordinator's scheduler dependency.
func (s *PhotoProduceService) ScheduleOrganize(ctx context.Context, userID uuid.UUID) error {
	return s.PublishOrganizePhotos(ctx, OrganizePhotosMessage{
		UserID:  userID.String(),
		Trigger: "batch_upload",
	})
}
