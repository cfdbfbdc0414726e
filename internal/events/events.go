package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/model"
	"github.com/shareit/shareit-service/pkg/breaker"
)

// BookingEvent is published on every booking lifecycle transition.
type BookingEvent struct {
	EventID    string       `json:"eventId"`
	BookingID  int64        `json:"bookingId"`
	ItemID     int64        `json:"itemId"`
	BookerID   int64        `json:"bookerId"`
	Status     model.Status `json:"status"`
	OccurredAt time.Time    `json:"occurredAt"`
}

type Publisher interface {
	PublishBooking(ctx context.Context, booking model.Booking)
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       *breaker.Breaker
	log      *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		cb:       breaker.New(20, 30*time.Second, 0.5, 3),
		log:      log.Named("events"),
	}
}

// PublishBooking emits the event best-effort: failures are logged and
// never fail the originating request.
func (p *kafkaPublisher) PublishBooking(_ context.Context, booking model.Booking) {
	event := BookingEvent{
		EventID:    uuid.NewString(),
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		BookerID:   booking.BookerID,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal booking event", zap.Error(err))
		return
	}
	err = p.cb.Do(func() error {
		_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(value),
		})
		return err
	})
	switch {
	case errors.Is(err, breaker.ErrOpen):
		p.log.Warn("event broker unavailable, dropping event",
			zap.Int64("bookingID", booking.ID))
	case err != nil:
		p.log.Error("publish booking event",
			zap.Int64("bookingID", booking.ID), zap.Error(err))
	}
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishBooking(context.Context, model.Booking) {}
