package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler processes one decoded booking event.
type EventHandler func(context.Context, BookingEvent) error

type Consumer struct {
	reader *kafka.Reader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log.With(zap.String("topic", topic)),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is canceled. Messages that do not decode and
// events the handler fails on are logged and committed, so one bad message
// or a transient handler failure cannot stall the group.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		c.handle(ctx, msg, handler)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message, handler EventHandler) {
	event, err := DecodeBookingEvent(msg)
	if err != nil {
		c.log.Warn("skip undecodable event",
			zap.Int64("offset", msg.Offset),
			zap.String("key", string(msg.Key)),
			zap.Error(err),
		)
		return
	}

	if err := handler(ctx, event); err != nil {
		c.log.Error("handle event",
			zap.Int64("offset", msg.Offset),
			zap.String("event_id", event.EventID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

// DecodeBookingEvent unmarshals a message value produced by Producer.
func DecodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	err := json.Unmarshal(msg.Value, &event)
	return event, err
}
