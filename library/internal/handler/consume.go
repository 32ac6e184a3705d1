package handler

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/library-issue-service/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type recordEvent func(ctx context.Context, event kafka.IssueEvent) error

// Consumer stores lifecycle events from kafka into the audit table.
type Consumer struct {
	recordEventHandler recordEvent
	log                *zap.Logger
}

func NewConsumer(record recordEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		recordEventHandler: record,
		log:                log.Named("consumer"),
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.IssueEvent
			if err := json.Unmarshal(message.Value, &event); err != nil || event.EventID == "" {
				consumer.log.Error("malformed issue event", zap.Error(err), zap.ByteString("value", message.Value))
				session.MarkMessage(message, "")
				continue
			}

			// A failed save ends the session; marking a later offset would commit past it.
			if err := consumer.recordEventHandler(session.Context(), event); err != nil {
				consumer.log.Error("consumer.recordEventHandler", zap.Error(err),
					zap.String("eventId", event.EventID), zap.Int64("offset", message.Offset))
				return errors.Wrapf(err, "record event %s", event.EventID)
			}

			consumer.log.Debug("Message claimed:", zap.String("type", string(event.Type)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
