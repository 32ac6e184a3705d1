package service

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/pkg/circuit_breaker"
	"github.com/Astemirdum/library-issue-service/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Publisher ships lifecycle events after the change is committed. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, event kafka.IssueEvent)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, kafka.IssueEvent) {}

type eventPublisher struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	topic    string
	log      *zap.Logger
}

func NewEventPublisher(producer sarama.SyncProducer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) Publisher {
	return &eventPublisher{
		producer: producer,
		cb:       cb,
		topic:    kafka.IssueEventsTopic,
		log:      log.Named("publisher"),
	}
}

func (p *eventPublisher) Publish(_ context.Context, event kafka.IssueEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("json.Marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.BookID),
		Value: sarama.ByteEncoder(data),
	}
	err = p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
	if err != nil {
		p.log.Warn("publish issue event",
			zap.String("type", string(event.Type)),
			zap.String("eventId", event.EventID),
			zap.Stringer("cb", p.cb.State()),
			zap.Error(err))
	}
}

func (s *Service) newEvent(typ kafka.EventType) kafka.IssueEvent {
	return kafka.IssueEvent{
		EventID:   ulid.Make().String(),
		Type:      typ,
		Timestamp: s.now(),
	}
}

func requestEvent(e kafka.IssueEvent, req model.IssueRequest) kafka.IssueEvent {
	e.RequestID = req.ID.String()
	e.StudentID = req.StudentID.String()
	e.BookID = req.BookID.String()
	return e
}

// RecordEvent stores an event delivered by the audit consumer.
func (s *Service) RecordEvent(ctx context.Context, event kafka.IssueEvent) error {
	return s.repo.SaveEvent(ctx, model.IssueEvent{
		EventID:   event.EventID,
		Type:      string(event.Type),
		RequestID: parseOptionalID(event.RequestID),
		LoanID:    parseOptionalID(event.LoanID),
		StudentID: parseOptionalID(event.StudentID),
		BookID:    parseOptionalID(event.BookID),
		Count:     event.Count,
		Timestamp: event.Timestamp,
	})
}

const defaultEventsLimit = 100

func (s *Service) ListEvents(ctx context.Context, limit int) ([]model.IssueEvent, error) {
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	return s.repo.ListEvents(ctx, limit)
}

func parseOptionalID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
