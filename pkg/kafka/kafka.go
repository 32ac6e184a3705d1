package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	IssueEventsTopic        = "library.issue-events"
	IssueAuditConsumerGroup = "library-issue-audit"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

type EventType string

const (
	EventRequestSubmitted EventType = "REQUEST_SUBMITTED"
	EventRequestApproved  EventType = "REQUEST_APPROVED"
	EventRequestRejected  EventType = "REQUEST_REJECTED"
	EventLoanCancelled    EventType = "LOAN_CANCELLED"
	EventRequestsPurged   EventType = "REQUESTS_PURGED"
)

// IssueEvent is the envelope published after a lifecycle change is committed.
type IssueEvent struct {
	EventID   string    `json:"eventId"`
	Type      EventType `json:"type"`
	RequestID string    `json:"requestId,omitempty"`
	LoanID    string    `json:"loanId,omitempty"`
	StudentID string    `json:"studentId,omitempty"`
	BookID    string    `json:"bookId,omitempty"`
	Count     int64     `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer group loop until ctx is done, rejoining after every rebalance.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("kafka.Consume", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
