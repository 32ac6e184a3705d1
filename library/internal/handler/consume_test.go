package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-issue-service/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32 {
	return nil
}

func (s *fakeSession) MemberID() string {
	return "member"
}

func (s *fakeSession) GenerationID() int32 {
	return 1
}

func (s *fakeSession) MarkOffset(string, int32, int64, string) {}

func (s *fakeSession) Commit() {}

func (s *fakeSession) ResetOffset(string, int32, int64, string) {}

func (s *fakeSession) Context() context.Context {
	return s.ctx
}

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	msgs chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string {
	return kafka.IssueEventsTopic
}

func (c *fakeClaim) Partition() int32 {
	return 0
}

func (c *fakeClaim) InitialOffset() int64 {
	return 0
}

func (c *fakeClaim) HighWaterMarkOffset() int64 {
	return 0
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.msgs
}

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()

	good := kafka.IssueEvent{EventID: "01HF0000000000000000000000", Type: kafka.EventRequestApproved, Timestamp: time.Now()}
	failing := kafka.IssueEvent{EventID: "01HF0000000000000000000001", Type: kafka.EventLoanCancelled, Timestamp: time.Now()}
	encode := func(e kafka.IssueEvent) []byte {
		b, err := json.Marshal(e)
		require.NoError(t, err)
		return b
	}

	var (
		mu       sync.Mutex
		recorded []string
	)
	record := func(_ context.Context, e kafka.IssueEvent) error {
		if e.EventID == failing.EventID {
			return errors.New("db down")
		}
		mu.Lock()
		defer mu.Unlock()
		recorded = append(recorded, e.EventID)
		return nil
	}

	later := kafka.IssueEvent{EventID: "01HF0000000000000000000002", Type: kafka.EventRequestSubmitted, Timestamp: time.Now()}

	claim := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage, 4)}
	claim.msgs <- &sarama.ConsumerMessage{Offset: 1, Value: encode(good)}
	claim.msgs <- &sarama.ConsumerMessage{Offset: 2, Value: []byte("not json")}
	claim.msgs <- &sarama.ConsumerMessage{Offset: 3, Value: encode(failing)}
	claim.msgs <- &sarama.ConsumerMessage{Offset: 4, Value: encode(later)}
	close(claim.msgs)

	session := &fakeSession{ctx: context.Background()}
	consumer := NewConsumer(record, zap.NewNop())
	require.NoError(t, consumer.Setup(session))
	err := consumer.ConsumeClaim(session, claim)
	require.ErrorContains(t, err, failing.EventID)
	require.NoError(t, consumer.Cleanup(session))

	require.Equal(t, []string{good.EventID}, recorded)
	// the failed save stops the claim so nothing after it is marked
	require.Equal(t, []int64{1, 2}, session.marked)
	require.Len(t, claim.msgs, 1)
}

func TestConsumer_ConsumeClaim_StopsOnContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	claim := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage)}
	session := &fakeSession{ctx: ctx}
	consumer := NewConsumer(func(context.Context, kafka.IssueEvent) error { return nil }, zap.NewNop())

	require.NoError(t, consumer.ConsumeClaim(session, claim))
	require.Empty(t, session.marked)
}
