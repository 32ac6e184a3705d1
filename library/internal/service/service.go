package service

import (
	"time"

	"github.com/Astemirdum/library-issue-service/library/internal/repository"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	events   Publisher
	tokens   *auth.TokenManager
	adminKey string
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used for request, loan and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, events Publisher, tokens *auth.TokenManager, adminKey string, log *zap.Logger, opts ...Option) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	s := &Service{
		log:      log.Named("service"),
		repo:     repo,
		events:   events,
		tokens:   tokens,
		adminKey: adminKey,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
