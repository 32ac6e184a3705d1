package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-issue-service/library/config"
	"github.com/Astemirdum/library-issue-service/library/internal/handler"
	"github.com/Astemirdum/library-issue-service/library/internal/repository"
	"github.com/Astemirdum/library-issue-service/library/internal/server"
	"github.com/Astemirdum/library-issue-service/library/internal/service"
	"github.com/Astemirdum/library-issue-service/library/migrations"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/Astemirdum/library-issue-service/pkg/circuit_breaker"
	"github.com/Astemirdum/library-issue-service/pkg/kafka"
	"github.com/Astemirdum/library-issue-service/pkg/logger"
	"github.com/Astemirdum/library-issue-service/pkg/postgres"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	if cfg.Auth.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		publisher     service.Publisher = service.NopPublisher{}
		producer      sarama.SyncProducer
		consumerGroup sarama.ConsumerGroup
	)
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		publisher = service.NewEventPublisher(producer, circuit_breaker.New(cfg.CircuitBreaker), log)
	} else {
		log.Warn("KAFKA_ADDRS is empty, lifecycle events are not published")
	}

	tokens := auth.NewTokenManager(cfg.Auth)
	svc := service.NewService(repo, publisher, tokens, cfg.Auth.AdminKey, log)

	if cfg.Kafka.Enabled() {
		consumerGroup, err = kafka.NewConsumer(cfg.Kafka, kafka.IssueAuditConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		go kafka.Consume(ctx, consumerGroup, handler.NewConsumer(svc.RecordEvent, log), log, kafka.IssueEventsTopic)
	}

	h := handler.New(svc, tokens, log)
	srv := server.NewServer(cfg.Server, h.NewRouter(cfg.Log))
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if consumerGroup != nil {
		if err = consumerGroup.Close(); err != nil {
			log.Error("consumerGroup.Close", zap.Error(err))
		}
	}
	if producer != nil {
		if err = producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
