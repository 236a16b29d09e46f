package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/wcewong/paygen/internal/events"
	"github.com/wcewong/paygen/internal/messaging/kafka"
	"github.com/wcewong/paygen/internal/messaging/kafka/consumer"
	"github.com/wcewong/paygen/internal/payslip"
	"github.com/wcewong/paygen/internal/shared/config"
	"github.com/wcewong/paygen/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer generates payslips from payslip requested events until
// SIGINT/SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.MaxDBRetries,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.MaxDBRetries)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	payslipRepo := payslip.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	payslipService := payslip.NewServiceWithOutbox(sqlDB, payslipRepo, outboxRepo, rdb, cfg.DefaultCurrency)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.PayslipRequestedTopic,
		GroupID:        cfg.ConsumerGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumePayslipRequested(ctx, reader, payslipService, logger)

	logger.Info("consumer shutting down")
	return nil
}
