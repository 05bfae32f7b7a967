package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Santatra-A/leave-management/internal/config"
	"github.com/Santatra-A/leave-management/internal/events"
	"github.com/Santatra-A/leave-management/internal/mailer"
	"github.com/Santatra-A/leave-management/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer reads email request events from Kafka and delivers them over
// SMTP until interrupted.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	smtpMailer := mailer.NewSMTPMailer(cfg)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmailRequestedTopic,
		GroupID:        "leave-management-email",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmailRequested(ctx, reader, smtpMailer, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
