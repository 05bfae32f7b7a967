package consumer

import (
	"context"
	"encoding/json"

	"github.com/Santatra-A/leave-management/internal/events"
	"github.com/Santatra-A/leave-management/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmailRequested reads email requests off the topic and delivers
// them over SMTP. Undeliverable messages are left uncommitted so the
// broker redelivers them; malformed payloads are committed and dropped.
func ConsumeEmailRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	m mailer.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.email_requested")
	log.Info("email consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("email consumer stopped")
				return
			}
			log.Error("fetch email message failed", zap.Error(err))
			continue
		}

		var event events.EmailRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode email_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := m.Send(ctx, event); err != nil {
			log.Error("send email failed",
				zap.String("kind", event.Kind),
				zap.String("recipient", event.Recipient),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit email message failed", zap.Error(err))
			continue
		}

		log.Info("email delivered",
			zap.String("kind", event.Kind),
			zap.String("recipient", event.Recipient),
		)
	}
}
