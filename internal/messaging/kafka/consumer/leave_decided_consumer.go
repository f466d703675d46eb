package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"leaveflow/internal/events"
	"leaveflow/internal/notification"
)

func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// A malformed payload never becomes valid on redelivery.
			log.Error("decode leave decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveDecided(ctx, event); err != nil {
			log.Error("deliver leave decision notice failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision notice delivered",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("status", event.Status),
		)
	}
}
