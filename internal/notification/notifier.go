package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"leaveflow/internal/events"
)

// Notifier delivers decision notices to the employee who filed the
// request. The log implementation stands in for a mail or chat gateway;
// swapping delivery channels only needs a new implementation here.
type Notifier interface {
	NotifyLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification")
	}
	return &logNotifier{logger: l}
}

func (n *logNotifier) NotifyLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	if event.LeaveID == "" || event.EmployeeID == "" {
		return fmt.Errorf("notification event missing ids: leave=%q employee=%q", event.LeaveID, event.EmployeeID)
	}

	n.logger.Info("leave decision notice",
		zap.String("leave_id", event.LeaveID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("reviewer_id", event.ReviewerID),
		zap.String("status", event.Status),
		zap.Int("duration_days", event.DurationDays),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
