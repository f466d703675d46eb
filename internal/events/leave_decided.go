package events

import "time"

const LeaveDecidedTopic = "leave.request.decided.v1"

const (
	EventTypeLeaveApproved = "leave_approved"
	EventTypeLeaveRejected = "leave_rejected"
)

type LeaveDecidedEvent struct {
	EventType    string    `json:"event_type"`
	LeaveID      string    `json:"leave_id"`
	EmployeeID   string    `json:"employee_id"`
	ReviewerID   string    `json:"reviewer_id"`
	Status       string    `json:"status"`
	DurationDays int       `json:"duration_days"`
	OccurredAt   time.Time `json:"occurred_at"`
}
