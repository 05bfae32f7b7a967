package events

import "time"

const LeaveDecidedTopic = "leave.request.decided.v1"

type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	DaysTaken  int       `json:"days_taken"`
	OccurredAt time.Time `json:"occurred_at"`
}
