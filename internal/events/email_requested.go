package events

import "time"

const EmailRequestedTopic = "leave.email.requested.v1"

// Email kinds carried on the email topic.
const (
	EmailKindAccountVerification = "account_verification"
	EmailKindPasswordOTP         = "password_otp"
	EmailKindLeaveDecided        = "leave_decided"
)

// EmailRequestedEvent asks the mail consumer to deliver one email. Kind
// selects the template; the Data map carries template values (token, otp,
// leave dates, decision).
type EmailRequestedEvent struct {
	EventType  string            `json:"event_type"`
	Kind       string            `json:"kind"`
	Recipient  string            `json:"recipient"`
	Name       string            `json:"name"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
