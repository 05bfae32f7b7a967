// Package mailer sends transactional emails over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/Santatra-A/leave-management/internal/config"
	"github.com/Santatra-A/leave-management/internal/events"

	"github.com/wneessen/go-mail"
)

// Mailer delivers one email per requested event.
type Mailer interface {
	Send(ctx context.Context, event events.EmailRequestedEvent) error
}

type smtpMailer struct {
	host    string
	port    int
	user    string
	pass    string
	from    string
	baseURL string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		user:    cfg.SMTPUser,
		pass:    cfg.SMTPPass,
		from:    cfg.SMTPFrom,
		baseURL: cfg.BaseURL,
	}
}

func (m *smtpMailer) Send(ctx context.Context, event events.EmailRequestedEvent) error {
	subject, body, err := renderEmail(m.baseURL, event)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(event.Recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

func renderEmail(baseURL string, event events.EmailRequestedEvent) (string, string, error) {
	switch event.Kind {
	case events.EmailKindAccountVerification:
		link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", baseURL, event.Data["token"])
		body := fmt.Sprintf(
			"Hello %s,\n\nWelcome aboard. Please confirm your email address by opening the link below:\n\n%s\n\nIf you did not create this account you can ignore this message.\n",
			event.Name, link,
		)
		return "Verify your account", body, nil

	case events.EmailKindPasswordOTP:
		body := fmt.Sprintf(
			"Hello %s,\n\nYour password recovery code is:\n\n%s\n\nThe code expires in %s minutes. If you did not request it, ignore this message.\n",
			event.Name, event.Data["otp"], event.Data["ttl_minutes"],
		)
		return "Your password recovery code", body, nil

	case events.EmailKindLeaveDecided:
		body := fmt.Sprintf(
			"Hello %s,\n\nYour leave request from %s to %s has been %s.\n",
			event.Name, event.Data["start_date"], event.Data["end_date"], event.Data["status"],
		)
		return fmt.Sprintf("Leave request %s", event.Data["status"]), body, nil

	default:
		return "", "", fmt.Errorf("unknown email kind %q", event.Kind)
	}
}
