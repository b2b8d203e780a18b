package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

// Mailer delivers transactional email over SMTP.
type Mailer struct {
	Host string
	Port int
	From string
}

// Send delivers one message. An empty host disables delivery.
func (m Mailer) Send(payload SendEmailPayload) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + payload.To,
		"Subject: " + payload.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		payload.Body,
	}, "\r\n")
	return smtp.SendMail(addr, nil, m.From, []string{payload.To}, []byte(msg))
}

// NewSendEmailHandler processes TaskTypeSendEmail tasks.
func NewSendEmailHandler(mailer Mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := mailer.Send(payload); err != nil {
			if logger != nil {
				logger.Warn("send email", slog.String("to", payload.To), slog.Any("error", err))
			}
			return err
		}
		if logger != nil {
			logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
		}
		return nil
	}
}

// NewSendSMSHandler processes TaskTypeSendSMS tasks. No SMS gateway is
// wired, so delivery is logged and dropped rather than retried.
func NewSendSMSHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendSMSPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if logger != nil {
			logger.Warn("sms gateway not configured, dropping message", slog.String("to", payload.To))
		}
		return nil
	}
}
