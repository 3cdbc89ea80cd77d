// Package mail renders templated notifications and delivers them over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/config"
)

// Mailer delivers a templated message to a recipient.
type Mailer interface {
	Send(ctx context.Context, to string, template TemplateName, data map[string]any) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer builds a mailer from config.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send renders the template and delivers it. When no SMTP host is configured
// the message is dropped with a log line, so local environments work without
// a relay.
func (m *SMTPMailer) Send(ctx context.Context, to string, template TemplateName, data map[string]any) error {
	subject, body, err := Render(template, data)
	if err != nil {
		return err
	}

	if strings.TrimSpace(m.cfg.Host) == "" {
		m.logger.Info("mail delivery skipped, no SMTP host configured",
			zap.String("to", to),
			zap.String("template", string(template)))
		return nil
	}

	msg := buildMessage(m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent", zap.String("to", to), zap.String("template", string(template)))
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}
