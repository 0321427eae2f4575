package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"loginbot/internal/components/assert"
	"loginbot/internal/components/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

const report_email_send = "email.send"

var tracer = telemetry.Tracer("loginbot.notify")

type EmailConfig struct {
	Server   string   `json:"server"`
	Port     int      `json:"port"`
	Address  string   `json:"address"`
	Password string   `json:"password"`
	To       []string `json:"to"`
}

func (c EmailConfig) Enabled() bool {
	return c.Server != "" && c.Address != "" && len(c.To) > 0
}

// Email sends every message as a plain text mail.
type Email struct {
	config EmailConfig
	tel    telemetry.API
}

func NewEmail(config EmailConfig, tel telemetry.API) Email {
	assert.NotNil(tel)
	return Email{
		config: config,
		tel:    telemetry.NewScopedAPI("notify", tel),
	}
}

func subjectOf(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	runes := []rune(line)
	if len(runes) > 60 {
		line = string(runes[:60]) + "..."
	}
	return "loginbot: " + line
}

func (e Email) send(ctx context.Context, text string) error {
	_, span := tracer.Start(ctx, "email:Send")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("loginbot <%s>", e.config.Address)
	mail.To = e.config.To
	mail.Subject = subjectOf(text)
	mail.Text = []byte(text)

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := mail.Send(addr, smtp.PlainAuth("", e.config.Address, e.config.Password, e.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

func (e Email) Notify(ctx context.Context, text string) {
	err := e.send(ctx, text)
	if err != nil {
		e.tel.ReportWarning(report_email_send, err)
	}
}
