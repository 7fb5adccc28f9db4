package notifications

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
)

// EmailChannel sends plain-text alert emails through an SMTP relay
type EmailChannel struct {
	to   string
	smtp config.SMTPConfig

	// sendMail is replaceable in tests
	sendMail func(addr, from string, to []string, msg []byte) error
}

// NewEmailChannel creates an email channel delivering to the given address
func NewEmailChannel(to string, smtpCfg config.SMTPConfig) *EmailChannel {
	return &EmailChannel{
		to:   to,
		smtp: smtpCfg,
		sendMail: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (e *EmailChannel) Name() string { return "email" }

// Send delivers the alert as a plain-text email
func (e *EmailChannel) Send(alert alerting.Alert) error {
	addr := fmt.Sprintf("%s:%d", e.smtp.Host, e.smtp.Port)

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", e.smtp.From)
	fmt.Fprintf(&body, "To: %s\r\n", e.to)
	fmt.Fprintf(&body, "Subject: [%s] %s\r\n", strings.ToUpper(string(alert.Severity)), alert.Title)
	body.WriteString("\r\n")
	fmt.Fprintf(&body, "Alert: %s\n", alert.Title)
	fmt.Fprintf(&body, "Severity: %s\n", alert.Severity)
	fmt.Fprintf(&body, "Component: %s\n", alert.Component)
	fmt.Fprintf(&body, "Time: %s\n", alert.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&body, "\n%s\n", alert.Description)

	if err := e.sendMail(addr, e.smtp.From, []string{e.to}, []byte(body.String())); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}
