// Package notify delivers alert messages. The SMTP sender is the production
// path; the Recorder captures messages in memory for tests and for running
// without a mail server.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/okian/skillfade/pkg/logger"
)

// SMTP sends mail through a single SMTP relay. STARTTLS is negotiated when
// the server offers it; authentication is used only when credentials are
// configured.
type SMTP struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   logger.Logger

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP creates an SMTP notifier for the given relay.
func NewSMTP(host string, port int, from string, opts ...SMTPOption) *SMTP {
	s := &SMTP{
		host: host,
		port: port,
		from: from,
		send: smtp.SendMail,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("notify")
	}

	return s
}

// Notify sends one message to one recipient.
func (s *SMTP) Notify(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipient == "" {
		return ErrNoRecipient
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	msg := buildMessage(s.from, recipient, subject, body)

	if err := s.send(addr, auth, s.from, []string{recipient}, msg); err != nil {
		s.logger.Error(ctx, "mail delivery failed",
			logger.String("recipient", recipient),
			logger.String("subject", subject),
			logger.Error(err))
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.logger.Debug(ctx, "mail delivered",
		logger.String("recipient", recipient),
		logger.String("subject", subject))
	return nil
}

// buildMessage assembles a minimal RFC 5322 message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
