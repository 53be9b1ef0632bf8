package notify

import "github.com/okian/skillfade/pkg/logger"

// SMTPOption configures the SMTP notifier.
type SMTPOption func(*SMTP)

// WithCredentials enables PLAIN authentication against the relay.
func WithCredentials(username, password string) SMTPOption {
	return func(s *SMTP) {
		s.username = username
		s.password = password
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) SMTPOption {
	return func(s *SMTP) {
		if l != nil {
			s.logger = l
		}
	}
}
