package mail

import "log/slog"

// LogMailer writes mail to the log instead of sending it.
// It is the fallback when SMTP is not configured, so development
// environments can read activation links straight from the log output.
type LogMailer struct{}

// NewLogMailer creates a LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the mail and reports success.
func (m *LogMailer) Send(to, subject, htmlBody string) error {
	slog.Info("mail (log only)", "to", to, "subject", subject, "body", htmlBody)
	return nil
}
