package di

import (
	"log/slog"
	"os"
	"strconv"

	"microblog_backend/internal/feature/users/usecase"
	"microblog_backend/internal/platform/mail"
)

// NewMailer creates a Mailer implementation from the SMTP_* environment
// variables. Without an SMTP host it falls back to the log-only mailer,
// so activation links stay reachable in development.
func NewMailer() usecase.Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		slog.Info("SMTP_HOST not set, using log-only mailer")
		return mail.NewLogMailer()
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	return mail.NewSMTPMailer(
		host,
		port,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM"),
	)
}
