package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/mailward/campaigner/internal/config"
)

// Sender delivers one message per call over a fresh authenticated SMTP
// session. There is no connection pooling: each Send dials, authenticates,
// transmits, and quits, so calls are independent of each other.
type Sender struct {
	smtp   config.SMTPConfig
	email  config.EmailSettings
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Sender {
	return &Sender{smtp: cfg.SMTP, email: cfg.Email, logger: logger}
}

// Send builds and transmits a message. Every failure mode (dial, STARTTLS,
// auth, rejected recipient, write) collapses into the returned error; the
// diagnostic detail goes to the log.
func (s *Sender) Send(to, subject, html, text string, attachments []string) error {
	msg := buildMessage(s.email.FromName, s.smtp.Username, s.email.ReplyTo, to, subject, html, text, attachments)

	addr := fmt.Sprintf("%s:%d", s.smtp.Server, s.smtp.Port)
	if err := s.transmit(addr, to, msg); err != nil {
		s.logger.Error("email send failed",
			zap.String("to", to),
			zap.String("server", addr),
			zap.Error(err))
		return err
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *Sender) transmit(addr, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer client.Close()

	if s.smtp.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.smtp.Server}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.smtp.Username != "" {
		auth := smtp.PlainAuth("", s.smtp.Username, s.smtp.Password, s.smtp.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(s.smtp.Username); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return client.Quit()
}
