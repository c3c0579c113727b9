package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/fonoflow/clinic-api/internal/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.EmailConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to string, patientName string, startTime time.Time) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Hello %s,<br><br>Your session is confirmed for %s at %s.",
		patientName,
		startTime.Format("2006-01-02"),
		startTime.Format("15:04"),
	)
	return s.SendCustom(ctx, to, subject, body)
}

func (s *smtpService) SendAppointmentCancellation(ctx context.Context, to string, patientName string, startTime time.Time, reason string) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Hello %s,<br><br>Your session on %s at %s was cancelled.",
		patientName,
		startTime.Format("2006-01-02"),
		startTime.Format("15:04"),
	)
	if reason != "" {
		body += fmt.Sprintf("<br>Reason: %s", reason)
	}
	return s.SendCustom(ctx, to, subject, body)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", content)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
