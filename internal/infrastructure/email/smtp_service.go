package email

import (
	"context"
	"fmt"
	"net/smtp"

	"stayhub-backend/internal/config"
	"stayhub-backend/pkg/logger"
)

type BookingConfirmationData struct {
	Email      string
	HotelName  string
	RoomName   string
	Reference  string
	CheckIn    string
	CheckOut   string
	TotalPrice string
}

type WelcomeData struct {
	Email    string
	FullName string
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, data BookingConfirmationData) error
	SendWelcome(ctx context.Context, data WelcomeData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	return &smtpEmailService{
		smtpAddr: cfg.Host + ":" + cfg.Port,
		smtpFrom: cfg.From,
	}
}

func (s *smtpEmailService) SendBookingConfirmation(ctx context.Context, data BookingConfirmationData) error {
	subject := fmt.Sprintf("Booking %s confirmed", data.Reference)
	body := fmt.Sprintf(`Hello,

Your stay at %s is confirmed.

  Room:      %s
  Reference: %s
  Check-in:  %s
  Check-out: %s
  Total:     %s

We look forward to hosting you.`,
		data.HotelName, data.RoomName, data.Reference, data.CheckIn, data.CheckOut, data.TotalPrice)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendWelcome(ctx context.Context, data WelcomeData) error {
	subject := "Welcome to StayHub"
	body := fmt.Sprintf(`Hello %s,

Your account has been created. You can now browse hotels and book your next stay.

If you did not create this account, please ignore this email.`, data.FullName)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
