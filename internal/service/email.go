package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"stableride-backend/internal/config"
)

type sendGridService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridService(cfg config.SendGridConfig) EmailService {
	return &sendGridService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *sendGridService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridService) SendBookingConfirmation(_ context.Context, to, riderName, horseName string, start, end time.Time) error {
	subject := fmt.Sprintf("Booking confirmed: %s", horseName)
	plainText := fmt.Sprintf("Hi %s, your ride on %s is confirmed from %s to %s.",
		riderName, horseName, start.Format(time.RFC1123), end.Format(time.RFC1123))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Confirmed</h2>
				<p>Hi %s,</p>
				<p>Your ride on <strong>%s</strong> is confirmed from %s to %s.</p>
			</body>
		</html>
	`, riderName, horseName, start.Format(time.RFC1123), end.Format(time.RFC1123))
	return s.send(to, riderName, subject, plainText, htmlContent)
}

func (s *sendGridService) SendBookingRescheduled(_ context.Context, to, riderName, horseName string, start, end time.Time) error {
	subject := fmt.Sprintf("Booking rescheduled: %s", horseName)
	plainText := fmt.Sprintf("Hi %s, your ride on %s was rescheduled to %s - %s.",
		riderName, horseName, start.Format(time.RFC1123), end.Format(time.RFC1123))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Rescheduled</h2>
				<p>Hi %s,</p>
				<p>Your ride on <strong>%s</strong> now runs from %s to %s.</p>
			</body>
		</html>
	`, riderName, horseName, start.Format(time.RFC1123), end.Format(time.RFC1123))
	return s.send(to, riderName, subject, plainText, htmlContent)
}

func (s *sendGridService) SendBookingCancelled(_ context.Context, to, name, horseName, reason string) error {
	subject := fmt.Sprintf("Booking cancelled: %s", horseName)
	if reason == "" {
		reason = "no reason given"
	}
	plainText := fmt.Sprintf("Hi %s, the booking for %s was cancelled (%s).", name, horseName, reason)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Cancelled</h2>
				<p>Hi %s,</p>
				<p>The booking for <strong>%s</strong> was cancelled.</p>
				<p>Reason: %s</p>
			</body>
		</html>
	`, name, horseName, reason)
	return s.send(to, name, subject, plainText, htmlContent)
}

func (s *sendGridService) SendRefundProcessed(_ context.Context, to, riderName string, amountCents int64) error {
	amount := fmt.Sprintf("$%.2f", float64(amountCents)/100)
	subject := "Your refund has been processed"
	plainText := fmt.Sprintf("Hi %s, your refund of %s has been processed.", riderName, amount)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Refund Processed</h2>
				<p>Hi %s,</p>
				<p>Your refund of <strong>%s</strong> has been processed. Allow a few business days for it to appear.</p>
			</body>
		</html>
	`, riderName, amount)
	return s.send(to, riderName, subject, plainText, htmlContent)
}
