// Package mail implements outbound email delivery via SendGrid.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers transactional email through the SendGrid API. One
// attempt per message; the caller decides how to react to a failure.
type Sender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSender(apiKey, fromName, fromEmail string) *Sender {
	return &Sender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *Sender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, textBody, htmlBody)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return nil
}
