package mailer

import (
	"context"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/platform/sendgrid"
)

// SendGridMailer adapts the SendGrid HTTP client to Mailer.
type SendGridMailer struct {
	client   sendgrid.Client
	from     string
	fromName string
}

// NewSendGrid validates the sender settings up front; a nil client with an
// error means the provider cannot be used.
func NewSendGrid(client sendgrid.Client, apiKey, from, fromName string) (*SendGridMailer, error) {
	if err := missing(
		[2]string{"SENDGRID_API_KEY", apiKey},
		[2]string{"SENDGRID_FROM_EMAIL", from},
	); err != nil {
		return nil, err
	}
	return &SendGridMailer{client: client, from: strings.TrimSpace(from), fromName: strings.TrimSpace(fromName)}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	_, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		From:    sendgrid.EmailAddress{Email: m.from, Name: m.fromName},
		To:      []sendgrid.EmailAddress{{Email: strings.TrimSpace(msg.To)}},
		Subject: msg.Subject,
		HTML:    NormalizeBody(msg.HTML),
	})
	return err
}
