package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"wonderland.co.zw/panels-web/internal/contact"
)

// SendGrid mails each enquiry to the workshop inbox with the visitor as
// reply-to.
type SendGrid struct {
	client  *sendgrid.Client
	from    *mail.Email
	to      *mail.Email
	subject string
}

// NewSendGrid builds a SendGrid gateway.
func NewSendGrid(apiKey, fromName, fromAddr, toAddr, subject string) *SendGrid {
	return &SendGrid{
		client:  sendgrid.NewSendClient(apiKey),
		from:    mail.NewEmail(fromName, fromAddr),
		to:      mail.NewEmail("Wonderland Panel Beaters", toAddr),
		subject: subject,
	}
}

// Submit sends the enquiry. Any non-2xx response is a delivery failure.
func (s *SendGrid) Submit(ctx context.Context, sub contact.Submission) error {
	message := mail.NewSingleEmail(s.from, s.subject, s.to, plainBody(sub), "")
	message.SetReplyTo(mail.NewEmail(sub.Fields.Name, sub.Fields.Email))
	message.SetHeader("X-Submission-ID", sub.ID)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return &contact.DeliveryError{Gateway: "sendgrid", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &contact.DeliveryError{
			Gateway: "sendgrid",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body)),
		}
	}
	return nil
}

func plainBody(sub contact.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sub.Fields.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Fields.Email)
	fmt.Fprintf(&b, "Received: %s\n\n", sub.SubmittedAt.UTC().Format("2006-01-02 15:04 MST"))
	b.WriteString(sub.Fields.Message)
	b.WriteString("\n")
	return b.String()
}
