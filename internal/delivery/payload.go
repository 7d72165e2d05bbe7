// Package delivery holds the real contact gateways: SendGrid mail, a Pub/Sub
// topic and an HTTP webhook.
package delivery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"wonderland.co.zw/panels-web/internal/config"
	"wonderland.co.zw/panels-web/internal/contact"
)

// Payload is the JSON document published for each enquiry.
type Payload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func payloadFor(sub contact.Submission) Payload {
	return Payload{
		ID:          sub.ID,
		Name:        sub.Fields.Name,
		Email:       sub.Fields.Email,
		Message:     sub.Fields.Message,
		SubmittedAt: sub.SubmittedAt.UTC(),
	}
}

// FromConfig builds the gateway selected by cfg.Contact.Gateway. Real
// gateways are wrapped with contact.Validating. The returned closer releases
// any client the gateway owns.
func FromConfig(ctx context.Context, cfg config.Config, logger *zap.Logger) (contact.Gateway, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }
	d := cfg.Delivery

	switch cfg.Contact.Gateway {
	case config.GatewaySimulated, "":
		logger.Info("contact gateway selected", zap.String("gateway", config.GatewaySimulated), zap.Duration("delay", cfg.Contact.Delay))
		return contact.SimulatedGateway{Delay: cfg.Contact.Delay}, noop, nil
	case config.GatewaySendGrid:
		gw := NewSendGrid(d.SendGridAPIKey, d.MailFromName, d.MailFrom, d.MailTo, d.MailSubject)
		logger.Info("contact gateway selected", zap.String("gateway", config.GatewaySendGrid), zap.String("to", d.MailTo))
		return contact.Validating(gw), noop, nil
	case config.GatewayPubSub:
		client, err := pubsub.NewClient(ctx, d.PubSubProject)
		if err != nil {
			return nil, nil, fmt.Errorf("delivery: pubsub client: %w", err)
		}
		topic := client.Topic(d.PubSubTopic)
		gw, err := NewPubSub(topic)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("contact gateway selected", zap.String("gateway", config.GatewayPubSub),
			zap.String("project", d.PubSubProject), zap.String("topic", d.PubSubTopic))
		closer := func() error {
			topic.Stop()
			return client.Close()
		}
		return contact.Validating(gw), closer, nil
	case config.GatewayWebhook:
		gw := NewWebhook(d.WebhookURL, d.WebhookToken, d.Timeout)
		logger.Info("contact gateway selected", zap.String("gateway", config.GatewayWebhook), zap.String("url", d.WebhookURL))
		return contact.Validating(gw), noop, nil
	default:
		return nil, nil, fmt.Errorf("delivery: unknown gateway %q", cfg.Contact.Gateway)
	}
}
