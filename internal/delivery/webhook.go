package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"wonderland.co.zw/panels-web/internal/contact"
)

// Webhook posts each enquiry as JSON to an HTTP endpoint.
type Webhook struct {
	client *resty.Client
	url    string
}

// NewWebhook builds a webhook gateway. A non-empty token is sent as a bearer
// credential.
func NewWebhook(url, token string, timeout time.Duration) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "wonderland-web")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Webhook{client: client, url: url}
}

// Submit posts the enquiry. Any non-2xx response is a delivery failure.
func (w *Webhook) Submit(ctx context.Context, sub contact.Submission) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", sub.ID).
		SetBody(payloadFor(sub)).
		Post(w.url)
	if err != nil {
		return &contact.DeliveryError{Gateway: "webhook", Err: err}
	}
	if resp.IsError() {
		return &contact.DeliveryError{
			Gateway: "webhook",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()),
		}
	}
	return nil
}
