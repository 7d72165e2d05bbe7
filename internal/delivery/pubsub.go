package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"

	"wonderland.co.zw/panels-web/internal/contact"
)

// PubSub publishes each enquiry to a topic for downstream processing.
type PubSub struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSub constructs a Pub/Sub backed gateway.
func NewPubSub(topic *pubsub.Topic) (*PubSub, error) {
	if topic == nil {
		return nil, errors.New("pubsub gateway: topic is required")
	}
	return &PubSub{topic: topic, marshal: json.Marshal}, nil
}

// Submit publishes the enquiry and waits for the server ack.
func (p *PubSub) Submit(ctx context.Context, sub contact.Submission) error {
	data, err := p.marshal(payloadFor(sub))
	if err != nil {
		return fmt.Errorf("marshal enquiry: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"submissionId": sub.ID,
			"kind":         "contact.enquiry",
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return &contact.DeliveryError{Gateway: "pubsub", Err: err}
	}
	return nil
}
