// Package publisher emits teaser lifecycle events to NATS.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/ignitelabs/sparkd/internal/dispatcher"
	"github.com/ignitelabs/sparkd/internal/teaser"
)

// subjects
const (
	SubjectTeaserCreated = "teasers.created"
	SubjectTeaserSent    = "teasers.sent"
)

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements teaser.EventPublisher and dispatcher.EventPublisher.
type NATSPublisher struct {
	nc NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: conn}
}

// PublishTeaserCreated publishes a teaser creation event.
func (p *NATSPublisher) PublishTeaserCreated(_ context.Context, event teaser.TeaserCreatedEvent) error {
	return p.publish(SubjectTeaserCreated, event)
}

// PublishTeaserSent publishes a teaser dispatch event.
func (p *NATSPublisher) PublishTeaserSent(_ context.Context, event dispatcher.TeaserSentEvent) error {
	return p.publish(SubjectTeaserSent, event)
}

func (p *NATSPublisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
