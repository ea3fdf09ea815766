// Package mailer delivers notification emails to spark subscribers.
package mailer

import "context"

// Message represents an email message to be sent.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender is the interface for outbound mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
