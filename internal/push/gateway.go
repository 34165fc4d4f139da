// Package push wraps the push-notification transport behind a small outcome-based contract.
package push

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// Outcome classifies a single send attempt.
type Outcome string

const (
	// Delivered means the transport accepted the message.
	Delivered Outcome = "delivered"
	// TokenInvalid means the token is permanently unregistered or malformed and should be discarded.
	TokenInvalid Outcome = "tokenInvalid"
	// TransientFailure covers every other error. Nothing is retried here.
	TransientFailure Outcome = "transientFailure"
)

// Message is the push payload handed to the gateway.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Gateway sends push notifications and reports a classified outcome.
// The returned error carries transport detail for logging when the outcome is not Delivered.
type Gateway interface {
	Send(ctx context.Context, msg Message) (Outcome, error)
}

// Sender is the subset of *messaging.Client used by FCMGateway.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMGateway delivers through Firebase Cloud Messaging.
type FCMGateway struct {
	sender       Sender
	isTokenError func(error) bool
}

// NewFCMGateway creates a new FCMGateway on top of a messaging client.
func NewFCMGateway(sender Sender) (*FCMGateway, error) {
	if sender == nil {
		return nil, errors.New("push: messaging sender is nil")
	}
	return &FCMGateway{sender: sender, isTokenError: IsTokenError}, nil
}

// Send builds the FCM message and classifies the result.
func (g *FCMGateway) Send(ctx context.Context, msg Message) (Outcome, error) {
	if msg.Token == "" {
		return TokenInvalid, errors.New("push: empty device token")
	}
	if _, err := g.sender.Send(ctx, BuildMessage(msg)); err != nil {
		if g.isTokenError(err) {
			return TokenInvalid, fmt.Errorf("push: token rejected: %w", err)
		}
		return TransientFailure, fmt.Errorf("push: send failed: %w", err)
	}
	return Delivered, nil
}

// IsTokenError reports whether FCM rejected the registration token itself.
func IsTokenError(err error) bool {
	return messaging.IsUnregistered(err) ||
		messaging.IsInvalidArgument(err) ||
		messaging.IsSenderIDMismatch(err)
}

// BuildMessage converts msg to an FCM message with the default sound and a badge of 1.
func BuildMessage(msg Message) *messaging.Message {
	badge := 1
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{Sound: "default"},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}
}
