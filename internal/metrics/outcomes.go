package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
)

// Publisher sends a value to a subject.
type Publisher interface {
	Publish(subject string, v interface{}) error
}

// OutcomeEvent is the record published for every delivery attempt.
type OutcomeEvent struct {
	RecipientID string    `json:"recipientId"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}

// OutcomePublisher forwards delivery results to a message bus.
type OutcomePublisher struct {
	pub     Publisher
	subject string
	logger  *zap.Logger
}

// NewOutcomePublisher creates a core.DeliveryObserver that publishes to subject.
func NewOutcomePublisher(pub Publisher, subject string, logger *zap.Logger) *OutcomePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutcomePublisher{pub: pub, subject: subject, logger: logger}
}

// ObserveDelivery publishes r. Publish failures are logged and dropped.
func (p *OutcomePublisher) ObserveDelivery(_ context.Context, r core.DeliveryResult) {
	evt := OutcomeEvent{
		RecipientID: r.RecipientID,
		Category:    string(r.Category),
		Status:      string(r.Status),
		At:          time.Now().UTC(),
	}
	if r.Err != nil {
		evt.Error = r.Err.Error()
	}
	if err := p.pub.Publish(p.subject, evt); err != nil {
		p.logger.Warn("Failed to publish delivery outcome", zap.String("subject", p.subject), zap.Error(err))
	}
}
