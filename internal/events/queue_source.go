package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"teeup-backend-go/pkg/messagequeue"
)

// SourceQueue labels changes consumed from the message queue.
const SourceQueue = "rabbitmq"

// QueueSource consumes JSON-encoded Change records from a queue.
type QueueSource struct {
	mq     messagequeue.MessageQueue
	queue  string
	router Dispatcher
	logger *zap.Logger
}

// NewQueueSource creates a new QueueSource.
func NewQueueSource(mq messagequeue.MessageQueue, queue string, router Dispatcher, logger *zap.Logger) *QueueSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueSource{mq: mq, queue: queue, router: router, logger: logger}
}

// Run consumes until ctx is cancelled.
func (s *QueueSource) Run(ctx context.Context) error {
	return s.mq.Consume(ctx, s.queue, s.handle)
}

// handle rejects records that cannot be decoded or routed.
func (s *QueueSource) handle(ctx context.Context, body []byte) error {
	var change Change
	if err := json.Unmarshal(body, &change); err != nil {
		return fmt.Errorf("invalid change record: %w", err)
	}
	if change.Source == "" {
		change.Source = SourceQueue
	}
	if err := s.router.Dispatch(ctx, change); err != nil {
		if !errors.Is(err, ErrNoRoute) {
			s.logger.Warn("Change handler failed", zap.String("path", change.Path), zap.Error(err))
		}
		return err
	}
	return nil
}
