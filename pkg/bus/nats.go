// Package bus publishes JSON records over NATS.
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NatsPublisher publishes JSON-encoded values on NATS subjects.
type NatsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// Connect dials the NATS server at url.
func Connect(url, name string, logger *zap.Logger) (*NatsPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("Disconnected from NATS", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))
	return &NatsPublisher{conn: nc, logger: logger}, nil
}

// Publish marshals v to JSON and publishes it on subject.
func (p *NatsPublisher) Publish(subject string, v interface{}) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}

// Encode returns the wire form of v.
func Encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bus message: %w", err)
	}
	return data, nil
}
