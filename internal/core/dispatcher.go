package core

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"teeup-backend-go/internal/db"
	"teeup-backend-go/internal/push"
)

// DeliveryStatus is the terminal state of one delivery attempt.
type DeliveryStatus string

const (
	StatusDelivered       DeliveryStatus = "delivered"
	StatusSuppressed      DeliveryStatus = "suppressed"
	StatusSkippedNoUser   DeliveryStatus = "skippedNoUser"
	StatusSkippedNoToken  DeliveryStatus = "skippedNoToken"
	StatusFailedStale     DeliveryStatus = "failedStale"
	StatusFailedTransient DeliveryStatus = "failedTransient"
)

// Notification is a single push addressed to one user.
type Notification struct {
	RecipientID string
	Title       string
	Body        string
	Category    Category
	// Data carries the category specific ids. The "type" key is filled in by the dispatcher.
	Data map[string]string
}

// DeliveryResult records how a notification attempt ended.
type DeliveryResult struct {
	RecipientID string         `json:"recipientId"`
	Category    Category       `json:"category"`
	Status      DeliveryStatus `json:"status"`
	Err         error          `json:"-"`
}

// notificationDispatcher implements the NotificationDispatcher interface.
type notificationDispatcher struct {
	directory UserDirectory
	gateway   push.Gateway
	observers []DeliveryObserver
	logger    *zap.Logger
}

// NewNotificationDispatcher creates a new NotificationDispatcher.
func NewNotificationDispatcher(directory UserDirectory, gateway push.Gateway, logger *zap.Logger, observers ...DeliveryObserver) NotificationDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationDispatcher{
		directory: directory,
		gateway:   gateway,
		observers: observers,
		logger:    logger,
	}
}

func (d *notificationDispatcher) Notify(ctx context.Context, n Notification) DeliveryResult {
	result := d.attempt(ctx, n)
	for _, o := range d.observers {
		o.ObserveDelivery(ctx, result)
	}
	return result
}

func (d *notificationDispatcher) attempt(ctx context.Context, n Notification) DeliveryResult {
	result := DeliveryResult{RecipientID: n.RecipientID, Category: n.Category}
	log := d.logger.With(zap.String("recipientID", n.RecipientID), zap.String("category", string(n.Category)))

	user, err := d.directory.GetRecipient(ctx, n.RecipientID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Debug("Recipient not found, skipping notification")
			result.Status = StatusSkippedNoUser
			return result
		}
		log.Warn("Failed to look up recipient", zap.Error(err))
		result.Status = StatusFailedTransient
		result.Err = err
		return result
	}
	if !user.HasDeviceToken() {
		log.Debug("Recipient has no device token, skipping notification")
		result.Status = StatusSkippedNoToken
		return result
	}
	if !Allowed(user.NotificationPreferences, n.Category) {
		log.Debug("Notification suppressed by recipient preferences")
		result.Status = StatusSuppressed
		return result
	}

	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	data["type"] = string(n.Category)

	outcome, err := d.gateway.Send(ctx, push.Message{
		Token: user.FCMToken,
		Title: n.Title,
		Body:  n.Body,
		Data:  data,
	})
	switch outcome {
	case push.Delivered:
		log.Info("Notification delivered")
		result.Status = StatusDelivered
	case push.TokenInvalid:
		log.Info("Device token rejected, clearing it", zap.Error(err))
		if clearErr := d.directory.ClearDeviceToken(ctx, n.RecipientID, user.FCMToken); clearErr != nil {
			log.Warn("Failed to clear stale device token", zap.Error(clearErr))
		}
		result.Status = StatusFailedStale
		result.Err = err
	default:
		log.Warn("Transient push delivery failure", zap.Error(err))
		result.Status = StatusFailedTransient
		result.Err = err
	}
	return result
}
