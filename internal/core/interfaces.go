package core

import (
	"context"

	"teeup-backend-go/internal/models"
)

// UserDirectory reads the user records the notification path depends on.
type UserDirectory interface {
	// GetRecipient returns the user record, or an error wrapping db.ErrNotFound when it does not exist.
	GetRecipient(ctx context.Context, userID string) (*models.User, error)
	// DisplayName returns the user's display name, or fallback when the user or name is missing.
	DisplayName(ctx context.Context, userID, fallback string) string
	// ClearDeviceToken removes staleToken if it is still the stored token. Otherwise it is a no-op.
	ClearDeviceToken(ctx context.Context, userID, staleToken string) error
}

// FriendGraph resolves a user's friends from the friendship edges.
type FriendGraph interface {
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

// NotificationDispatcher delivers a single notification on a best-effort basis.
type NotificationDispatcher interface {
	// Notify never fails; the outcome is reported in the returned result.
	Notify(ctx context.Context, n Notification) DeliveryResult
}

// DeliveryObserver receives every dispatcher outcome.
type DeliveryObserver interface {
	ObserveDelivery(ctx context.Context, result DeliveryResult)
}

// TriggerService reacts to document writes and drives the dispatcher.
type TriggerService interface {
	OnFriendRequestCreated(ctx context.Context, evt models.FriendRequestCreated) DeliveryResult
	OnMessageCreated(ctx context.Context, evt models.MessageCreated) DeliveryResult
	// OnWeekendStatusWritten returns one result per notified friend, or nil when the write was skipped.
	OnWeekendStatusWritten(ctx context.Context, evt models.WeekendStatusWritten) []DeliveryResult
}

// SocialService defines the friend, messaging and status operations exposed to clients.
type SocialService interface {
	SendFriendRequest(ctx context.Context, senderID, recipientID string) (*models.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, userID, requestID string) (*models.Friendship, error)
	DeclineFriendRequest(ctx context.Context, userID, requestID string) error
	ListFriends(ctx context.Context, userID string) ([]string, error)
	RemoveFriend(ctx context.Context, userID, friendID string) error
	SendMessage(ctx context.Context, senderID, receiverID, text string) (*models.Message, error)
	SetWeekendStatus(ctx context.Context, userID string, req models.SetWeekendStatusRequest) (*models.WeekendStatus, error)
	ClearWeekendStatus(ctx context.Context, userID string) error
	RegisterDeviceToken(ctx context.Context, userID, token string) error
	UpdatePreferences(ctx context.Context, userID string, req models.UpdatePreferencesRequest) error
}
