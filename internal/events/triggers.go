package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

const (
	KindFriendRequestCreated Kind = "friendRequest.created"
	KindMessageCreated       Kind = "message.created"
	KindWeekendStatusWritten Kind = "weekendStatus.written"
)

// Path patterns of the routed collections.
const (
	FriendRequestPattern = "friendRequests/{requestId}"
	MessagePattern       = "conversations/{convoId}/messages/{messageId}"
	WeekendStatusPattern = "weekendStatuses/{userId}"
)

// NewTriggerRouter builds the routing table for the notification triggers.
func NewTriggerRouter(triggers core.TriggerService, logger *zap.Logger, observers ...Observer) *Router {
	r := NewRouter(logger, observers...)
	r.Bind(KindFriendRequestCreated, FriendRequestPattern, OpCreate)
	r.Bind(KindMessageCreated, MessagePattern, OpCreate)
	r.Bind(KindWeekendStatusWritten, WeekendStatusPattern, WriteOps...)

	r.Handle(KindFriendRequestCreated, func(ctx context.Context, c Change, p map[string]string) error {
		evt, err := DecodeFriendRequestCreated(c, p)
		if err != nil {
			return err
		}
		triggers.OnFriendRequestCreated(ctx, evt)
		return nil
	})
	r.Handle(KindMessageCreated, func(ctx context.Context, c Change, p map[string]string) error {
		evt, err := DecodeMessageCreated(c, p)
		if err != nil {
			return err
		}
		triggers.OnMessageCreated(ctx, evt)
		return nil
	})
	r.Handle(KindWeekendStatusWritten, func(ctx context.Context, c Change, p map[string]string) error {
		evt, err := DecodeWeekendStatusWritten(c, p)
		if err != nil {
			return err
		}
		triggers.OnWeekendStatusWritten(ctx, evt)
		return nil
	})
	return r
}

// Trigger payloads decode only the fields the triggers read. Client-owned detail such as
// timestamps or time slots is ignored so an odd shape there cannot block a notification.

type friendRequestFields struct {
	SenderID    string                     `firestore:"senderId"`
	RecipientID string                     `firestore:"recipientId"`
	Status      models.FriendRequestStatus `firestore:"status"`
}

type messageFields struct {
	SenderID   string `firestore:"senderId"`
	ReceiverID string `firestore:"receiverId"`
	Text       string `firestore:"text"`
}

type weekendStatusFields struct {
	Status    models.Availability `firestore:"status"`
	IsVisible bool                `firestore:"isVisible"`
}

// DecodeFriendRequestCreated builds the typed payload for a new friend request document.
func DecodeFriendRequestCreated(c Change, params map[string]string) (models.FriendRequestCreated, error) {
	evt := models.FriendRequestCreated{RequestID: params["requestId"]}
	var f friendRequestFields
	if err := database.Decode(c.Data, &f); err != nil {
		return evt, fmt.Errorf("failed to decode friend request %s: %w", c.Path, err)
	}
	evt.Request = models.FriendRequest{
		ID:          evt.RequestID,
		SenderID:    f.SenderID,
		RecipientID: f.RecipientID,
		Status:      f.Status,
	}
	return evt, nil
}

// DecodeMessageCreated builds the typed payload for a new message document.
func DecodeMessageCreated(c Change, params map[string]string) (models.MessageCreated, error) {
	evt := models.MessageCreated{ConversationID: params["convoId"], MessageID: params["messageId"]}
	var f messageFields
	if err := database.Decode(c.Data, &f); err != nil {
		return evt, fmt.Errorf("failed to decode message %s: %w", c.Path, err)
	}
	evt.Message = models.Message{
		ID:         evt.MessageID,
		SenderID:   f.SenderID,
		ReceiverID: f.ReceiverID,
		Text:       f.Text,
	}
	return evt, nil
}

// DecodeWeekendStatusWritten builds the typed payload for a status write. Deletions carry a nil status.
func DecodeWeekendStatusWritten(c Change, params map[string]string) (models.WeekendStatusWritten, error) {
	evt := models.WeekendStatusWritten{UserID: params["userId"]}
	if c.Operation == OpDelete || c.Data == nil {
		return evt, nil
	}
	var f weekendStatusFields
	if err := database.Decode(c.Data, &f); err != nil {
		return evt, fmt.Errorf("failed to decode weekend status %s: %w", c.Path, err)
	}
	evt.Status = &models.WeekendStatus{
		UserID:    evt.UserID,
		Status:    f.Status,
		IsVisible: f.IsVisible,
	}
	return evt, nil
}
