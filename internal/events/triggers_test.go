package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/models"
)

type fakeTriggers struct {
	friendRequests []models.FriendRequestCreated
	messages       []models.MessageCreated
	statuses       []models.WeekendStatusWritten
}

func (f *fakeTriggers) OnFriendRequestCreated(_ context.Context, evt models.FriendRequestCreated) core.DeliveryResult {
	f.friendRequests = append(f.friendRequests, evt)
	return core.DeliveryResult{}
}

func (f *fakeTriggers) OnMessageCreated(_ context.Context, evt models.MessageCreated) core.DeliveryResult {
	f.messages = append(f.messages, evt)
	return core.DeliveryResult{}
}

func (f *fakeTriggers) OnWeekendStatusWritten(_ context.Context, evt models.WeekendStatusWritten) []core.DeliveryResult {
	f.statuses = append(f.statuses, evt)
	return nil
}

func TestTriggerRouterDecodesPayloads(t *testing.T) {
	ctx := context.Background()
	triggers := &fakeTriggers{}
	r := NewTriggerRouter(triggers, nil)
	sent := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	require.NoError(t, r.Dispatch(ctx, Change{
		Operation: OpCreate,
		Path:      "friendRequests/r1",
		Data:      map[string]interface{}{"senderId": "ann", "recipientId": "bob", "status": "pending", "sentAt": sent},
	}))
	require.Len(t, triggers.friendRequests, 1)
	assert.Equal(t, "r1", triggers.friendRequests[0].RequestID)
	assert.Equal(t, "bob", triggers.friendRequests[0].Request.RecipientID)
	assert.Equal(t, models.FriendRequestPending, triggers.friendRequests[0].Request.Status)

	require.NoError(t, r.Dispatch(ctx, Change{
		Operation: OpCreate,
		Path:      "conversations/ann_bob/messages/m1",
		Data:      map[string]interface{}{"senderId": "ann", "receiverId": "bob", "text": "hi", "timestamp": "2026-10-17T09:30:00Z"},
	}))
	require.Len(t, triggers.messages, 1)
	assert.Equal(t, "ann_bob", triggers.messages[0].ConversationID)
	assert.Equal(t, "m1", triggers.messages[0].Message.ID)
	assert.Equal(t, "hi", triggers.messages[0].Message.Text)

	require.NoError(t, r.Dispatch(ctx, Change{
		Operation: OpUpdate,
		Path:      "weekendStatuses/ann",
		Data:      map[string]interface{}{"status": "lookingToPlay", "isVisible": true},
	}))
	require.NoError(t, r.Dispatch(ctx, Change{Operation: OpDelete, Path: "weekendStatuses/ann"}))
	require.Len(t, triggers.statuses, 2)
	require.NotNil(t, triggers.statuses[0].Status)
	assert.Equal(t, "ann", triggers.statuses[0].Status.UserID)
	assert.True(t, triggers.statuses[0].Status.IsVisible)
	assert.True(t, triggers.statuses[1].Deleted())
}

func TestTriggerRouterRejectsMalformedData(t *testing.T) {
	triggers := &fakeTriggers{}
	r := NewTriggerRouter(triggers, nil)

	err := r.Dispatch(context.Background(), Change{
		Operation: OpCreate,
		Path:      "friendRequests/r1",
		Data:      map[string]interface{}{"senderId": 42},
	})
	assert.Error(t, err)
	assert.Empty(t, triggers.friendRequests)
}

func TestTriggerRouterIgnoresUnreadFields(t *testing.T) {
	ctx := context.Background()
	triggers := &fakeTriggers{}
	r := NewTriggerRouter(triggers, nil)

	require.NoError(t, r.Dispatch(ctx, Change{
		Operation: OpCreate,
		Path:      "conversations/ann_bob/messages/m1",
		Data:      map[string]interface{}{"senderId": "ann", "receiverId": "bob", "text": "hi", "timestamp": 1.7e9},
	}))
	require.Len(t, triggers.messages, 1)
	assert.Equal(t, "bob", triggers.messages[0].Message.ReceiverID)
	assert.Equal(t, "hi", triggers.messages[0].Message.Text)

	require.NoError(t, r.Dispatch(ctx, Change{
		Operation: OpCreate,
		Path:      "weekendStatuses/owner",
		Data: map[string]interface{}{
			"status":    "lookingToPlay",
			"isVisible": true,
			"timeSlots": []interface{}{map[string]interface{}{"start": "08:00"}},
			"updatedAt": int64(1700000000),
		},
	}))
	require.Len(t, triggers.statuses, 1)
	require.NotNil(t, triggers.statuses[0].Status)
	assert.Equal(t, "owner", triggers.statuses[0].Status.UserID)
	assert.Equal(t, models.AvailabilityLookingToPlay, triggers.statuses[0].Status.Status)
	assert.True(t, triggers.statuses[0].Status.IsVisible)
}
