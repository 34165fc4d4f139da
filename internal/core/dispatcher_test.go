package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/internal/push"
)

func TestAllowedDefaultsToEnabled(t *testing.T) {
	for _, c := range []Category{CategoryFriendRequest, CategoryMessage, CategoryStatusChange} {
		assert.True(t, Allowed(nil, c), string(c))
		assert.True(t, Allowed(&models.NotificationPreferences{}, c), string(c))
	}

	prefs := &models.NotificationPreferences{Messages: boolPtr(false), StatusChanges: boolPtr(true)}
	assert.False(t, Allowed(prefs, CategoryMessage))
	assert.True(t, Allowed(prefs, CategoryStatusChange))
	assert.True(t, Allowed(prefs, CategoryFriendRequest))
}

func TestNotifyStates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addUser(t, "no-token", map[string]interface{}{"displayName": "Nia"})
	h.addUser(t, "muted", map[string]interface{}{
		"fcmToken":                "tok-muted",
		"notificationPreferences": map[string]interface{}{"friendRequests": false},
	})
	h.addUser(t, "ok", map[string]interface{}{"fcmToken": "tok-ok"})
	h.addUser(t, "flaky", map[string]interface{}{"fcmToken": "tok-flaky"})
	h.gateway.outcomes["tok-flaky"] = push.TransientFailure

	tests := []struct {
		recipient string
		want      DeliveryStatus
	}{
		{"missing", StatusSkippedNoUser},
		{"", StatusSkippedNoUser},
		{"no-token", StatusSkippedNoToken},
		{"muted", StatusSuppressed},
		{"ok", StatusDelivered},
		{"flaky", StatusFailedTransient},
	}
	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+tt.recipient, func(t *testing.T) {
			res := h.dispatcher.Notify(ctx, Notification{
				RecipientID: tt.recipient,
				Title:       "t",
				Body:        "b",
				Category:    CategoryFriendRequest,
			})
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.recipient, res.RecipientID)
		})
	}

	assert.Equal(t, []string{"tok-flaky", "tok-ok"}, h.gateway.tokens())
	assert.Len(t, h.observer.results, len(tests))
}

func TestNotifyAddsTypeToData(t *testing.T) {
	h := newHarness(t)
	h.addUser(t, "u", map[string]interface{}{"fcmToken": "tok"})

	data := map[string]string{"requestId": "r1"}
	res := h.dispatcher.Notify(context.Background(), Notification{
		RecipientID: "u", Title: "t", Body: "b", Category: CategoryFriendRequest, Data: data,
	})
	require.Equal(t, StatusDelivered, res.Status)
	require.Len(t, h.gateway.sent, 1)
	assert.Equal(t, map[string]string{"type": "friendRequest", "requestId": "r1"}, h.gateway.sent[0].Data)
	assert.NotContains(t, data, "type")
}

func TestNotifyStaleTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addUser(t, "u", map[string]interface{}{"displayName": "Uma", "fcmToken": "tok-stale"})
	h.gateway.outcomes["tok-stale"] = push.TokenInvalid

	res := h.dispatcher.Notify(ctx, Notification{RecipientID: "u", Category: CategoryMessage})
	assert.Equal(t, StatusFailedStale, res.Status)
	assert.Error(t, res.Err)

	user, err := h.users.GetByID(ctx, "u")
	require.NoError(t, err)
	assert.False(t, user.HasDeviceToken())
	assert.Equal(t, "Uma", user.DisplayName)

	res = h.dispatcher.Notify(ctx, Notification{RecipientID: "u", Category: CategoryMessage})
	assert.Equal(t, StatusSkippedNoToken, res.Status)
}

func TestNotifyKeepsTokenRegisteredDuringSend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addUser(t, "u", map[string]interface{}{"displayName": "Uma", "fcmToken": "tok-old"})
	h.gateway.outcomes["tok-old"] = push.TokenInvalid
	h.gateway.onSend = func(push.Message) {
		require.NoError(t, h.users.SetDeviceToken(ctx, "u", "tok-new"))
	}

	res := h.dispatcher.Notify(ctx, Notification{RecipientID: "u", Category: CategoryMessage})
	assert.Equal(t, StatusFailedStale, res.Status)

	user, err := h.users.GetByID(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", user.FCMToken)
}

type failingDirectory struct{ UserDirectory }

func (failingDirectory) GetRecipient(context.Context, string) (*models.User, error) {
	return nil, errors.New("firestore unavailable")
}

func TestNotifyDirectoryErrorIsTransient(t *testing.T) {
	gw := newFakeGateway()
	d := NewNotificationDispatcher(failingDirectory{}, gw, nil)

	res := d.Notify(context.Background(), Notification{RecipientID: "u", Category: CategoryMessage})
	assert.Equal(t, StatusFailedTransient, res.Status)
	assert.Error(t, res.Err)
	assert.Empty(t, gw.sent)
}
