package core

import "teeup-backend-go/internal/models"

// Category identifies the kind of notification. Its value is sent as the "type" data field.
type Category string

const (
	CategoryFriendRequest Category = "friendRequest"
	CategoryMessage       Category = "message"
	CategoryStatusChange  Category = "statusChange"
)

// Allowed reports whether prefs permit notifications of category c.
// A missing preference block or flag counts as enabled.
func Allowed(prefs *models.NotificationPreferences, c Category) bool {
	if prefs == nil {
		return true
	}
	var flag *bool
	switch c {
	case CategoryFriendRequest:
		flag = prefs.FriendRequests
	case CategoryMessage:
		flag = prefs.Messages
	case CategoryStatusChange:
		flag = prefs.StatusChanges
	}
	return flag == nil || *flag
}
