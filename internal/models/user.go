package models

// User is the slice of a user profile the backend reads and writes.
// The document ID is the Firebase Auth UID.
type User struct {
	ID                      string                   `json:"id" firestore:"-"`
	DisplayName             string                   `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	FCMToken                string                   `json:"-" firestore:"fcmToken,omitempty"` // Empty means not delivery-eligible.
	NotificationPreferences *NotificationPreferences `json:"notificationPreferences,omitempty" firestore:"notificationPreferences,omitempty"`
}

// HasDeviceToken reports whether the user can receive push notifications.
func (u *User) HasDeviceToken() bool {
	return u != nil && u.FCMToken != ""
}

// NotificationPreferences holds per-category opt-outs.
// Nil fields are treated as enabled so records written before preferences existed keep receiving pushes.
type NotificationPreferences struct {
	FriendRequests *bool `json:"friendRequests,omitempty" firestore:"friendRequests,omitempty"`
	Messages       *bool `json:"messages,omitempty" firestore:"messages,omitempty"`
	StatusChanges  *bool `json:"statusChanges,omitempty" firestore:"statusChanges,omitempty"`
}
