package models

// SendFriendRequestRequest is the body of POST /friend-requests.
type SendFriendRequestRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
}

// SendMessageRequest is the body of POST /conversations/:userId/messages.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SetWeekendStatusRequest is the body of PUT /weekend-status.
// IsVisible is a pointer so an omitted flag can default to visible.
type SetWeekendStatusRequest struct {
	Status     Availability `json:"status" binding:"required"`
	IsVisible  *bool        `json:"isVisible,omitempty"`
	CourseName string       `json:"courseName,omitempty"`
	Companions []string     `json:"companions,omitempty"`
	TimeSlots  []string     `json:"timeSlots,omitempty"`
}

// RegisterDeviceTokenRequest is the body of PUT /users/me/device-token.
type RegisterDeviceTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdatePreferencesRequest is the body of PUT /users/me/notification-preferences.
// Omitted fields are left unchanged.
type UpdatePreferencesRequest struct {
	FriendRequests *bool `json:"friendRequests,omitempty"`
	Messages       *bool `json:"messages,omitempty"`
	StatusChanges  *bool `json:"statusChanges,omitempty"`
}
