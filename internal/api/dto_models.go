package api

import "teeup-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FriendsResponse is returned by GET /friends.
type FriendsResponse struct {
	Friends []string `json:"friends"`
}

// FriendRequestResponse is returned when a friend request is created.
type FriendRequestResponse struct {
	Request *models.FriendRequest `json:"request"`
}

// EventAcceptedResponse is returned by POST /internal/events.
type EventAcceptedResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind,omitempty"`
	Routed bool   `json:"routed"`
}
