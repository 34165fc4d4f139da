package db

import (
	"context"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

// ErrNotFound is returned (wrapped) by repositories when a record does not exist.
var ErrNotFound = database.ErrNotFound

// Collection names shared with the mobile client.
const (
	UsersCollection           = "users"
	FriendshipsCollection     = "friendships"
	FriendRequestsCollection  = "friendRequests"
	ConversationsCollection   = "conversations"
	MessagesCollection        = "messages"
	WeekendStatusesCollection = "weekendStatuses"
)

// UserRepository defines the user record operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	SetDeviceToken(ctx context.Context, userID, token string) error
	// ClearDeviceToken deletes the stored token only if it still equals staleToken.
	// Clearing an absent or replaced token is a no-op.
	ClearDeviceToken(ctx context.Context, userID, staleToken string) error
	UpdatePreferences(ctx context.Context, userID string, prefs models.UpdatePreferencesRequest) error
}

// FriendshipRepository defines friendship edge storage keyed by canonical pair ID.
type FriendshipRepository interface {
	ListByParticipant(ctx context.Context, userID string) ([]*models.Friendship, error)
	Get(ctx context.Context, a, b string) (*models.Friendship, error)
	Create(ctx context.Context, a, b string) (*models.Friendship, error)
	Delete(ctx context.Context, a, b string) error
}

// FriendRequestRepository defines friend request storage.
type FriendRequestRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) (string, error)
	GetByID(ctx context.Context, requestID string) (*models.FriendRequest, error)
	UpdateStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) error
	// ListBetween returns requests sent in either direction between a and b.
	ListBetween(ctx context.Context, a, b string) ([]*models.FriendRequest, error)
}

// ConversationRepository defines conversation and message storage.
type ConversationRepository interface {
	AddMessage(ctx context.Context, conversationID string, msg *models.Message) (string, error)
	GetByID(ctx context.Context, conversationID string) (*models.Conversation, error)
}

// WeekendStatusRepository defines weekend status storage, one document per user.
type WeekendStatusRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.WeekendStatus, error)
	Set(ctx context.Context, status *models.WeekendStatus) error
	Delete(ctx context.Context, userID string) error
}
