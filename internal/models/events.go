package models

// FriendRequestCreated is delivered once per new friendRequests/{requestId} document.
type FriendRequestCreated struct {
	RequestID string
	Request   FriendRequest
}

// MessageCreated is delivered once per new conversations/{conversationId}/messages/{messageId} document.
type MessageCreated struct {
	ConversationID string
	MessageID      string
	Message        Message
}

// WeekendStatusWritten is delivered for every create, update or delete of weekendStatuses/{userId}.
// Status is nil when the document no longer exists.
type WeekendStatusWritten struct {
	UserID string
	Status *WeekendStatus
}

// Deleted reports whether the write removed the status document.
func (e WeekendStatusWritten) Deleted() bool {
	return e.Status == nil
}
