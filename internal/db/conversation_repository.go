package db

import (
	"context"
	"fmt"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

// storeConversationRepository implements the ConversationRepository interface on a document store.
type storeConversationRepository struct {
	store database.Store
}

// NewConversationRepository creates a new ConversationRepository backed by store.
func NewConversationRepository(store database.Store) ConversationRepository {
	return &storeConversationRepository{store: store}
}

func messagesPath(conversationID string) string {
	return ConversationsCollection + "/" + conversationID + "/" + MessagesCollection
}

// AddMessage stores msg under the conversation, then refreshes the conversation preview
// and bumps the receiver's unread counter. The two writes are not atomic.
func (r *storeConversationRepository) AddMessage(ctx context.Context, conversationID string, msg *models.Message) (string, error) {
	id, err := r.store.Create(ctx, messagesPath(conversationID), "", map[string]interface{}{
		"senderId":   msg.SenderID,
		"receiverId": msg.ReceiverID,
		"text":       msg.Text,
		"timestamp":  msg.Timestamp,
		"read":       msg.Read,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message in conversation '%s': %w", conversationID, err)
	}
	msg.ID = id

	first, second := models.CanonicalPair(msg.SenderID, msg.ReceiverID)
	err = r.store.Merge(ctx, ConversationsCollection, conversationID, map[string]interface{}{
		"participants":  []string{first, second},
		"lastMessage":   msg.Text,
		"lastMessageAt": msg.Timestamp,
		"unreadCount": map[string]interface{}{
			msg.ReceiverID: database.Increment(1),
		},
	})
	if err != nil {
		return id, fmt.Errorf("failed to update conversation '%s' preview: %w", conversationID, err)
	}
	return id, nil
}

// GetByID retrieves a conversation summary.
func (r *storeConversationRepository) GetByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	doc, err := r.store.Get(ctx, ConversationsCollection, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation '%s': %w", conversationID, err)
	}
	var convo models.Conversation
	if err := database.Decode(doc.Data, &convo); err != nil {
		return nil, fmt.Errorf("failed to decode conversation '%s': %w", conversationID, err)
	}
	convo.ID = doc.ID
	return &convo, nil
}
