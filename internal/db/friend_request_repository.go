package db

import (
	"context"
	"errors"
	"fmt"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

// storeFriendRequestRepository implements the FriendRequestRepository interface on a document store.
type storeFriendRequestRepository struct {
	store database.Store
}

// NewFriendRequestRepository creates a new FriendRequestRepository backed by store.
func NewFriendRequestRepository(store database.Store) FriendRequestRepository {
	return &storeFriendRequestRepository{store: store}
}

// Create adds a request with an auto-generated ID and returns that ID.
func (r *storeFriendRequestRepository) Create(ctx context.Context, req *models.FriendRequest) (string, error) {
	id, err := r.store.Create(ctx, FriendRequestsCollection, "", map[string]interface{}{
		"senderId":    req.SenderID,
		"recipientId": req.RecipientID,
		"status":      string(req.Status),
		"sentAt":      req.SentAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create friend request: %w", err)
	}
	req.ID = id
	return id, nil
}

// GetByID retrieves a request.
func (r *storeFriendRequestRepository) GetByID(ctx context.Context, requestID string) (*models.FriendRequest, error) {
	if requestID == "" {
		return nil, errors.New("requestID cannot be empty for GetByID operation")
	}
	doc, err := r.store.Get(ctx, FriendRequestsCollection, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend request '%s': %w", requestID, err)
	}
	return decodeFriendRequest(doc)
}

// UpdateStatus sets the status field. Transition rules are enforced by the caller.
func (r *storeFriendRequestRepository) UpdateStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) error {
	err := r.store.Merge(ctx, FriendRequestsCollection, requestID, map[string]interface{}{"status": string(status)})
	if err != nil {
		return fmt.Errorf("failed to update friend request '%s' status: %w", requestID, err)
	}
	return nil
}

// ListBetween queries by sender for each side of the pair and keeps the requests aimed at the other side.
func (r *storeFriendRequestRepository) ListBetween(ctx context.Context, a, b string) ([]*models.FriendRequest, error) {
	var out []*models.FriendRequest
	for _, sender := range []string{a, b} {
		docs, err := r.store.QueryByField(ctx, FriendRequestsCollection, "senderId", database.OpEqual, sender)
		if err != nil {
			return nil, fmt.Errorf("failed to list friend requests sent by '%s': %w", sender, err)
		}
		for _, doc := range docs {
			req, err := decodeFriendRequest(doc)
			if err != nil {
				return nil, err
			}
			if req.Involves(a, b) {
				out = append(out, req)
			}
		}
	}
	return out, nil
}

func decodeFriendRequest(doc *database.Document) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := database.Decode(doc.Data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode friend request '%s': %w", doc.ID, err)
	}
	req.ID = doc.ID
	return &req, nil
}
