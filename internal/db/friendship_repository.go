package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

// storeFriendshipRepository implements the FriendshipRepository interface on a document store.
type storeFriendshipRepository struct {
	store  database.Store
	logger *zap.Logger
}

// NewFriendshipRepository creates a new FriendshipRepository backed by store.
func NewFriendshipRepository(store database.Store, logger *zap.Logger) FriendshipRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storeFriendshipRepository{store: store, logger: logger}
}

// ListByParticipant returns every edge whose participants contain userID.
func (r *storeFriendshipRepository) ListByParticipant(ctx context.Context, userID string) ([]*models.Friendship, error) {
	docs, err := r.store.QueryByField(ctx, FriendshipsCollection, "participants", database.OpArrayContains, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships for user '%s': %w", userID, err)
	}

	edges := make([]*models.Friendship, 0, len(docs))
	for _, doc := range docs {
		var f models.Friendship
		if err := database.Decode(doc.Data, &f); err != nil {
			r.logger.Warn("Skipping undecodable friendship document", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		f.ID = doc.ID
		edges = append(edges, &f)
	}
	return edges, nil
}

// Get returns the edge between a and b.
func (r *storeFriendshipRepository) Get(ctx context.Context, a, b string) (*models.Friendship, error) {
	id := models.CanonicalID(a, b)
	doc, err := r.store.Get(ctx, FriendshipsCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship '%s': %w", id, err)
	}
	var f models.Friendship
	if err := database.Decode(doc.Data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode friendship '%s': %w", id, err)
	}
	f.ID = doc.ID
	return &f, nil
}

// Create writes the canonical edge for (a, b). An existing edge yields database.ErrAlreadyExists.
func (r *storeFriendshipRepository) Create(ctx context.Context, a, b string) (*models.Friendship, error) {
	first, second := models.CanonicalPair(a, b)
	f := &models.Friendship{
		ID:           models.CanonicalID(a, b),
		Participants: []string{first, second},
		User1ID:      first,
		User2ID:      second,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.store.Create(ctx, FriendshipsCollection, f.ID, map[string]interface{}{
		"participants": f.Participants,
		"user1Id":      f.User1ID,
		"user2Id":      f.User2ID,
		"createdAt":    f.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create friendship '%s': %w", f.ID, err)
	}
	return f, nil
}

// Delete removes the edge between a and b.
func (r *storeFriendshipRepository) Delete(ctx context.Context, a, b string) error {
	id := models.CanonicalID(a, b)
	if err := r.store.Delete(ctx, FriendshipsCollection, id); err != nil {
		return fmt.Errorf("failed to delete friendship '%s': %w", id, err)
	}
	return nil
}
