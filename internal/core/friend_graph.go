package core

import (
	"context"

	"teeup-backend-go/internal/db"
)

// friendGraph implements the FriendGraph interface on top of friendship edges.
type friendGraph struct {
	friendships db.FriendshipRepository
}

// NewFriendGraph creates a new FriendGraph.
func NewFriendGraph(friendships db.FriendshipRepository) FriendGraph {
	return &friendGraph{friendships: friendships}
}

// FriendIDs scans every edge containing userID and collects the other participant.
func (g *friendGraph) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	edges, err := g.friendships.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(edges))
	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		other := edge.Other(userID)
		if other == "" || other == userID {
			continue
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids, nil
}
