package models

import (
	"sort"
	"strings"
	"time"
)

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// FriendRequest is a directed request from SenderID to RecipientID.
type FriendRequest struct {
	ID          string              `json:"id" firestore:"-"`
	SenderID    string              `json:"senderId" firestore:"senderId"`
	RecipientID string              `json:"recipientId" firestore:"recipientId"`
	Status      FriendRequestStatus `json:"status" firestore:"status"`
	SentAt      time.Time           `json:"sentAt" firestore:"sentAt"`
}

// Involves reports whether the request is between a and b in either direction.
func (r *FriendRequest) Involves(a, b string) bool {
	return (r.SenderID == a && r.RecipientID == b) || (r.SenderID == b && r.RecipientID == a)
}

// Friendship is the single, symmetric edge stored for an unordered pair of users.
type Friendship struct {
	ID           string    `json:"id" firestore:"-"`
	Participants []string  `json:"participants" firestore:"participants"`
	User1ID      string    `json:"user1Id" firestore:"user1Id"`
	User2ID      string    `json:"user2Id" firestore:"user2Id"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// Other returns the participant that is not userID, or "" if userID is not part of the edge.
func (f *Friendship) Other(userID string) string {
	switch userID {
	case f.User1ID:
		return f.User2ID
	case f.User2ID:
		return f.User1ID
	}
	for _, p := range f.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// CanonicalID returns the order-independent identifier of the pair (a, b).
func CanonicalID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// CanonicalPair returns a and b in canonical (sorted) order.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// CanTransition reports whether a request may move from one status to another.
// Only pending requests can be answered, and answers are final.
func (s FriendRequestStatus) CanTransition(to FriendRequestStatus) bool {
	return s == FriendRequestPending && (to == FriendRequestAccepted || to == FriendRequestDeclined)
}
