package models

import "time"

// Message is one chat message stored under conversations/{conversationId}/messages.
type Message struct {
	ID         string    `json:"id" firestore:"-"`
	SenderID   string    `json:"senderId" firestore:"senderId"`
	ReceiverID string    `json:"receiverId" firestore:"receiverId"`
	Text       string    `json:"text" firestore:"text"`
	Timestamp  time.Time `json:"timestamp" firestore:"timestamp"`
	Read       bool      `json:"read" firestore:"read"`
}

// Conversation aggregates the latest message and per-participant unread counters.
type Conversation struct {
	ID            string         `json:"id" firestore:"-"`
	Participants  []string       `json:"participants" firestore:"participants"`
	LastMessage   string         `json:"lastMessage" firestore:"lastMessage"`
	LastMessageAt time.Time      `json:"lastMessageAt" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unreadCount" firestore:"unreadCount"`
}
