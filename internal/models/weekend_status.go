package models

import "time"

// Availability is the weekend availability category a user declares.
type Availability string

const (
	AvailabilityLookingToPlay     Availability = "lookingToPlay"
	AvailabilityAlreadyPlaying    Availability = "alreadyPlaying"
	AvailabilitySeekingAdditional Availability = "seekingAdditional"
)

// WeekendStatus is keyed by user ID; a write replaces the previous status.
type WeekendStatus struct {
	UserID     string       `json:"userId" firestore:"-"`
	Status     Availability `json:"status" firestore:"status"`
	IsVisible  bool         `json:"isVisible" firestore:"isVisible"`
	CourseName string       `json:"courseName,omitempty" firestore:"courseName,omitempty"`
	Companions []string     `json:"companions,omitempty" firestore:"companions,omitempty"`
	TimeSlots  []string     `json:"timeSlots,omitempty" firestore:"timeSlots,omitempty"`
	UpdatedAt  time.Time    `json:"updatedAt" firestore:"updatedAt"`
}
