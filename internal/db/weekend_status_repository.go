package db

import (
	"context"
	"errors"
	"fmt"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

// storeWeekendStatusRepository implements the WeekendStatusRepository interface on a document store.
type storeWeekendStatusRepository struct {
	store database.Store
}

// NewWeekendStatusRepository creates a new WeekendStatusRepository backed by store.
func NewWeekendStatusRepository(store database.Store) WeekendStatusRepository {
	return &storeWeekendStatusRepository{store: store}
}

// GetByUserID retrieves the user's current status.
func (r *storeWeekendStatusRepository) GetByUserID(ctx context.Context, userID string) (*models.WeekendStatus, error) {
	doc, err := r.store.Get(ctx, WeekendStatusesCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekend status for user '%s': %w", userID, err)
	}
	var status models.WeekendStatus
	if err := database.Decode(doc.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode weekend status for user '%s': %w", userID, err)
	}
	status.UserID = doc.ID
	return &status, nil
}

// Set replaces the user's status document.
func (r *storeWeekendStatusRepository) Set(ctx context.Context, status *models.WeekendStatus) error {
	if status.UserID == "" {
		return errors.New("userID cannot be empty for weekend status Set operation")
	}
	data := map[string]interface{}{
		"status":    string(status.Status),
		"isVisible": status.IsVisible,
		"updatedAt": status.UpdatedAt,
	}
	if status.CourseName != "" {
		data["courseName"] = status.CourseName
	}
	if len(status.Companions) > 0 {
		data["companions"] = status.Companions
	}
	if len(status.TimeSlots) > 0 {
		data["timeSlots"] = status.TimeSlots
	}
	if err := r.store.Set(ctx, WeekendStatusesCollection, status.UserID, data); err != nil {
		return fmt.Errorf("failed to set weekend status for user '%s': %w", status.UserID, err)
	}
	return nil
}

// Delete removes the user's status.
func (r *storeWeekendStatusRepository) Delete(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, WeekendStatusesCollection, userID); err != nil {
		return fmt.Errorf("failed to delete weekend status for user '%s': %w", userID, err)
	}
	return nil
}
