package db

import (
	"context"
	"errors"
	"fmt"

	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

// storeUserRepository implements the UserRepository interface on a document store.
type storeUserRepository struct {
	store database.Store
}

// NewUserRepository creates a new UserRepository backed by store.
func NewUserRepository(store database.Store) UserRepository {
	return &storeUserRepository{store: store}
}

// GetByID retrieves a user by Firebase Auth UID.
func (r *storeUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	doc, err := r.store.Get(ctx, UsersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}

	var user models.User
	if err := database.Decode(doc.Data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = doc.ID
	return &user, nil
}

// SetDeviceToken stores the device's current push registration token.
func (r *storeUserRepository) SetDeviceToken(ctx context.Context, userID, token string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetDeviceToken operation")
	}
	if err := r.store.Merge(ctx, UsersCollection, userID, map[string]interface{}{"fcmToken": token}); err != nil {
		return fmt.Errorf("failed to set device token for user '%s': %w", userID, err)
	}
	return nil
}

// ClearDeviceToken removes the fcmToken field unless the device has since registered a new token.
func (r *storeUserRepository) ClearDeviceToken(ctx context.Context, userID, staleToken string) error {
	if _, err := r.store.DeleteFieldIfEqual(ctx, UsersCollection, userID, "fcmToken", staleToken); err != nil {
		return fmt.Errorf("failed to clear device token for user '%s': %w", userID, err)
	}
	return nil
}

// UpdatePreferences merges the provided preference flags into notificationPreferences.
func (r *storeUserRepository) UpdatePreferences(ctx context.Context, userID string, prefs models.UpdatePreferencesRequest) error {
	fields := map[string]interface{}{}
	if prefs.FriendRequests != nil {
		fields["friendRequests"] = *prefs.FriendRequests
	}
	if prefs.Messages != nil {
		fields["messages"] = *prefs.Messages
	}
	if prefs.StatusChanges != nil {
		fields["statusChanges"] = *prefs.StatusChanges
	}
	if len(fields) == 0 {
		return nil
	}
	err := r.store.Merge(ctx, UsersCollection, userID, map[string]interface{}{"notificationPreferences": fields})
	if err != nil {
		return fmt.Errorf("failed to update notification preferences for user '%s': %w", userID, err)
	}
	return nil
}
