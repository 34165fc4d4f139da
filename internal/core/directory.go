package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"teeup-backend-go/internal/db"
	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/cache"
)

const displayNameKeyPrefix = "displayName:"

// userDirectory implements the UserDirectory interface.
type userDirectory struct {
	users  db.UserRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewUserDirectory creates a new UserDirectory. nameCache may be nil.
func NewUserDirectory(users db.UserRepository, nameCache cache.Cache, ttl time.Duration, logger *zap.Logger) UserDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userDirectory{users: users, cache: nameCache, ttl: ttl, logger: logger}
}

func (d *userDirectory) GetRecipient(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty recipient id: %w", db.ErrNotFound)
	}
	return d.users.GetByID(ctx, userID)
}

func (d *userDirectory) DisplayName(ctx context.Context, userID, fallback string) string {
	if userID == "" {
		return fallback
	}
	if d.cache != nil {
		if name, err := d.cache.Get(ctx, displayNameKeyPrefix+userID); err == nil && name != "" {
			return name
		}
	}

	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			d.logger.Warn("Failed to read user for display name, using fallback",
				zap.String("userID", userID), zap.Error(err))
		}
		return fallback
	}
	if user.DisplayName == "" {
		return fallback
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, displayNameKeyPrefix+userID, user.DisplayName, d.ttl); err != nil {
			d.logger.Debug("Failed to cache display name", zap.String("userID", userID), zap.Error(err))
		}
	}
	return user.DisplayName
}

func (d *userDirectory) ClearDeviceToken(ctx context.Context, userID, staleToken string) error {
	return d.users.ClearDeviceToken(ctx, userID, staleToken)
}
