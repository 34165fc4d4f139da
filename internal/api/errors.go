package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/middleware"
)

// mapSocialErrorToStatus maps errors from core.SocialService to HTTP status codes and ErrorResponse.
func mapSocialErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	switch {
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrFriendRequestNotFound),
		errors.Is(err, core.ErrFriendshipNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, core.ErrNotRequestRecipient):
		statusCode = http.StatusForbidden
	case errors.Is(err, core.ErrFriendRequestExists),
		errors.Is(err, core.ErrAlreadyFriends),
		errors.Is(err, core.ErrFriendRequestNotPending):
		statusCode = http.StatusConflict
	case errors.Is(err, core.ErrSelfFriendRequest),
		errors.Is(err, core.ErrSelfMessage),
		errors.Is(err, core.ErrEmptyMessage),
		errors.Is(err, core.ErrInvalidAvailability),
		errors.Is(err, core.ErrEmptyDeviceToken):
		statusCode = http.StatusBadRequest
	default:
		logger.Error("Internal Server Error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(statusCode, ErrorResponse{Error: err.Error()})
}

// currentUserID returns the authenticated UID, writing a 401 when it is missing.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return "", false
	}
	return userID, true
}
