package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/models"
)

// UserHandler handles the caller's device and notification settings.
type UserHandler struct {
	social core.SocialService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(social core.SocialService, logger *zap.Logger) *UserHandler {
	return &UserHandler{social: social, logger: logger}
}

// RegisterDeviceToken handles PUT /users/me/device-token
func (h *UserHandler) RegisterDeviceToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := h.social.RegisterDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdatePreferences handles PUT /users/me/notification-preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := h.social.UpdatePreferences(c.Request.Context(), userID, req); err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
