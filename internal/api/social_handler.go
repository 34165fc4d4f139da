package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/models"
)

// SocialHandler handles friend, message and weekend status endpoints.
type SocialHandler struct {
	social core.SocialService
	logger *zap.Logger
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(social core.SocialService, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{social: social, logger: logger}
}

// SendFriendRequest handles POST /friend-requests
func (h *SocialHandler) SendFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	created, err := h.social.SendFriendRequest(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, FriendRequestResponse{Request: created})
}

// AcceptFriendRequest handles POST /friend-requests/:requestId/accept
func (h *SocialHandler) AcceptFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friendship, err := h.social.AcceptFriendRequest(c.Request.Context(), userID, c.Param("requestId"))
	if err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// DeclineFriendRequest handles POST /friend-requests/:requestId/decline
func (h *SocialHandler) DeclineFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.social.DeclineFriendRequest(c.Request.Context(), userID, c.Param("requestId")); err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Friend request declined"})
}

// ListFriends handles GET /friends
func (h *SocialHandler) ListFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friends, err := h.social.ListFriends(c.Request.Context(), userID)
	if err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, FriendsResponse{Friends: friends})
}

// RemoveFriend handles DELETE /friends/:friendId
func (h *SocialHandler) RemoveFriend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.social.RemoveFriend(c.Request.Context(), userID, c.Param("friendId")); err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendMessage handles POST /conversations/:userId/messages
func (h *SocialHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	msg, err := h.social.SendMessage(c.Request.Context(), userID, c.Param("userId"), req.Text)
	if err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// SetWeekendStatus handles PUT /weekend-status
func (h *SocialHandler) SetWeekendStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.SetWeekendStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	status, err := h.social.SetWeekendStatus(c.Request.Context(), userID, req)
	if err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ClearWeekendStatus handles DELETE /weekend-status
func (h *SocialHandler) ClearWeekendStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.social.ClearWeekendStatus(c.Request.Context(), userID); err != nil {
		mapSocialErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
