package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/events"
	"teeup-backend-go/internal/middleware"
)

// RouteDeps groups what SetupRoutes wires into handlers.
type RouteDeps struct {
	Social   core.SocialService
	Verifier middleware.TokenVerifier
	// Events enables POST /internal/events when non-nil.
	Events      *events.Router
	EventSecret string
	// Gatherer backs GET /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all application routes. Global middleware is applied by the caller.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, deps RouteDeps) {
	authMW := middleware.NewAuthMiddleware(deps.Verifier, logger)
	socialHandler := NewSocialHandler(deps.Social, logger)
	userHandler := NewUserHandler(deps.Social, logger)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		friendRequests := apiV1.Group("/friend-requests")
		{
			friendRequests.POST("", socialHandler.SendFriendRequest)
			friendRequests.POST("/:requestId/accept", socialHandler.AcceptFriendRequest)
			friendRequests.POST("/:requestId/decline", socialHandler.DeclineFriendRequest)
		}

		apiV1.GET("/friends", socialHandler.ListFriends)
		apiV1.DELETE("/friends/:friendId", socialHandler.RemoveFriend)

		apiV1.POST("/conversations/:userId/messages", socialHandler.SendMessage)

		apiV1.PUT("/weekend-status", socialHandler.SetWeekendStatus)
		apiV1.DELETE("/weekend-status", socialHandler.ClearWeekendStatus)

		me := apiV1.Group("/users/me")
		{
			me.PUT("/device-token", userHandler.RegisterDeviceToken)
			me.PUT("/notification-preferences", userHandler.UpdatePreferences)
		}
	}

	if deps.Events != nil {
		eventHandler := NewEventHandler(deps.Events, logger)
		router.POST("/internal/events", middleware.RequireEventSecret(deps.EventSecret), eventHandler.Ingest)
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "TeeUp notification backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1, /internal/events, /metrics and /health.")
}
