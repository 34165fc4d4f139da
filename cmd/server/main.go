package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"teeup-backend-go/internal/api"
	"teeup-backend-go/internal/config"
	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/db"
	"teeup-backend-go/internal/events"
	"teeup-backend-go/internal/metrics"
	"teeup-backend-go/internal/middleware"
	"teeup-backend-go/internal/push"
	"teeup-backend-go/pkg/bus"
	"teeup-backend-go/pkg/cache"
	"teeup-backend-go/pkg/database"
	"teeup-backend-go/pkg/messagequeue"
)

// eventSource is a long-running producer of change events.
type eventSource interface {
	Run(ctx context.Context) error
}

func main() {
	// .env is read outside release mode only.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file loaded:", err)
		}
	}

	// --- 1. Configuration and logger ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if appConfig.IsRelease() {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded", zap.Strings("eventSources", appConfig.Sources()))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- 2. Firebase Admin SDK (Firestore, Auth, Messaging) ---
	initCtx, cancelInit := context.WithTimeout(rootCtx, 15*time.Second)
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	cancelInit()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	store, err := database.NewFirestoreStore(clients.Firestore, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create document store", zap.Error(err))
	}

	// --- 3. Repositories ---
	userRepo := db.NewUserRepository(store)
	friendshipRepo := db.NewFriendshipRepository(store, zapLogger)
	friendRequestRepo := db.NewFriendRequestRepository(store)
	conversationRepo := db.NewConversationRepository(store)
	weekendStatusRepo := db.NewWeekendStatusRepository(store)

	// --- 4. Optional infrastructure ---
	var nameCache cache.Cache
	if appConfig.RedisAddress != "" {
		redisCache, err := cache.NewRedisCache(rootCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Display name cache disabled", zap.Error(err))
		} else {
			nameCache = redisCache
			defer redisCache.Close()
		}
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)
	observers := []core.DeliveryObserver{appMetrics}
	if appConfig.NatsURL != "" {
		publisher, err := bus.Connect(appConfig.NatsURL, "teeup-notifier", zapLogger)
		if err != nil {
			zapLogger.Warn("Delivery outcome publishing disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			observers = append(observers, metrics.NewOutcomePublisher(publisher, appConfig.NatsOutcomeSubject, zapLogger))
		}
	}

	// --- 5. Services ---
	gateway, err := push.NewFCMGateway(clients.Messaging)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create push gateway", zap.Error(err))
	}
	labels := core.DefaultLabels()
	directory := core.NewUserDirectory(userRepo, nameCache, appConfig.DisplayNameCacheTTL, zapLogger)
	dispatcher := core.NewNotificationDispatcher(directory, gateway, zapLogger, observers...)
	triggers := core.NewTriggerService(dispatcher, directory, core.NewFriendGraph(friendshipRepo), labels, zapLogger)
	socialService := core.NewSocialService(core.SocialRepositories{
		Users:          userRepo,
		Friendships:    friendshipRepo,
		FriendRequests: friendRequestRepo,
		Conversations:  conversationRepo,
		WeekendStatus:  weekendStatusRepo,
	}, labels, zapLogger)
	eventRouter := events.NewTriggerRouter(triggers, zapLogger, appMetrics)
	zapLogger.Info("Core services initialized successfully.")

	// --- 6. Event sources ---
	var sources []eventSource
	if appConfig.SourceEnabled(config.SourceFirestore) {
		sources = append(sources, events.NewFirestoreSource(clients.Firestore, eventRouter, zapLogger))
	}
	if appConfig.SourceEnabled(config.SourceRabbitMQ) {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL, Prefetch: 16}, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mq.Close()
		sources = append(sources, events.NewQueueSource(mq, appConfig.RabbitMQQueue, eventRouter, zapLogger))
	}

	var sourcesWG sync.WaitGroup
	for _, src := range sources {
		sourcesWG.Add(1)
		go func() {
			defer sourcesWG.Done()
			if err := src.Run(rootCtx); err != nil {
				zapLogger.Error("Event source stopped with error", zap.String("source", fmt.Sprintf("%T", src)), zap.Error(err))
				stop()
			}
		}()
	}

	// --- 7. HTTP server ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
	}

	routeDeps := api.RouteDeps{
		Social:   socialService,
		Verifier: clients.Auth,
	}
	if appConfig.SourceEnabled(config.SourceHTTP) {
		routeDeps.Events = eventRouter
		routeDeps.EventSecret = appConfig.EventIngestSecret
	}
	api.SetupRoutes(router, zapLogger, routeDeps)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- 8. Graceful shutdown ---
	<-rootCtx.Done()
	zapLogger.Info("Shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	sourcesWG.Wait()

	zapLogger.Info("Server exiting gracefully.")
}
