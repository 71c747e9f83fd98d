package main

import (
	"context"
	"log"

	"github.com/Jadeja143/ghost/config"
	"github.com/Jadeja143/ghost/internal/handler"
	"github.com/Jadeja143/ghost/internal/redis"
	"github.com/Jadeja143/ghost/internal/repository"
	"github.com/Jadeja143/ghost/internal/server"
	"github.com/Jadeja143/ghost/internal/services"
	"github.com/Jadeja143/ghost/internal/ws"
	"github.com/Jadeja143/ghost/pkg/database"
	"github.com/Jadeja143/ghost/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	presence := redis.NewPresenceStore(redisClient)
	limiter := redis.NewRateLimiter(redisClient, redis.DefaultRateLimitConfig())

	userRepo := repository.NewUserRepository(pool)
	convRepo := repository.NewConversationRepository(pool)
	msgRepo := repository.NewMessageRepository(pool)
	notifRepo := repository.NewNotificationRepository(pool)

	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry, l)

	authService := services.NewAuthService(userRepo, cfg)
	convService := services.NewConversationService(convRepo, userRepo, presence)
	msgService := services.NewMessageService(msgRepo, convRepo, userRepo, dispatcher, presence, cfg.MaxMessageLength)
	notifService := services.NewNotificationService(notifRepo, userRepo, dispatcher, presence, cfg.NotificationPageSize)

	handlers := &server.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Conversations: handler.NewConversationHandler(convService),
		Messages:      handler.NewMessageHandler(msgService),
		Notifications: handler.NewNotificationHandler(notifService),
		Socket:        ws.NewHandler(registry, authService, presence, l),
	}

	srv := server.New(cfg, l, pool)
	srv.SetupRoutes(handlers, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
