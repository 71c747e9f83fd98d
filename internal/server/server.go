package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jadeja143/ghost/config"
	"github.com/Jadeja143/ghost/internal/handler"
	"github.com/Jadeja143/ghost/internal/middleware"
	"github.com/Jadeja143/ghost/internal/redis"
	"github.com/Jadeja143/ghost/internal/services"
	"github.com/Jadeja143/ghost/internal/transport/httpdto"
	"github.com/Jadeja143/ghost/internal/ws"
	"github.com/Jadeja143/ghost/pkg/database"
	"github.com/Jadeja143/ghost/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	pool       *pgxpool.Pool
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Conversations *handler.ConversationHandler
	Messages      *handler.MessageHandler
	Notifications *handler.NotificationHandler
	Socket        *ws.Handler
}

func New(cfg *config.Config, l *logger.Logger, pool *pgxpool.Pool) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
		pool:   pool,
	}
}

// Engine exposes the router for in-process test servers.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), s.pool); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	auth := s.engine.Group("/api/auth")
	auth.Use(middleware.AuthRateLimitMiddleware(limiter))
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	api := s.engine.Group("/api")
	api.Use(middleware.AuthMiddleware(authService))
	{
		api.POST("/conversations", handlers.Conversations.Create)
		api.GET("/conversations", handlers.Conversations.List)
		api.POST("/conversations/mute", handlers.Conversations.Mute)
		api.POST("/conversations/read-receipt-toggle", handlers.Conversations.ToggleReadReceipts)

		api.POST("/messages", middleware.MessageRateLimitMiddleware(limiter), handlers.Messages.Send)
		api.GET("/messages/:conversationId", handlers.Messages.List)

		api.POST("/notifications", handlers.Notifications.Create)
		api.GET("/notifications", handlers.Notifications.List)
		api.POST("/notifications/:id/read", handlers.Notifications.MarkRead)
	}

	// The socket carries its credential in the token query parameter, so
	// it sits outside the bearer middleware.
	s.engine.GET("/ws", handlers.Socket.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
