// Package main runs the event management HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventdesk/backend/config"
	"github.com/eventdesk/backend/internal/auth"
	"github.com/eventdesk/backend/internal/events"
	"github.com/eventdesk/backend/internal/groups"
	"github.com/eventdesk/backend/internal/middleware"
	"github.com/eventdesk/backend/internal/users"
	"github.com/eventdesk/backend/pkg/database"
	"github.com/eventdesk/backend/pkg/redis"
	"github.com/eventdesk/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Projection cache is optional; the API serves from storage without it.
	var eventCache *events.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("event cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			eventCache = events.NewCache(rdb.Client, 30*time.Second, logger)
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, logger)
	authHandler := auth.NewHandler(userRepo, jwtService, logger)

	groupRepo := groups.NewRepository(pool)
	groupHandler := groups.NewHandler(groupRepo, logger)

	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, eventCache, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: login and self-registration.
	router.POST("/auth/login", authHandler.Login)
	router.POST("/users", userHandler.Create)

	// Protected API (JWT required; actor loaded from storage per request).
	api := router.Group("")
	api.Use(middleware.JWT(jwtService, userRepo))
	{
		api.GET("/users", middleware.RequireAdminOrSuperuser(), userHandler.List)
		api.GET("/users/:id", userHandler.Get)
		api.PUT("/users/:id", userHandler.Update)
		api.DELETE("/users/:id", userHandler.Delete)

		api.GET("/groups", middleware.RequireSuperuser(), groupHandler.List)
		api.POST("/groups", middleware.RequireSuperuser(), groupHandler.Create)
		api.GET("/groups/:id", middleware.RequireSuperuser(), groupHandler.Get)
		api.PUT("/groups/:id", middleware.RequireSuperuser(), groupHandler.Update)
		api.DELETE("/groups/:id", middleware.RequireSuperuser(), groupHandler.Delete)
		api.POST("/assign-roles", middleware.RequireSuperuser(), groupHandler.AssignRole)

		api.GET("/events", eventHandler.List)
		api.POST("/events", middleware.RequireAdminOrSuperuser(), eventHandler.Create)
		api.GET("/events/:id", eventHandler.Get)
		api.PUT("/events/:id", middleware.RequireAdminOrSuperuser(), eventHandler.Update)
		api.DELETE("/events/:id", middleware.RequireAdminOrSuperuser(), eventHandler.Delete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
