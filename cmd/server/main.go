// Package main initializes and starts the task manager HTTP server,
// setting up configuration, logging, the MongoDB connection,
// repositories, services, handlers and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/taskhub/backend/internal/config"
	"github.com/taskhub/backend/internal/db"
	"github.com/taskhub/backend/internal/logger"
	"github.com/taskhub/backend/internal/middleware"
	"github.com/taskhub/backend/internal/repository"
	"github.com/taskhub/backend/internal/server/handler/http"
	"github.com/taskhub/backend/internal/service"
	"github.com/taskhub/backend/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// The signing secret is process-wide and immutable; refusing to
	// start without it beats failing on the first login.
	tokenService, err := token.New(options.JWTSecret)
	if err != nil {
		zapLogger.Fatal("JWT_SECRET is required", zap.Error(err))
	}

	// Initialize the MongoDB connection and indexes.
	database, client, err := db.InitMongo(context.Background(), options.MongoURI, options.MongoDatabase)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and tasks.
	userRepo := repository.NewMongoUserRepository(database)
	taskRepo := repository.NewMongoTaskRepository(database)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo)
	taskService := service.NewTaskService(taskRepo)

	// Create HTTP handlers for auth and task endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Tokens: tokenService}
	taskHandler := &http.TaskHandler{TaskService: taskService}

	// Build the router with middleware and routes.
	auth := middleware.BearerAuth(tokenService, authService)
	router := http.NewRouter(authHandler, taskHandler, auth, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			zapLogger.Error("server shutdown", zap.Error(err))
		}
		if err := client.Disconnect(ctx); err != nil {
			zapLogger.Error("mongodb disconnect", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}

	<-done
	zapLogger.Info("server stopped")
}
