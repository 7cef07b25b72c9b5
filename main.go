// File: fixhub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fixhub/config"
	"fixhub/database/docstore"
	"fixhub/handlers"
	"fixhub/middleware"
	"fixhub/routes"
	"fixhub/services/analyzer"
	"fixhub/services/history"
	"fixhub/services/provider"
	"fixhub/services/storage"
	"fixhub/services/ticket"
	"fixhub/services/uploadsession"
	"fixhub/services/user"
	"fixhub/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	store, err := docstore.Open(config.AppConfig.DataDir, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open document store: %v", err)
	}

	var storageService storage.StorageService = storage.NoopStorage{}
	if config.CloudinaryConfigured() {
		cloudinaryService, err := storage.NewCloudinaryStorage(
			config.AppConfig.CloudinaryCloudName,
			config.AppConfig.CloudinaryAPIKey,
			config.AppConfig.CloudinaryAPISecret,
		)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
		}
		storageService = cloudinaryService
	} else {
		logger.Warn("Cloudinary not configured; images will be kept as base64 previews")
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(handlers.RequestLoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// services.
	userService := user.NewDefaultUserService(store)
	providerService := provider.NewDefaultProviderService(store)
	historyService := history.NewDefaultHistoryService(store)
	ticketService := ticket.NewDefaultTicketService(store, providerService, historyService)
	sessionService := uploadsession.NewDefaultSessionService(store)
	analyzerService := analyzer.NewDefaultAnalyzerService(config.AppConfig.GeminiAPIKey)

	// Seed the four fixed providers and backfill provider info onto any
	// pre-existing records.
	providerService.Seed()
	ticket.MigrateProviderInfo(store, providerService)

	// handlers.
	authHandler := handlers.NewAuthHandler(userService)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, historyService, storageService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	sessionHandler := handlers.NewUploadSessionHandler(sessionService)
	debugHandler := handlers.NewDebugHandler(store)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Users: userService,

		SignupHandler: authHandler.SignupHandler,
		LoginHandler:  authHandler.LoginHandler,
		MeHandler:     authHandler.MeHandler,

		AnalyzeHandler: analyzeHandler.Handle,

		CreateTicketHandler: ticketHandler.CreateHandler,
		ListTicketsHandler:  ticketHandler.ListHandler,

		ListHistoryHandler:   historyHandler.ListHandler,
		DeleteHistoryHandler: historyHandler.DeleteHandler,
		ClearHistoryHandler:  historyHandler.ClearHandler,

		CreateSessionHandler: sessionHandler.CreateHandler,
		SessionStatusHandler: sessionHandler.StatusHandler,
		SessionUploadHandler: sessionHandler.UploadHandler,
		SessionFilesHandler:  sessionHandler.FilesHandler,

		DebugStorageHandler: debugHandler.StorageHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "4000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
