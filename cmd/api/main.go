package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"eventconsole/config"
	_ "eventconsole/docs"
	"eventconsole/internal/adapters/auth"
	"eventconsole/internal/adapters/email"
	"eventconsole/internal/adapters/objectstore"
	httpdelivery "eventconsole/internal/delivery/http"
	"eventconsole/internal/delivery/http/controllers"
	"eventconsole/internal/delivery/http/middleware"
	"eventconsole/internal/repository/postgres"
	"eventconsole/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Event Console API
// @version 1.0
// @description Admin console backend for event registration and ticketing.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailFrom,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	store, err := objectstore.NewStore(objectstore.StoreConfig{
		Provider: cfg.AssetProvider,
		S3: objectstore.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create object store", "error", err)
		os.Exit(1)
	}

	eventService := services.NewEventService(eventRepo, serviceTimeout)
	registrationService := services.NewRegistrationService(eventRepo, registrationRepo, serviceTimeout)
	salesService := services.NewSalesService(eventRepo, registrationRepo, serviceTimeout)
	accountService := services.NewAccountService(accountRepo, hasher, tokenCodec, cfg.JWTExpiry, serviceTimeout)
	messageService := services.NewMessageService(eventRepo, registrationRepo, conversationRepo, mailer, serviceTimeout)
	assetService := services.NewAssetService(eventRepo, store, serviceTimeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:         controllers.NewAuthController(logger, accountService),
		Account:      controllers.NewAccountController(logger, accountService),
		Event:        controllers.NewEventController(logger, eventService),
		Registration: controllers.NewRegistrationController(logger, registrationService),
		Sales:        controllers.NewSalesController(logger, salesService),
		Asset:        controllers.NewAssetController(logger, assetService),
		Message:      controllers.NewMessageController(logger, messageService),
	}, tokenCodec)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
