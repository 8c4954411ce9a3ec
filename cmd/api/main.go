package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/restlos-studio/dashboard-backend/api/routes"
	"github.com/restlos-studio/dashboard-backend/internal/config"
	"github.com/restlos-studio/dashboard-backend/internal/handlers"
	"github.com/restlos-studio/dashboard-backend/internal/repositories"
	mongorepo "github.com/restlos-studio/dashboard-backend/internal/repositories/mongodb"
	"github.com/restlos-studio/dashboard-backend/internal/services"
	"github.com/restlos-studio/dashboard-backend/pkg/email"
	"github.com/restlos-studio/dashboard-backend/pkg/logger"
	"github.com/restlos-studio/dashboard-backend/pkg/mongodb"
)

func main() {
	// .env is optional, real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not configured")
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zlog.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongodb.EnsureIndexes(indexCtx, db); err != nil {
		cancelIndex()
		zlog.Fatal("failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var pendingRepo repositories.PendingUserRepository = mongorepo.NewPendingUserRepository(db)
	var campaignRepo repositories.CampaignRepository = mongorepo.NewCampaignRepository(db)

	var mailer email.Mailer
	switch cfg.Email.Provider {
	case "smtp":
		mailer = email.NewSMTPMailer(cfg.Email.SMTP.Host, cfg.Email.SMTP.Port,
			cfg.Email.SMTP.Username, cfg.Email.SMTP.Password,
			cfg.Email.FromEmail, cfg.Email.FromName, zlog)
	default:
		mailer = email.NewResendMailer(cfg.Email.Resend.APIKey,
			cfg.Email.FromEmail, cfg.Email.FromName, zlog)
	}

	authService := services.NewAuthService(userRepo, cfg, zlog)
	registrationService := services.NewRegistrationService(userRepo, pendingRepo, mailer, zlog)
	userService := services.NewUserService(userRepo, zlog)
	campaignService := services.NewCampaignService(campaignRepo, zlog)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		RegistrationHandler: handlers.NewRegistrationHandler(registrationService),
		UserHandler:         handlers.NewUserHandler(userService),
		AdminUserHandler:    handlers.NewAdminUserHandler(userService, mailer, zlog),
		CampaignHandler:     handlers.NewCampaignHandler(campaignService),
	}

	router := routes.SetupRouter(cfg, zlog, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}
