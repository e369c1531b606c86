package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scholarhub_backend/database"
	"scholarhub_backend/internal/auth"
	"scholarhub_backend/internal/config"
	"scholarhub_backend/internal/email"
	"scholarhub_backend/internal/handlers"
	"scholarhub_backend/internal/logger"
	"scholarhub_backend/internal/middleware"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/repositories"
	"scholarhub_backend/internal/routes"
	"scholarhub_backend/internal/services"
	"scholarhub_backend/internal/storage"
	"scholarhub_backend/internal/validator"
	"scholarhub_backend/internal/workers"
	"scholarhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	shutdownTimeout        = 10 * time.Second
	rateLimiterCleanupTick = 10 * time.Minute
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		apperrors.SetDebug(false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		logger.Info("Database migrated")
	} else if err := database.EnsureBroadcastLock(gormDB); err != nil {
		logger.Fatal("Failed to seed broadcast lock", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// без администратора управлять системой некому
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, serviceContainer, err := SetupRouter(ctx, cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	repairWorker := workers.NewFanoutRepairWorker(gormDB, serviceContainer.NotificationService, cfg.Notifications.RepairSchedule)
	if err := repairWorker.Start(ctx); err != nil {
		logger.Fatal("Failed to start fan-out repair worker", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited")
}

// SetupRouter собирает хранилище, сервисы, хэндлеры и маршруты.
// ctx ограничивает жизнь фоновой очистки rate limiter.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer, error) {
	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	emailService, err := initializeEmail(cfg)
	if err != nil {
		return nil, nil, err
	}

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, storageInstance, emailService)

	// 2. Хэндлеры
	limiter := middleware.NewRateLimiter(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst)
	limiter.StartCleanup(ctx, rateLimiterCleanupTick)
	appHandlers := initializeHandlers(cfg, serviceContainer, limiter)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)
	if local, ok := storageInstance.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer, nil
}

func initializeEmail(cfg *config.Config) (email.Provider, error) {
	if !cfg.Email.Enabled {
		logger.Warn("Email disabled, status notifications are logged only")
		return &MockEmailProvider{}, nil
	}

	provider := email.NewGomailProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, email.NewTemplateManager())
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email configuration: %w", err)
	}
	return provider, nil
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, emailService email.Provider) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	scholarshipRepo := repositories.NewScholarshipRepository()
	applicationRepo := repositories.NewApplicationRepository()
	notificationRepo := repositories.NewNotificationRepository()

	// --- Сервисы ---
	uploadService := services.NewUploadService(storageInstance, &services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		Folder:       cfg.Upload.Folder,
		AllowedTypes: cfg.Upload.AllowedTypes,
		ImageQuality: cfg.Upload.ImageQuality,
	})
	authService := services.NewAuthService(userRepo, services.AuthConfig{
		Secret:           []byte(cfg.JWT.Secret),
		TokenTTL:         time.Duration(cfg.JWT.TTLMinutes) * time.Minute,
		DenyBlockedLogin: cfg.Auth.DenyBlockedLogin,
	})
	userService := services.NewUserService(userRepo, notificationRepo)
	scholarshipService := services.NewScholarshipService(scholarshipRepo, applicationRepo)
	applicationService := services.NewApplicationService(applicationRepo, scholarshipRepo, emailService)
	recommendationService := services.NewRecommendationService(applicationRepo, scholarshipRepo, nil)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, services.NotificationConfig{
		Cooldown:  time.Duration(cfg.Notifications.BroadcastCooldownMs) * time.Millisecond,
		BatchSize: cfg.Notifications.FanoutBatchSize,
		Now:       time.Now,
	})

	return &services.ServiceContainer{
		AuthService:           authService,
		UserService:           userService,
		ScholarshipService:    scholarshipService,
		ApplicationService:    applicationService,
		RecommendationService: recommendationService,
		NotificationService:   notificationService,
		UploadService:         uploadService,
		EmailService:          emailService,
	}
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer, limiter *middleware.RateLimiter) *handlers.AppHandlers {
	customValidator := validator.New()
	authenticator := middleware.NewAuthenticator([]byte(cfg.JWT.Secret), repositories.NewUserRepository(), cfg.Auth.DenyBlockedLogin)
	baseHandler := handlers.NewBaseHandler(customValidator, authenticator)

	return &handlers.AppHandlers{
		AuthHandler:           handlers.NewAuthHandler(baseHandler, services.AuthService, limiter.Middleware()),
		UserHandler:           handlers.NewUserHandler(baseHandler, services.UserService, services.UploadService),
		ScholarshipHandler:    handlers.NewScholarshipHandler(baseHandler, services.ScholarshipService),
		ApplicationHandler:    handlers.NewApplicationHandler(baseHandler, services.ApplicationService, services.UploadService),
		RecommendationHandler: handlers.NewRecommendationHandler(baseHandler, services.RecommendationService),
		NotificationHandler:   handlers.NewNotificationHandler(baseHandler, services.NotificationService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin создает администратора из конфигурации, если пользователя с таким email еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	_, err := userRepo.FindByEmail(db, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     cfg.FirstAdminUsername,
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
		Status:       models.UserStatusActive,
	}
	if err := userRepo.Create(db, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
