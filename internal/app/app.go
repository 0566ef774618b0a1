package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusjobs_backend/database"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/config"
	"campusjobs_backend/internal/email"
	"campusjobs_backend/internal/handlers"
	"campusjobs_backend/internal/imageprocessor"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/middleware"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/routes"
	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/storage"
	"campusjobs_backend/internal/validator"
	"campusjobs_backend/internal/workers"
	"campusjobs_backend/pkg/apperrors"
	"campusjobs_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN, !cfg.IsProduction())
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	if err := seedFirstAdmin(gormDB, cfg, repositories.NewUserRepository()); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	if interval := time.Duration(cfg.Workers.JobDeadlineInterval) * time.Minute; interval > 0 {
		workers.NewJobWorker(gormDB, repositories.NewJobRepository(), repositories.NewRefreshTokenRepository(), interval).Start(ctx)
		logger.Info("Job deadline worker started", "interval", interval.String())
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// SetupRouter собирает зависимости и возвращает готовый *gin.Engine.
// Хаб ленты и прочие фоновые части живут до отмены ctx.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.AccessTTL())

	// 1. Хаб живой ленты
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)

	// 2. Сервисы
	serviceContainer := initializeServices(cfg, storageInstance, tokens, wsManager)

	// 3. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer, tokens)

	wsHandler := ws.NewWebSocketHandler(wsManager, func(c *gin.Context) (auth.Actor, error) {
		return serviceContainer.UserService.ResolveActor(c.Request.Context(), gormDB.WithContext(c.Request.Context()), middleware.GetUserID(c))
	}, cfg.CORS.AllowedOrigins)

	// 4. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 5. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, middleware.WebSocketAuthMiddleware(tokens), routes.AuthRateLimit{
		Limiter:  newLimiter(ctx, cfg),
		Requests: cfg.RateLimit.AuthRequests,
		Window:   time.Duration(cfg.RateLimit.AuthWindow) * time.Second,
	})

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, tokens *auth.TokenManager, publisher services.FeedPublisher) *services.ServiceContainer {
	emailService := newEmailProvider(cfg)

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	profileRepo := repositories.NewProfileRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	postRepo := repositories.NewPostRepository()
	notificationRepo := repositories.NewNotificationRepository()

	// --- Сервисы ---
	resolve := storage.Resolver(storageInstance, cfg.Server.PublicURL)
	uploadService := services.NewUploadService(
		storageInstance,
		imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
		services.UploadConfig{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
			MaxDimension: cfg.Upload.MaxDimension,
		},
		resolve,
	)

	return &services.ServiceContainer{
		UserService:         services.NewUserService(userRepo),
		AuthService:         services.NewAuthService(userRepo, profileRepo, refreshTokenRepo, tokens, cfg.RefreshTTL()),
		ProfileService:      services.NewProfileService(profileRepo, uploadService),
		JobService:          services.NewJobService(jobRepo, applicationRepo, publisher, resolve),
		ApplicationService:  services.NewApplicationService(applicationRepo, jobRepo, notificationRepo, emailService, resolve),
		PostService:         services.NewPostService(postRepo, jobRepo, uploadService, publisher),
		NotificationService: services.NewNotificationService(notificationRepo),
		UploadService:       uploadService,
		EmailService:        emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer, tokens *auth.TokenManager) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New(), services.UserService, tokens)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, services.UserService, services.PostService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, services.ProfileService),
		JobHandler:          handlers.NewJobHandler(baseHandler, services.JobService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, services.ApplicationService),
		PostHandler:         handlers.NewPostHandler(baseHandler, services.PostService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		FileHandler:         handlers.NewFileHandler(baseHandler, services.UploadService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// newLimiter - redis, если он настроен и отвечает, иначе лимит в памяти процесса
func newLimiter(ctx context.Context, cfg *config.Config) middleware.Limiter {
	if cfg.Redis.Addr == "" {
		logger.Warn("Redis is not configured, using in-memory rate limiter")
		return middleware.NewMemoryLimiter()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, using in-memory rate limiter", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return middleware.NewMemoryLimiter()
	}

	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	return middleware.NewRedisLimiter(client)
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled, notifications will only be logged")
		return logEmailProvider{}
	}

	renderer, err := email.NewTemplateManager()
	if err != nil {
		logger.Fatal("Failed to parse email templates", "error", err)
	}
	if dir := cfg.Email.TemplatesDir; dir != "" {
		if err := renderer.LoadTemplates(dir); err != nil {
			logger.Fatal("Failed to load email templates", "dir", dir, "error", err)
		}
	}

	provider, err := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	}, renderer)
	if err != nil {
		logger.Warn("SMTP is misconfigured, falling back to log-only email", "error", err)
		return logEmailProvider{}
	}
	return provider
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config, userRepo repositories.UserRepository) error {
	adminEmail := models.NormalizeEmail(cfg.FirstAdmin.Email)
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	exists, err := userRepo.ExistsByEmail(db, adminEmail)
	if err != nil {
		return err
	}
	if exists {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	// У администратора нет профиля
	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		FirstName:    "Admin",
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(db, admin); err != nil {
		return err
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
