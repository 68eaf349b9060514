package app

import (
	"context"
	"fmt"
	"time"

	"jobconnect_backend/database"
	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/cache"
	"jobconnect_backend/internal/config"
	"jobconnect_backend/internal/email"
	"jobconnect_backend/internal/handlers"
	"jobconnect_backend/internal/logger"
	"jobconnect_backend/internal/middleware"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/routes"
	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/sms"
	"jobconnect_backend/internal/validator"
	"jobconnect_backend/internal/workers"
	"jobconnect_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	router, userRepo := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleanup := workers.NewCleanupWorker(userRepo, time.Hour)
	go cleanup.Run(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает все слои приложения и возвращает готовый роутер.
// Вынесен отдельно от Run, чтобы интеграционные тесты могли поднять
// приложение без сетевого сервера.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, repositories.UserRepository) {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Репозитории
	userRepo := repositories.NewUserRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	itemRepo := repositories.NewItemRepository(gormDB)

	// Инфраструктура
	tokens := auth.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHrs)*time.Hour,
	)
	emailProvider := email.NewSMTPProvider(cfg)
	smsSender := sms.NewLogSender()

	var otpStore cache.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		otpStore = redisStore
		logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	} else {
		otpStore = cache.NewMemoryStore()
		logger.Warn("Redis not configured, using in-memory OTP store")
	}

	// Сервисы
	verificationService := services.NewVerificationService(userRepo, emailProvider, smsSender, cfg)
	authService := services.NewAuthService(userRepo, tokens, verificationService, cfg)
	otpService := services.NewOTPService(userRepo, otpStore, smsSender, cfg)
	socialService := services.NewSocialService(userRepo, tokens)
	chatService := services.NewChatService(chatRepo, userRepo)
	jobService := services.NewJobService(jobRepo, userRepo)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, userRepo, emailProvider)
	itemService := services.NewItemService(itemRepo)

	// WebSocket
	wsManager := ws.NewManager(chatService)
	chatService.SetBroadcaster(wsManager)
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager, tokens)

	// Хендлеры
	v := validator.New()
	h := &routes.Handlers{
		Auth:        handlers.NewAuthHandler(v, authService, verificationService),
		OTP:         handlers.NewOTPHandler(v, otpService),
		Social:      handlers.NewSocialHandler(v, socialService),
		Chat:        handlers.NewChatHandler(v, chatService),
		Job:         handlers.NewJobHandler(v, jobService),
		Application: handlers.NewApplicationHandler(v, applicationService),
		Item:        handlers.NewItemHandler(v, itemService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(router, h, wsHandler, tokens, userRepo)

	return router, userRepo
}
