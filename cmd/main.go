package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	configs "github.com/phishguard/backend/config"
	"github.com/phishguard/backend/internal/handler"
	"github.com/phishguard/backend/internal/middleware"
	"github.com/phishguard/backend/internal/repository"
	"github.com/phishguard/backend/internal/router"
	"github.com/phishguard/backend/internal/service"
	"github.com/phishguard/backend/pkg/circuit"
	"github.com/phishguard/backend/pkg/database"
	"github.com/phishguard/backend/pkg/logger"
	"github.com/phishguard/backend/pkg/pool"
	"github.com/phishguard/backend/pkg/push"
	"github.com/phishguard/backend/pkg/redis"
	"github.com/phishguard/backend/pkg/scanner"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: int(config.Database.ConnMaxLifetime.Minutes()),
		ConnMaxIdleTime: int(config.Database.ConnMaxIdleTime.Minutes()),
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.RunMigrations(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := database.SeedDemoUser(db, os.Getenv("DEMO_USER_EMAIL"), os.Getenv("DEMO_USER_PASSWORD")); err != nil {
		// Seed data may already exist; the service still starts.
		logger.GetLogger().Error("Failed to seed demo user", zap.Error(err))
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	domainRepo := repository.NewDomainRepository(db)
	blockEventRepo := repository.NewBlockEventRepository(db)
	trustedUserRepo := repository.NewTrustedUserRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Outbound clients share one connection pool; each upstream gets
	// its own circuit breaker.
	connPool := pool.NewConnectionPool(pool.DefaultPoolConfig(), logger.GetLogger())
	defer connPool.CloseAllConnections()

	expoClient := push.NewExpoClient(push.Config{
		BaseURL:     config.Push.BaseURL,
		AccessToken: config.Push.AccessToken,
		Timeout:     config.Push.Timeout,
	}, connPool, circuit.NewBreaker("expo", circuit.DefaultConfig(), logger.GetLogger()), logger.GetLogger())

	scannerClient := scanner.NewClient(scanner.Config{
		BaseURL: config.Scanner.BaseURL,
		APIKey:  config.Scanner.APIKey,
		Timeout: config.Scanner.Timeout,
	}, connPool, circuit.NewBreaker("scanner", circuit.DefaultConfig(), logger.GetLogger()), logger.GetLogger())

	// Services
	sessionService := service.NewSessionService(sessionRepo, redisClient)
	userService := service.NewUserService(userRepo, trustedUserRepo, sessionService, redisClient)
	notificationService := service.NewNotificationService(deviceTokenRepo, notificationRepo, trustedUserRepo, redisClient, expoClient)
	phishingService := service.NewPhishingService(domainRepo, blockEventRepo, redisClient, scannerClient, notificationService)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, sessionService)
	userHandler := handler.NewUserHandler(userService)
	phishingHandler := handler.NewPhishingHandler(phishingService, config.Submit.Token)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	validationMiddleware := middleware.NewValidationMiddleware()

	r := router.NewRouter(
		authHandler,
		userHandler,
		phishingHandler,
		notificationHandler,
		healthHandler,

		sessionService,
		validationMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
