package main

import (
	"log/slog"
	"os"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/cache"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/config"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/gradebook"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/handlers"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories/postgres"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cacheService := cache.NewNoopCache()
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, report caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	repo := postgres.NewRepository(db)
	engine := gradebook.NewEngine(slogger)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(repo, engine, cacheService, publisher, slogger, validator)
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	handlerManager.SetupRoutes(router)

	logger.Info("Starting gradeflow backend", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
