package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/swarga-apparel/employee-portal-api/api/swagger"
	"github.com/swarga-apparel/employee-portal-api/internal/handler"
	"github.com/swarga-apparel/employee-portal-api/internal/middleware"
	"github.com/swarga-apparel/employee-portal-api/internal/models"
	"github.com/swarga-apparel/employee-portal-api/internal/repository"
	"github.com/swarga-apparel/employee-portal-api/internal/service"
	"github.com/swarga-apparel/employee-portal-api/pkg/cache"
	"github.com/swarga-apparel/employee-portal-api/pkg/config"
	"github.com/swarga-apparel/employee-portal-api/pkg/database"
	"github.com/swarga-apparel/employee-portal-api/pkg/logger"
	corsmiddleware "github.com/swarga-apparel/employee-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/swarga-apparel/employee-portal-api/pkg/middleware/requestid"
	"github.com/swarga-apparel/employee-portal-api/pkg/storage"
)

// @title Swarga Employee Portal API
// @version 1.0.0
// @description Internal portal: medical checkup tracking, surveys, e-training
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.MCU.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.MCU.RegistryCacheTTL, logr, true)
	}

	certStore, err := storage.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init certificate storage", "error", err)
	}
	certSigner := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)

	participantRepo := repository.NewParticipantRepository(db)
	checkpointRepo := repository.NewCheckpointRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	scanEventRepo := repository.NewScanEventRepository(db)
	monitorRepo := repository.NewMonitorRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	userRepo := repository.NewUserRepository(db)

	mcuSvc := service.NewMCUService(participantRepo, sessionRepo, checkpointRepo, scanEventRepo, cacheSvc, cfg.MCU.RegistryCacheTTL, validate, logr)
	monitorSvc := service.NewMonitorService(monitorRepo, cacheSvc, cfg.MCU.MonitorCacheTTL, validate, logr)
	surveySvc := service.NewSurveyService(surveyRepo, nil, validate, logr)
	quizSvc := service.NewQuizService(quizRepo, nil, certStore, certSigner, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	mcuHandler := handler.NewMCUHandler(mcuSvc, monitorSvc, metricsSvc)
	surveyHandler := handler.NewSurveyHandler(surveySvc)
	quizHandler := handler.NewQuizHandler(quizSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		mcu := api.Group("/mcu")
		{
			mcu.GET("/checkpoints", mcuHandler.ListCheckpoints)
			mcu.POST("/scan", mcuHandler.RecordScan)
			mcu.GET("/status", mcuHandler.GetStatus)
			mcu.GET("/live", mcuHandler.ListLive)
		}

		surveys := api.Group("/surveys")
		{
			surveys.GET("", surveyHandler.ListOpen)
			surveys.GET("/:slug", surveyHandler.GetBySlug)
			surveys.POST("/:slug/responses", surveyHandler.Submit)
		}

		etraining := api.Group("/etraining")
		{
			etraining.GET("/quizzes/:slug", quizHandler.GetBySlug)
			etraining.POST("/quizzes/:slug/attempts", quizHandler.Submit)
			etraining.GET("/certificates/download", quizHandler.DownloadCertificate)
		}

		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.GET("/me", authHandler.Me)
			admin.GET("/surveys/:slug/summary", surveyHandler.Summary)
			admin.GET("/surveys/:slug/export", middleware.RequireRoles(models.RoleAdmin), surveyHandler.ExportCSV)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
