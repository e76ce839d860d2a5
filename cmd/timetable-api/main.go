package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadgrid/timetable-api/api/swagger"
	"github.com/acadgrid/timetable-api/internal/handler"
	"github.com/acadgrid/timetable-api/internal/middleware"
	"github.com/acadgrid/timetable-api/internal/models"
	"github.com/acadgrid/timetable-api/internal/repository"
	"github.com/acadgrid/timetable-api/internal/service"
	"github.com/acadgrid/timetable-api/pkg/cache"
	"github.com/acadgrid/timetable-api/pkg/config"
	"github.com/acadgrid/timetable-api/pkg/database"
	"github.com/acadgrid/timetable-api/pkg/logger"
	corsmiddleware "github.com/acadgrid/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadgrid/timetable-api/pkg/middleware/requestid"
)

// @title AcadGrid Timetable API
// @version 1.0.0
// @description Constraint-based weekly timetable generation for academic semesters
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Timetable.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, view caching disabled", "error", err)
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(
		repository.NewSemesterRepository(db),
		repository.NewTimetableRepository(db),
		cacheRepo,
		metricsSvc,
		nil,
		nil,
		logr,
		service.TimetableServiceConfig{CacheTTL: cfg.Timetable.CacheTTL},
	)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	timetables := api.Group("/timetables")
	{
		timetables.POST("/generate", middleware.RBAC(models.RoleAdmin), timetableHandler.Generate)
		timetables.POST("/lookup", timetableHandler.Lookup)
		timetables.GET("/:semesterId", middleware.RBAC(models.RoleAdmin), timetableHandler.Combined)
		timetables.GET("/:semesterId/sections/:section", timetableHandler.Section)
		timetables.GET("/:semesterId/me", middleware.RBAC(models.RoleTeacher), timetableHandler.Mine)
		timetables.DELETE("/:semesterId", middleware.RBAC(models.RoleAdmin), timetableHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
