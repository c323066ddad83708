package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/kursverwaltung/dashboard-api/api/swagger"
	"github.com/kursverwaltung/dashboard-api/internal/handler"
	"github.com/kursverwaltung/dashboard-api/internal/middleware"
	"github.com/kursverwaltung/dashboard-api/internal/recordstore"
	"github.com/kursverwaltung/dashboard-api/internal/repository"
	"github.com/kursverwaltung/dashboard-api/internal/service"
	"github.com/kursverwaltung/dashboard-api/pkg/cache"
	"github.com/kursverwaltung/dashboard-api/pkg/config"
	"github.com/kursverwaltung/dashboard-api/pkg/logger"
	corsmiddleware "github.com/kursverwaltung/dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kursverwaltung/dashboard-api/pkg/middleware/requestid"
)

// @title Kursverwaltung Dashboard API
// @version 0.1.0
// @description Read-only aggregation API behind the course-management admin dashboard
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

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	store := recordstore.NewClient(recordstore.ClientParams{
		Config:  cfg.RecordStore,
		Logger:  logr,
		Metrics: metricsSvc,
	})

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Store:  store,
		Cache:  cacheSvc,
		Logger: logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:    cfg.Dashboard.CacheTTL,
			RecentLimit: cfg.Dashboard.RecentLimit,
		},
	})
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, cfg.Export.Enabled)

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
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	if cfg.Auth.Enabled {
		api.Use(middleware.JWT(cfg.Auth.Secret))
	}
	api.GET("/dashboard", dashboardHandler.Overview)
	api.GET("/dashboard/export", dashboardHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "recordStore", cfg.RecordStore.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
