package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studiopulse/booking-admin-api/api/swagger"
	"github.com/studiopulse/booking-admin-api/internal/handler"
	"github.com/studiopulse/booking-admin-api/internal/middleware"
	"github.com/studiopulse/booking-admin-api/internal/repository"
	"github.com/studiopulse/booking-admin-api/internal/service"
	"github.com/studiopulse/booking-admin-api/pkg/cache"
	"github.com/studiopulse/booking-admin-api/pkg/config"
	"github.com/studiopulse/booking-admin-api/pkg/database"
	"github.com/studiopulse/booking-admin-api/pkg/logger"
	corsmiddleware "github.com/studiopulse/booking-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studiopulse/booking-admin-api/pkg/middleware/requestid"
	"github.com/studiopulse/booking-admin-api/pkg/storage"
)

// @title Studio Booking Admin API
// @version 1.0.0
// @description Recurring class assignment scheduling for studio back-office staff
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, snapshot caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	assignmentRepo := repository.NewAssignmentRepository(db)
	templateRepo := repository.NewWeeklyTemplateRepository(db)
	classTypeRepo := repository.NewClassTypeRepository(db)
	packageRepo := repository.NewClassPackageRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsService := service.NewMetricsService()
	snapshots := service.NewSnapshotLoader(assignmentRepo, templateRepo, redisClient, cfg.Booking.SnapshotCacheTTL, metricsService, logr)
	assignmentService := service.NewAssignmentService(assignmentRepo, instructorRepo, classTypeRepo, packageRepo, snapshots, validate, logr, nil)
	templateService := service.NewWeeklyTemplateService(templateRepo, instructorRepo, snapshots, validate, logr)
	instructorService := service.NewInstructorService(instructorRepo, validate, logr)
	classTypeService := service.NewClassTypeService(classTypeRepo, validate, logr)
	packageService := service.NewClassPackageService(packageRepo, validate, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(assignmentRepo, instructorRepo, exportStorage, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
			Workers:   cfg.Exports.WorkerConcurrency,
			Retries:   cfg.Exports.WorkerRetries,
		}, metricsService, logr)
		exportService.Start(rootCtx)
		defer exportService.Stop()
	}

	authHandler := handler.NewAuthHandler(authService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, metricsService)
	instructorHandler := handler.NewInstructorHandler(instructorService, templateService)
	templateHandler := handler.NewWeeklyTemplateHandler(templateService)
	classTypeHandler := handler.NewClassTypeHandler(classTypeService)
	packageHandler := handler.NewClassPackageHandler(packageService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/system/metrics", middleware.RequireAdmin(), metricsHandler.Snapshot)

	staff := authed.Group("", middleware.RequireStaff())
	staff.POST("/assignments/preview", assignmentHandler.Preview)
	staff.POST("/assignments", assignmentHandler.Create)
	staff.GET("/assignments", assignmentHandler.List)
	staff.GET("/assignments/:id", assignmentHandler.Get)
	staff.DELETE("/assignments/:id", assignmentHandler.Cancel)

	staff.GET("/instructors", instructorHandler.List)
	staff.GET("/instructors/availability", assignmentHandler.Availability)
	staff.GET("/instructors/:id", instructorHandler.Get)
	staff.GET("/instructors/:id/templates", instructorHandler.Templates)

	admin := authed.Group("", middleware.RequireAdmin())
	admin.POST("/instructors", instructorHandler.Create)
	admin.PUT("/instructors/:id", instructorHandler.Update)

	admin.POST("/templates", templateHandler.Create)
	admin.PUT("/templates/:id", templateHandler.Update)
	admin.PATCH("/templates/:id/active", templateHandler.SetActive)
	admin.DELETE("/templates/:id", templateHandler.Delete)

	staff.GET("/class-types", classTypeHandler.List)
	staff.GET("/class-types/:id", classTypeHandler.Get)
	admin.POST("/class-types", classTypeHandler.Create)
	admin.PUT("/class-types/:id", classTypeHandler.Update)

	staff.GET("/packages", packageHandler.List)
	staff.GET("/packages/:id", packageHandler.Get)
	admin.POST("/packages", packageHandler.Create)
	admin.PUT("/packages/:id", packageHandler.Update)

	if exportService != nil {
		exportHandler := handler.NewExportHandler(exportService)
		staff.POST("/instructors/:id/exports", exportHandler.Request)
		staff.GET("/exports/jobs/:id", exportHandler.Job)
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
