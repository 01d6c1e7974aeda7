package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/inselpa/incident-api/api/swagger"
	"github.com/inselpa/incident-api/internal/handler"
	"github.com/inselpa/incident-api/internal/middleware"
	"github.com/inselpa/incident-api/internal/models"
	"github.com/inselpa/incident-api/internal/repository"
	"github.com/inselpa/incident-api/internal/service"
	"github.com/inselpa/incident-api/pkg/cache"
	"github.com/inselpa/incident-api/pkg/config"
	"github.com/inselpa/incident-api/pkg/database"
	"github.com/inselpa/incident-api/pkg/logger"
	corsmiddleware "github.com/inselpa/incident-api/pkg/middleware/cors"
	reqidmiddleware "github.com/inselpa/incident-api/pkg/middleware/requestid"
)

// @title Incidencias INSELPA API
// @version 1.0.0
// @description Incident reporting service for Institución Educativa la Pascuala
// @BasePath /api/v1
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

	localStore, err := repository.NewLocalStore(cfg.Local.Dir, cfg.Local.Prefix)
	if err != nil {
		logr.Sugar().Fatalw("could not open local store", "dir", cfg.Local.Dir, "error", err)
	}

	var remoteStore repository.DocumentStore
	if cfg.Remote.Configured() {
		db, err := database.NewPostgres(cfg.Remote)
		if err != nil {
			logr.Sugar().Warnw("remote store unreachable, running on local store", "error", err)
		} else {
			defer db.Close() //nolint:errcheck
			remoteStore = repository.NewRemoteStore(db)
		}
	} else {
		logr.Info("remote store not configured, running on local store")
	}

	metricsSvc := service.NewMetricsService()
	gateway := repository.NewGateway(remoteStore, localStore, seedAdmin(cfg), logr, metricsSvc)

	var redisClient *redis.Client
	if cfg.Stats.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unreachable, stats cache disabled", "error", err)
		}
	}
	cacheSvc := service.NewCacheService(redisClient, cfg.Stats.CacheTTL, logr, metricsSvc, redisClient != nil)

	validate := validator.New()

	authSvc := service.NewAuthService(gateway, validate, logr, service.AuthConfig{
		MasterUsername: cfg.Master.Username,
		MasterPassword: cfg.Master.Password,
		MasterFullName: cfg.Master.FullName,
		TokenSecret:    cfg.JWT.Secret,
		TokenExpiry:    cfg.JWT.Expiration,
		Issuer:         cfg.School.AppName,
	})
	userSvc := service.NewUserService(gateway, validate, logr)
	studentSvc := service.NewStudentService(gateway, validate, logr)
	catalogSvc := service.NewCatalogService(gateway, validate, logr)
	statsSvc := service.NewStatsService(gateway, cacheSvc, logr)
	incidentSvc := service.NewIncidentService(gateway, statsSvc, validate, logr)
	importSvc := service.NewImportService(gateway, logr)
	reportSvc := service.NewReportService(gateway, cfg.School.Name, cfg.School.AppName, logr)
	adminSvc := service.NewAdminService(gateway, statsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, statsSvc, importSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	incidentHandler := handler.NewIncidentHandler(incidentSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

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
		c.JSON(http.StatusOK, gin.H{"status": "ready", "remote": gateway.RemoteEnabled()})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/students", studentHandler.List)
		authed.GET("/students/courses", studentHandler.Courses)
		authed.POST("/students", studentHandler.Create)
		authed.PUT("/students/:id", studentHandler.Update)
		authed.DELETE("/students/:id", studentHandler.Delete)
		authed.POST("/students/import/preview", studentHandler.ImportPreview)
		authed.POST("/students/import", studentHandler.ImportCommit)

		authed.GET("/teachers", catalogHandler.ListTeachers)
		authed.POST("/teachers", catalogHandler.CreateTeacher)
		authed.PUT("/teachers/:id", catalogHandler.UpdateTeacher)
		authed.DELETE("/teachers/:id", catalogHandler.DeleteTeacher)

		authed.GET("/incident-types", catalogHandler.ListIncidentTypes)
		authed.POST("/incident-types", catalogHandler.CreateIncidentType)
		authed.PUT("/incident-types/:id", catalogHandler.UpdateIncidentType)
		authed.DELETE("/incident-types/:id", catalogHandler.DeleteIncidentType)

		authed.GET("/incidents", incidentHandler.List)
		authed.POST("/incidents", incidentHandler.Create)
		authed.DELETE("/incidents/:id", incidentHandler.Delete)

		authed.GET("/stats/summary", statsHandler.Summary)
		authed.GET("/reports/incidents", reportHandler.List)
		authed.GET("/reports/incidents/export", reportHandler.Export)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)

		admin.POST("/admin/clear-year", adminHandler.ClearYear)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "remote", gateway.RemoteEnabled())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// seedAdmin builds the account planted when the user collection is
// empty. The password is stored hashed like any account created through
// the API.
func seedAdmin(cfg *config.Config) models.User {
	password := cfg.Master.Password
	if hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		password = string(hashed)
	}
	return models.User{
		Username: cfg.Master.Username,
		Password: password,
		FullName: cfg.Master.FullName,
		Role:     models.RoleAdmin,
	}
}
