package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/school-reports-api/api/swagger"
	"github.com/noah-isme/school-reports-api/internal/handler"
	"github.com/noah-isme/school-reports-api/internal/middleware"
	"github.com/noah-isme/school-reports-api/internal/repository"
	"github.com/noah-isme/school-reports-api/internal/service"
	"github.com/noah-isme/school-reports-api/pkg/config"
	"github.com/noah-isme/school-reports-api/pkg/database"
	"github.com/noah-isme/school-reports-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-reports-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-reports-api/pkg/middleware/requestid"
)

// @title School Reports API
// @version 1.0.0
// @description Read-only reporting endpoints over the students/courses/enrollments schema
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

	db := database.ConnectWithRetry(cfg.Database, logr)
	defer db.Close()

	metrics := service.NewMetricsService()

	// The cache is optional. A missing or unreachable Redis downgrades to
	// uncached operation instead of blocking startup.
	var cacheRepo service.CacheRepository
	if cfg.Reports.CacheEnabled {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		client, err := repository.NewRedis(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without report cache", "addr", addr, "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer client.Close()
		}
	}
	cache := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, cacheRepo != nil)

	reportRepo := repository.NewReportRepository(db)
	reportSvc := service.NewReportService(reportRepo, cache, metrics, logr, cfg.Reports.QueryTimeout)
	exportSvc := service.NewExportService(reportSvc)

	reportHandler := handler.NewReportHandler(reportSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	systemHandler := handler.NewSystemHandler(reportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/", systemHandler.Index)
	r.GET("/health", systemHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		students := api.Group("/students")
		students.GET("/grade/:grade", reportHandler.StudentsByGrade)
		students.GET("/:studentId/enrollments", reportHandler.StudentEnrollments)
		students.GET("/all-with-enrollments", reportHandler.StudentsWithEnrollments)
		students.GET("/in-courses", reportHandler.StudentsInCourses)

		courses := api.Group("/courses")
		courses.GET("/popular/:minEnrollments", reportHandler.PopularCourses)

		analytics := api.Group("/analytics")
		analytics.GET("/students-per-grade", reportHandler.StudentsPerGrade)
		analytics.GET("/student-performance", reportHandler.StudentPerformance)
		analytics.GET("/course-details/:courseId", reportHandler.CourseDetails)
		analytics.GET("/top-performers", reportHandler.TopPerformers)
		analytics.GET("/departments", reportHandler.Departments)
		analytics.GET("/departments/export", exportHandler.Departments)
		analytics.GET("/top-performers/export", exportHandler.TopPerformers)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
