package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/audit"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/auth"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/config"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/database"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/documents"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/notifications"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/stats"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to access connection pool", zap.Error(err))
	}
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	// Repositories and services
	auditRepo := audit.NewRepository(sqlxDB)
	hub := notifications.NewHub(logger)
	notificationRepo := notifications.NewRepository(db)
	userRepo := users.NewRepository(db)
	notificationService := notifications.NewService(notificationRepo, userRepo, hub, logger)

	programRepo := programs.NewRepository(db)
	programService := programs.NewService(programRepo, auditRepo, notificationService, logger)

	documentRepo := documents.NewRepository(db)
	documentService := documents.NewService(documentRepo, programRepo, logger)

	userService := users.NewService(userRepo, logger)

	statsRepo := stats.NewRepository(sqlxDB)
	statsService := stats.NewService(statsRepo, logger)

	// Router
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	api := router.Group("/api/v1")

	authHandler := auth.NewHandler(userService, cfg.Security.JWTSecret, cfg.Security.TokenTTL, logger)
	authHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(auth.Middleware(cfg.Security.JWTSecret))
	{
		programs.NewHandler(programService, auth.ActorFromContext).RegisterRoutes(protected)
		documents.NewHandler(documentService, auth.ActorFromContext).RegisterRoutes(protected)
		notifications.NewHandler(notificationService, hub, auth.ActorFromContext, logger).RegisterRoutes(protected)
		stats.NewHandler(statsService, auth.ActorFromContext, logger).RegisterRoutes(protected)

		reviewers := protected.Group("")
		reviewers.Use(auth.RequireRole(programs.RoleFinance, programs.RoleFinanceMMK, programs.RoleAdmin))
		audit.NewHandler(auditRepo).RegisterRoutes(reviewers)

		admin := protected.Group("")
		admin.Use(auth.RequireRole(programs.RoleAdmin))
		users.NewHandler(userService).RegisterRoutes(admin)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
