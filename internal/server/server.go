package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planner/internal/auth"
	"planner/internal/config"
	"planner/internal/handler"
	"planner/internal/logging"
	"planner/internal/middleware"
	"planner/internal/repository"
	"planner/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *log.Logger

	scheduler *service.SchedulerService
}

// Init connects to the configured database and builds the server on top of it.
func Init(cfg *config.Config, logger *log.Logger) (*Server, error) {
	db, err := repository.NewDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logger.Info("✅ Connected to database", "driver", cfg.DBDriver)

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("⚠️  Unknown timezone, falling back to local time", "err", err)
	}

	return New(cfg, db, logger, service.SystemClock(loc))
}

// New wires repositories, services and routes around an open database.
func New(cfg *config.Config, db *gorm.DB, logger *log.Logger, clock service.Clock) (*Server, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(logger))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	tx := repository.NewTransactor(db)

	// Initialize services
	materializer := service.NewMaterializer(tx, ruleRepo, linkRepo, taskRepo, logger)
	reconciler := service.NewReconciler(linkRepo, taskRepo, logger)
	orderService := service.NewOrderService(orderRepo, taskRepo)
	taskService := service.NewTaskService(taskRepo, materializer, orderService, clock)
	ruleService := service.NewRuleService(tx, ruleRepo, reconciler, clock)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry()))
	profileHandler := handler.NewProfileHandler(profileRepo)
	taskHandler := handler.NewTaskHandler(taskService)
	ruleHandler := handler.NewRuleHandler(ruleService)
	orderHandler := handler.NewOrderHandler(orderService)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me", userHandler.Me)

		// Profile routes
		authorized.GET("/profile", profileHandler.Get)
		authorized.PUT("/profile", profileHandler.Update)
		authorized.POST("/profile/verify-email", profileHandler.VerifyEmail)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.Get)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/complete", taskHandler.Complete)
		authorized.POST("/tasks/:id/uncomplete", taskHandler.Uncomplete)
		authorized.GET("/remaining-tasks", taskHandler.Remaining)

		// Day routes
		authorized.GET("/days/:date/tasks", taskHandler.ForDate)
		authorized.DELETE("/days/:date/tasks", taskHandler.CleanDay)
		authorized.GET("/days/:date/order", orderHandler.Get)
		authorized.PUT("/days/:date/order", orderHandler.Set)

		// Rule routes
		authorized.GET("/rules", ruleHandler.List)
		authorized.POST("/rules", ruleHandler.Create)
		authorized.GET("/rules/:id", ruleHandler.Get)
		authorized.PUT("/rules/:id", ruleHandler.Update)
		authorized.DELETE("/rules/:id", ruleHandler.Delete)
	}

	s := &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: logger,
	}

	if cfg.MaterializeAt != "" {
		s.scheduler = service.NewSchedulerService(clock.Location)
		if _, err := s.scheduler.ScheduleMaterialization(cfg.MaterializeAt, materializer, clock, logger); err != nil {
			return nil, fmt.Errorf("❌ invalid MATERIALIZE_AT: %w", err)
		}
	}

	return s, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	if s.scheduler != nil {
		s.scheduler.Start()
		s.Logger.Info("⏰ Nightly materialization scheduled", "at", s.Config.MaterializeAt)
	}

	go func() {
		s.Logger.Info("🚀 Server running", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("❌ Failed to listen", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("🛑 Shutting down server...")

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatal("❌ Server forced to shutdown", "err", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	s.Logger.Info("✅ Server exited properly")
}
