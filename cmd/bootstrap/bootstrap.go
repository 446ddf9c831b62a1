package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-frontdesk/config"
	deliveryHttp "clinic-frontdesk/internal/delivery/http"
	"clinic-frontdesk/internal/delivery/http/handler"
	"clinic-frontdesk/internal/delivery/http/middleware"
	"clinic-frontdesk/internal/infrastructure/cache"
	"clinic-frontdesk/internal/infrastructure/database"
	"clinic-frontdesk/internal/repository"
	"clinic-frontdesk/internal/scheduling"
	"clinic-frontdesk/internal/service"
	"clinic-frontdesk/internal/usecase"
	"clinic-frontdesk/pkg/jwt"
	"clinic-frontdesk/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger

	locker *service.ScopeLocker
}

// LoadConfig loads configuration and configures the shared logger from it.
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg.App)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.locker = service.NewScopeLocker(log)

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, app.locker)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, locker *service.ScopeLocker) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	engine := scheduling.NewEngine(scheduling.Policy{RequireContainment: cfg.Scheduling.RequireContainment})
	auditService := service.NewAuditService(log, auditLogRepo)
	queueCache := service.NewQueueBoardCache(redisClient, log, cfg.Scheduling.QueueCacheTTL)
	notifier := service.NewRedisNotifier(redisClient, log, cfg.Notify.Channel)

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(
		log, transactor, locker,
		doctorRepo, appointmentRepo, patientRepo, auditLogRepo,
		engine, auditService, queueCache, notifier,
	)
	queueUsecase := usecase.NewQueueUsecase(log, transactor, locker, appointmentRepo, auditService, queueCache, time.Now)
	availabilityUsecase := usecase.NewDoctorAvailabilityUsecase(log, transactor, doctorRepo, appointmentRepo, cfg.Scheduling.SlotMinutes, time.Now)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(availabilityUsecase, appointmentUsecase)
	queueHandler := handler.NewQueueHandler(queueUsecase, customValidator)

	// Initialize middleware
	var authMiddleware *middleware.AuthMiddleware
	if cfg.JWT.AuthEnabled {
		authMiddleware = middleware.NewAuthMiddleware(jwt.NewJWTService(cfg.JWT))
	} else {
		log.Warn("AUTH_ENABLED is false, front-desk routes are open")
	}
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, doctorHandler, queueHandler, authMiddleware, corsMiddleware, loggingMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections.
func (app *App) Close() {
	if app.locker != nil {
		app.locker.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
