package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-management-backend/config"
	deliveryHttp "hospital-management-backend/internal/delivery/http"
	"hospital-management-backend/internal/delivery/http/handler"
	"hospital-management-backend/internal/delivery/http/middleware"
	"hospital-management-backend/internal/delivery/scheduler"
	"hospital-management-backend/internal/infrastructure/cache"
	"hospital-management-backend/internal/infrastructure/database"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/internal/usecase"
	"hospital-management-backend/pkg/idgen"
	"hospital-management-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *scheduler.Scheduler
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg)
	app.Log = log
	log.Info("Configuration loaded successfully")

	if cfg.App.AutoMigrate {
		if err := RunMigrations(cfg, log, func(m *database.Migrator) error { return m.Up() }); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDev(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// RunMigrations opens a migrator on the configured database and applies fn.
func RunMigrations(cfg *config.Config, log *logrus.Logger, fn func(*database.Migrator) error) error {
	migrator, err := database.NewMigrator(cfg.DB.PostgresURL(), log)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return fn(migrator)
}

// NewMigrationLogger is the logger used by the migrate command.
func NewMigrationLogger(cfg *config.Config) *logrus.Logger {
	return setupLogger(cfg)
}

// initialize wires repositories, services, usecases, the HTTP server and the
// maintenance scheduler.
func (app *App) initialize() error {
	cfg, db, log := app.Config, app.DB, app.Log

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := usecase.NewClock(time.Now, loc)
	ids := idgen.New()

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	treatmentRepo := repository.NewTreatmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	availabilityCache := service.NewAvailabilityCache(app.RedisClient, log, cfg.Redis.CacheTTL)
	jobLock := service.NewJobLock(app.RedisClient, log)

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, clock, availabilityRepo, doctorRepo, auditService, availabilityCache)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, ids, cfg.IDGen.MaxAttempts, appointmentRepo, availabilityRepo, doctorRepo, patientRepo, treatmentRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, clock, ids, cfg.IDGen.MaxAttempts, doctorRepo, availabilityRepo, appointmentRepo, treatmentRepo, auditService, availabilityCache)
	patientUsecase := usecase.NewPatientUsecase(db, log, clock, ids, cfg.IDGen.MaxAttempts, patientRepo, appointmentRepo, treatmentRepo, auditService)
	treatmentUsecase := usecase.NewTreatmentUsecase(db, log, appointmentRepo, treatmentRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	maintenanceUsecase := usecase.NewMaintenanceUsecase(db, log, clock, appointmentRepo, availabilityUsecase, auditService)

	// Initialize scheduler
	sched := scheduler.New(log, jobLock, scheduler.Options{
		Location:   loc,
		RunTimeout: cfg.Scheduler.RunTimeout,
		LockTTL:    cfg.Scheduler.LockTTL,
	})
	if err := scheduler.RegisterMaintenance(sched, maintenanceUsecase, cfg.Scheduler); err != nil {
		return fmt.Errorf("failed to register maintenance tasks: %w", err)
	}
	app.Scheduler = sched

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, appointmentUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	treatmentHandler := handler.NewTreatmentHandler(treatmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		doctorHandler,
		patientHandler,
		availabilityHandler,
		appointmentHandler,
		treatmentHandler,
		auditLogHandler,
		corsMiddleware,
		loggingMiddleware,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and the maintenance scheduler, then handles
// graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

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

// RunTask runs one maintenance task immediately, outside its schedule.
func (app *App) RunTask(ctx context.Context, name string) error {
	return app.Scheduler.RunNow(ctx, name)
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

	// Let an in-flight maintenance run finish its batch
	app.Scheduler.Stop(ctx)

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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
