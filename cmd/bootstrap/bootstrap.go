package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telemed-platform/config"
	deliveryHttp "telemed-platform/internal/delivery/http"
	"telemed-platform/internal/delivery/http/handler"
	"telemed-platform/internal/delivery/http/middleware"
	"telemed-platform/internal/infrastructure/cache"
	"telemed-platform/internal/infrastructure/database"
	"telemed-platform/internal/infrastructure/mail"
	"telemed-platform/internal/infrastructure/storage"
	"telemed-platform/internal/repository"
	"telemed-platform/internal/service"
	"telemed-platform/internal/usecase"
	"telemed-platform/pkg/jwt"
	"telemed-platform/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Realtime    *service.RealtimeService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Apply pending schema migrations
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize object storage
	fileStore, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	// Initialize realtime change feed
	realtime := service.NewRealtimeService(redisClient, logrus.StandardLogger())
	if err := realtime.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start realtime service: %w", err)
	}
	app.Realtime = realtime

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient, fileStore, realtime)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, fileStore *storage.LocalStore, realtime *service.RealtimeService) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	verificationRepo := repository.NewEmailVerificationRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	consultationRepo := repository.NewConsultationRepository()
	chatChannelRepo := repository.NewChatChannelRepository()
	chatMessageRepo := repository.NewChatMessageRepository()
	diagnosisSessionRepo := repository.NewDiagnosisSessionRepository()
	diagnosisMessageRepo := repository.NewDiagnosisMessageRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	fileObjectRepo := repository.NewFileObjectRepository()

	// Initialize services
	tokenStore := service.NewRedisTokenStore(redisClient, log)
	auditService := service.NewAuditService(log, auditLogRepo)
	diagnosisClient := service.NewDiagnosisClient(cfg.Diagnosis, log)
	mailer := mail.NewEmailService(cfg.SMTP)
	notifier := usecase.NewNotifier(log, notificationRepo, realtime)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, cfg, userRepo, patientProfileRepo, doctorProfileRepo, verificationRepo, jwtService, tokenStore, auditService, mailer)
	profileUsecase := usecase.NewProfileUsecase(db, log, userRepo, patientProfileRepo, doctorProfileRepo, fileObjectRepo, fileStore, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, userRepo, notifier, realtime, auditService)
	medicalRecordUsecase := usecase.NewMedicalRecordUsecase(db, log, medicalRecordRepo, userRepo, fileObjectRepo, fileStore, notifier, realtime, auditService)
	consultationUsecase := usecase.NewConsultationUsecase(db, log, consultationRepo, appointmentRepo, jwtService, realtime, auditService)
	chatUsecase := usecase.NewChatUsecase(db, log, chatChannelRepo, chatMessageRepo, userRepo, notifier, realtime)
	diagnosisUsecase := usecase.NewDiagnosisUsecase(db, log, diagnosisSessionRepo, diagnosisMessageRepo, diagnosisClient)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, prescriptionRepo, userRepo, notifier, realtime, auditService)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo)
	adminUsecase := usecase.NewAdminUsecase(db, log, userRepo, doctorProfileRepo, auditLogRepo, tokenStore, auditService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	profileHandler := handler.NewProfileHandler(profileUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	medicalRecordHandler := handler.NewMedicalRecordHandler(medicalRecordUsecase, customValidator)
	consultationHandler := handler.NewConsultationHandler(consultationUsecase, customValidator)
	chatHandler := handler.NewChatHandler(chatUsecase, customValidator)
	diagnosisHandler := handler.NewDiagnosisHandler(diagnosisUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase)
	adminHandler := handler.NewAdminHandler(adminUsecase, customValidator)
	realtimeHandler := handler.NewRealtimeHandler(realtime, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(nil)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		profileHandler,
		appointmentHandler,
		medicalRecordHandler,
		consultationHandler,
		chatHandler,
		diagnosisHandler,
		prescriptionHandler,
		notificationHandler,
		adminHandler,
		realtimeHandler,
		authMiddleware,
		corsMiddleware,
		fileStore,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
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

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Stop the realtime feed before its Redis connection goes away
	if app.Realtime != nil {
		app.Realtime.Close()
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
