package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "sarpras-backend/internal/api/http"
	"sarpras-backend/internal/config"
	"sarpras-backend/internal/logger"
	"sarpras-backend/internal/repository/postgres"
	"sarpras-backend/internal/security"
	"sarpras-backend/internal/service"
	"sarpras-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Sarpras Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Storage Service
	var storageService storage.StorageInterface
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		logger.Info("Using local filesystem storage", "upload_dir", cfg.Storage.UploadDir)
		localStorage, err := storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageService = localStorage
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	activitySvc := service.NewActivityService(store.ActivityLogRepository)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, activitySvc)
	assetSvc := service.NewAssetService(
		store.AssetRepository,
		store.LoanRepository,
		store.CategoryRepository,
		store.LocationRepository,
		store.ConditionLogRepository,
		activitySvc,
	)
	loanSvc := service.NewLoanService(
		store.LoanRepository,
		store.AssetRepository,
		store.UserRepository,
		emailSvc,
		activitySvc,
	)
	complaintSvc := service.NewComplaintService(store.ComplaintRepository, store.AssetRepository, activitySvc)
	returnSvc := service.NewReturnService(
		store.LoanRepository,
		store.AssetRepository,
		store.ReturnRepository,
		store.ConditionLogRepository,
		store.CategoryRepository,
		complaintSvc,
		activitySvc,
	)

	// Initialize HTTP API
	router := httpapi.NewRouter(httpapi.Services{
		Auth:      authSvc,
		Asset:     assetSvc,
		Loan:      loanSvc,
		Return:    returnSvc,
		Complaint: complaintSvc,
		Activity:  activitySvc,
	}, tokenManager, storageService, cfg.Storage.MaxFileSize)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", "error", err)
		log.Fatalf("HTTP server failed: %v", err)
	}
}
