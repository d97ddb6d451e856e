package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/application/session"
	"github.com/sroursolar/invoicegen/internal/config"
	"github.com/sroursolar/invoicegen/internal/domain/invoice"
	"github.com/sroursolar/invoicegen/internal/export"
	httpserver "github.com/sroursolar/invoicegen/internal/interfaces/http"
	"github.com/sroursolar/invoicegen/internal/preview"
	"github.com/sroursolar/invoicegen/internal/repository"
	"github.com/sroursolar/invoicegen/internal/storage"
	"github.com/sroursolar/invoicegen/pkg/database"
	"github.com/sroursolar/invoicegen/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice generator service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	snapshotRepo := repository.NewSnapshotRepository(db.DB, cfg.Database.SnapshotSlot, logger)
	exportLogRepo := repository.NewExportLogRepository(db.DB, logger)

	// Initialize document export pipeline
	fileStorage, err := storage.NewLocalFileStorage(cfg.Export.OutputDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	exporter := export.NewExporter(fileStorage, logger)
	exportWorker := export.NewWorker(
		exporter,
		&exportLogAdapter{repo: exportLogRepo},
		export.Format(cfg.Export.BackgroundFormat),
		cfg.Export.QueueSize,
		logger,
	)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	if err := exportWorker.Start(workerCtx); err != nil {
		logger.Fatal("Failed to start export worker", zap.Error(err))
	}

	// Initialize editing sessions and preview
	defaultCompany := invoice.CompanyProfile{
		Brand:    cfg.Company.Brand,
		Addr1:    cfg.Company.Addr1,
		Addr2:    cfg.Company.Addr2,
		Phone:    cfg.Company.Phone,
		Email:    cfg.Company.Email,
		TaxRegNo: cfg.Company.TaxRegNo,
		LogoPath: cfg.Company.LogoPath,
	}
	sessions := session.NewManager(defaultCompany, snapshotRepo, exportWorker, logger)
	renderer := preview.NewRenderer(snapshotRepo, logger)

	// Initialize HTTP server
	handlers := httpserver.NewHandlers(sessions, renderer, exporter, exportLogRepo, logger)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	exportWorker.Stop()

	logger.Info("Server exited successfully")
}

// exportLogAdapter bridges the export worker's log interface to the
// repository
type exportLogAdapter struct {
	repo *repository.ExportLogRepository
}

func (a *exportLogAdapter) Create(ctx context.Context, record *export.Record) error {
	return a.repo.Create(ctx, &repository.ExportRecord{
		InvoiceNumber: record.InvoiceNumber,
		Format:        record.Format,
		FilePath:      record.FilePath,
	})
}
