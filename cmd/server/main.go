package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/auth"
	"github.com/leonardomol/pjmol-intake/internal/config"
	"github.com/leonardomol/pjmol-intake/internal/export"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
	"github.com/leonardomol/pjmol-intake/internal/intake"
	httpiface "github.com/leonardomol/pjmol-intake/internal/interfaces/http"
	"github.com/leonardomol/pjmol-intake/internal/pdfcheck"
	"github.com/leonardomol/pjmol-intake/internal/repository"
	"github.com/leonardomol/pjmol-intake/internal/session"
	"github.com/leonardomol/pjmol-intake/internal/storage"
	"github.com/leonardomol/pjmol-intake/pkg/database"
	"github.com/leonardomol/pjmol-intake/pkg/utils"
)

func main() {
	// Load .env before viper reads the environment
	gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

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

	logger.Info("Starting consortium intake service",
		zap.Int("port", cfg.Server.Port),
		zap.String("gateway", cfg.Gateway.BaseURL))

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

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Intake.ExportDir, 0755); err != nil {
		logger.Fatal("Failed to create export directory", zap.Error(err))
	}

	sessions := session.NewStore(db.DB, logger)
	casos := repository.NewCasoRepository(db.DB, logger)

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
	}, logger)
	viaCEP := gateway.NewViaCEPClient(gateway.ViaCEPConfig{
		BaseURL: cfg.ViaCEP.BaseURL,
		Timeout: cfg.ViaCEP.Timeout,
	}, logger)

	authService := auth.NewService(gatewayClient, sessions, auth.CueConfig{
		Path:         cfg.Audio.CuePath,
		URL:          "/" + filepath.ToSlash(cfg.Audio.CuePath),
		FadeDelay:    cfg.Audio.FadeDelay,
		FadeInterval: cfg.Audio.FadeInterval,
	}, logger)

	manager := httpiface.NewManager(intake.Deps{
		Gateway:  gatewayClient,
		ViaCEP:   viaCEP,
		Checker:  pdfcheck.NewChecker(logger),
		Exporter: export.NewService(cfg.Intake.ExportDir, logger),
		Logger:   logger,
		Debounce: cfg.Intake.RecalcDebounce,
	}, casos, logger)

	archive := storage.NewArchive(cfg.Intake.UploadDir, logger)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		StaticDir:    "static",
	}, authService, manager, gatewayClient, archive, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		if err := <-errCh; err != nil {
			logger.Error("Failed to shut down server cleanly", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
}
