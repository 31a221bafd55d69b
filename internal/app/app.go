// Package app wires configuration, logging, storage and services into the
// shared core used by cmd/folio-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/investment"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	InvestmentService interfaces.InvestmentService
	PortfolioService  interfaces.PortfolioService
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, FOLIO_CONFIG, the binary
// directory, then the development fallback.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initializes storage and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	if missing := config.ValidateRequired(); len(missing) > 0 {
		if config.IsProduction() {
			return nil, fmt.Errorf("missing required configuration: %v", missing)
		}
		for _, m := range missing {
			logger.Warn().Str("setting", m).Msg("Configuration uses an insecure default or is missing")
		}
	}

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := New(config, logger, storageManager)
	a.StartupTime = startupStart

	logger.Info().
		Str("backend", storageManager.Backend()).
		Str("currency", config.Currency).
		Dur("elapsed", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// New assembles an App around an already-open storage manager.
func New(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager) *App {
	return &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		InvestmentService: investment.NewService(storageManager, logger),
		PortfolioService:  portfolio.NewService(storageManager, config.Currency, logger),
		StartupTime:       time.Now(),
	}
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
