// Package app wires configuration, storage, clients, and services together.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rgower/vantage/internal/clients/gemini"
	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/currency"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/services/analysis"
	"github.com/rgower/vantage/internal/services/portfolio"
	"github.com/rgower/vantage/internal/storage/surrealdb"
)

// App holds all initialized services and clients. It is the shared core used
// by cmd/vantage-server and by tests.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	GenAIClient      interfaces.GenAIClient
	PortfolioService interfaces.PortfolioService
	AnalysisService  interfaces.AnalysisService
	Currency         *currency.Converter
	StartupTime      time.Time
}

// NewApp initializes all services, clients, and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	if configPath == "" {
		configPath = os.Getenv("VANTAGE_CONFIG")
	}
	if configPath == "" {
		configPath = "config/vantage.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - AI analysis will be unavailable")
	}

	var genaiClient interfaces.GenAIClient
	if geminiKey != "" {
		client, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			genaiClient = client
		}
	}

	portfolioService := portfolio.NewService(storageManager.PortfolioStore(), logger)
	analysisService := analysis.NewService(portfolioService, genaiClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		GenAIClient:      genaiClient,
		PortfolioService: portfolioService,
		AnalysisService:  analysisService,
		Currency:         currency.NewConverter(),
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.GenAIClient != nil {
		a.GenAIClient.Close()
		a.GenAIClient = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
