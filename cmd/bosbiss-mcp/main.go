package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/bosbiss/internal/app"
	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/services/llm"
	"github.com/ternarybob/bosbiss/internal/services/session"
	"github.com/ternarybob/bosbiss/internal/storage"
)

func main() {
	// Load configuration
	var configPaths []string
	if configPath := os.Getenv("BOSBISS_CONFIG"); configPath != "" {
		configPaths = append(configPaths, configPath)
	} else if _, err := os.Stat("bosbiss.toml"); err == nil {
		configPaths = append(configPaths, "bosbiss.toml")
	}

	config, err := common.LoadFromFiles(configPaths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := common.NewConsoleLogger(config.MCP.LogLevel)

	// Initialize storage
	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	factory := llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)
	defer factory.Close()

	insightTimeout := common.ParseDurationOr(config.Session.InsightTimeout, session.DefaultInsightTimeout)
	priceTimeout := common.ParseDurationOr(config.Session.PriceTimeout, session.DefaultPriceTimeout)

	watchlist := session.New(context.Background(), session.Options{
		Storage: storageManager.WatchlistStorage(),
	}, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		config.MCP.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register valuation tools
	mcpServer.AddTool(createComputeFairValueTool(), handleComputeFairValue(logger))
	mcpServer.AddTool(createGetVersionTool(), handleGetVersion())

	// Register collaborator tools
	if config.MCP.EnableLLM {
		insight := llm.NewInsightService(factory, "", logger)
		prices := app.NewPriceLookup(config, factory, logger)
		mcpServer.AddTool(createAnalyzeStockTool(), handleAnalyzeStock(insight, insightTimeout, logger))
		mcpServer.AddTool(createLookupPriceTool(), handleLookupPrice(prices, priceTimeout, logger))
	}

	// Register watchlist tools
	mcpServer.AddTool(createListWatchlistTool(), handleListWatchlist(watchlist))
	if !config.MCP.ReadOnlyWatchlist {
		mcpServer.AddTool(createSaveToWatchlistTool(), handleSaveToWatchlist(watchlist, logger))
	}

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
