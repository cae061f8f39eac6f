package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/report"
	"github.com/ternarybob/bosbiss/internal/services/session"
	"github.com/ternarybob/bosbiss/internal/services/valuation"
)

// watchlistService is the part of the session used by the watchlist tools
type watchlistService interface {
	Watchlist() []models.WatchlistItem
	SaveToWatchlist(ctx context.Context, form models.StockForm) (bool, error)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

// parseStockInput reads ticker, price, eps, bvps and the optional mean_per
func parseStockInput(request mcp.CallToolRequest, tickerRequired bool) (models.StockInput, error) {
	var input models.StockInput

	if tickerRequired {
		ticker, err := request.RequireString("ticker")
		if err != nil || strings.TrimSpace(ticker) == "" {
			return input, fmt.Errorf("ticker parameter is required")
		}
		input.Ticker = ticker
	} else {
		input.Ticker = request.GetString("ticker", "")
	}
	input.Ticker = common.NormalizeTicker(input.Ticker)

	fields := []struct {
		name string
		dst  *float64
	}{
		{"price", &input.Price},
		{"eps", &input.EPS},
		{"bvps", &input.BVPS},
	}
	for _, field := range fields {
		v, err := request.RequireFloat(field.name)
		if err != nil {
			return input, fmt.Errorf("%s parameter is required", field.name)
		}
		*field.dst = v
	}

	if _, ok := request.GetArguments()["mean_per"]; ok {
		meanPER := request.GetFloat("mean_per", 0)
		input.MeanPER = &meanPER
	}

	return input, nil
}

// handleComputeFairValue implements the compute_fair_value tool
func handleComputeFairValue(logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := parseStockInput(request, false)
		if err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		result := valuation.Compute(input)
		logger.Debug().Str("ticker", input.Ticker).Str("graham_status", string(result.GrahamStatus)).Msg("Fair value computed")
		return textResult(report.Result(input, result)), nil
	}
}

// handleAnalyzeStock implements the analyze_stock tool
func handleAnalyzeStock(insight interfaces.InsightGenerator, timeout time.Duration, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := parseStockInput(request, true)
		if err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		result := valuation.Compute(input)

		insightCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text := insight.GenerateInsight(insightCtx, input, result)

		logger.Debug().Str("ticker", input.Ticker).Msg("Stock analysed")
		return textResult(formatAnalysis(input, result, text)), nil
	}
}

// handleLookupPrice implements the lookup_price tool
func handleLookupPrice(prices interfaces.PriceLookup, timeout time.Duration, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		ticker = common.NormalizeTicker(ticker)
		if err != nil || ticker == "" {
			return errorResult("Error: " + session.MsgTickerRequired), nil
		}

		lookupCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		quote, err := prices.LookupPrice(lookupCtx, ticker)
		if err != nil || quote == nil || !common.IsFinite(quote.Price) || quote.Price <= 0 {
			logger.Warn().Err(err).Str("ticker", ticker).Msg("Price lookup failed")
			return errorResult(session.MsgPriceLookupFailed), nil
		}

		return textResult(formatQuote(ticker, *quote)), nil
	}
}

// handleListWatchlist implements the list_watchlist tool
func handleListWatchlist(watchlist watchlistService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(report.Watchlist(watchlist.Watchlist())), nil
	}
}

// handleSaveToWatchlist implements the save_to_watchlist tool
func handleSaveToWatchlist(watchlist watchlistService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := parseStockInput(request, true)
		if err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		saved, err := watchlist.SaveToWatchlist(ctx, models.FormFromInput(input))
		if err != nil {
			logger.Error().Err(err).Str("ticker", input.Ticker).Msg("Failed to persist watchlist")
			return errorResult(fmt.Sprintf("Failed to persist watchlist: %v", err)), nil
		}
		if !saved {
			return errorResult(session.MsgAnalysisFields), nil
		}

		return textResult(session.SavedMessage(input.Ticker)), nil
	}
}

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(fmt.Sprintf("Bosbiss %s", common.GetFullVersion())), nil
	}
}
