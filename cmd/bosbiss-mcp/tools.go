package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// stockParams are the numeric inputs shared by the valuation tools
func stockParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("price",
			mcp.Required(),
			mcp.Description("Current share price in Rupiah"),
		),
		mcp.WithNumber("eps",
			mcp.Required(),
			mcp.Description("Earnings per share (trailing twelve months)"),
		),
		mcp.WithNumber("bvps",
			mcp.Required(),
			mcp.Description("Book value per share"),
		),
		mcp.WithNumber("mean_per",
			mcp.Description("5-year average PER. Omit or pass 0 to skip the historical valuation"),
		),
	}
}

// createComputeFairValueTool returns the compute_fair_value tool definition
func createComputeFairValueTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Compute the Graham Number and historical PER fair value of a stock with margin of safety and verdict"),
		mcp.WithString("ticker",
			mcp.Description("Stock code, e.g. BBCA (optional, used in the heading)"),
		),
	}, stockParams()...)
	return mcp.NewTool("compute_fair_value", opts...)
}

// createAnalyzeStockTool returns the analyze_stock tool definition
func createAnalyzeStockTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Compute the fair value of a stock and add a short commentary in casual Indonesian"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock code, e.g. BBCA"),
		),
	}, stockParams()...)
	return mcp.NewTool("analyze_stock", opts...)
}

// createLookupPriceTool returns the lookup_price tool definition
func createLookupPriceTool() mcp.Tool {
	return mcp.NewTool("lookup_price",
		mcp.WithDescription("Look up the current market price of an IDX stock"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock code, e.g. BBCA"),
		),
	)
}

// createListWatchlistTool returns the list_watchlist tool definition
func createListWatchlistTool() mcp.Tool {
	return mcp.NewTool("list_watchlist",
		mcp.WithDescription("List the saved watchlist, most recently updated first"),
	)
}

// createSaveToWatchlistTool returns the save_to_watchlist tool definition
func createSaveToWatchlistTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Save a stock to the watchlist, replacing any entry with the same ticker"),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock code, e.g. BBCA"),
		),
	}, stockParams()...)
	return mcp.NewTool("save_to_watchlist", opts...)
}

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Return the Bosbiss version"),
	)
}
