package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/services/session"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

type insightFunc func(ctx context.Context, input models.StockInput, result models.CalculationResult) string

func (f insightFunc) GenerateInsight(ctx context.Context, input models.StockInput, result models.CalculationResult) string {
	return f(ctx, input, result)
}

type priceFunc func(ctx context.Context, ticker string) (*models.PriceQuote, error)

func (f priceFunc) LookupPrice(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	return f(ctx, ticker)
}

type fakeWatchlist struct {
	items   []models.WatchlistItem
	saved   []models.StockForm
	saveErr error
}

func (f *fakeWatchlist) Watchlist() []models.WatchlistItem { return f.items }

func (f *fakeWatchlist) SaveToWatchlist(ctx context.Context, form models.StockForm) (bool, error) {
	f.saved = append(f.saved, form)
	return f.saveErr == nil, f.saveErr
}

func TestComputeFairValue(t *testing.T) {
	handler := handleComputeFairValue(arbor.NewLogger())

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		want      []string
	}{
		{
			name: "with mean per",
			args: map[string]any{"ticker": "bbca", "price": 1000.0, "eps": 100.0, "bvps": 1200.0, "mean_per": 15.0},
			want: []string{"## BBCA @ Rp 1.000", "UNDERVALUED (MOS +39.1%)", "**Historical PER (15x):** Rp 1.500"},
		},
		{
			name: "zero mean per",
			args: map[string]any{"price": 1000.0, "eps": 100.0, "bvps": 1200.0, "mean_per": 0.0},
			want: []string{"## Saham @ Rp 1.000", "**Historical PER:** Tidak ada data"},
		},
		{
			name:      "missing eps",
			args:      map[string]any{"price": 1000.0, "bvps": 1200.0},
			wantError: true,
			want:      []string{"eps parameter is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handler(context.Background(), toolRequest("compute_fair_value", tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)
			text := resultText(t, result)
			for _, want := range tt.want {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestAnalyzeStock(t *testing.T) {
	insight := insightFunc(func(ctx context.Context, input models.StockInput, result models.CalculationResult) string {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return "  Murah meriah " + input.Ticker + "! Disclaimer On.  "
	})
	handler := handleAnalyzeStock(insight, time.Second, arbor.NewLogger())

	result, err := handler(context.Background(), toolRequest("analyze_stock", map[string]any{
		"ticker": "bbri", "price": 4500.0, "eps": 380.0, "bvps": 2100.0,
	}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "## BBRI @ Rp 4.500")
	assert.Contains(t, text, "### Kata Bosbiss\n\nMurah meriah BBRI! Disclaimer On.\n")

	result, err = handler(context.Background(), toolRequest("analyze_stock", map[string]any{
		"price": 4500.0, "eps": 380.0, "bvps": 2100.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestLookupPrice(t *testing.T) {
	tests := []struct {
		name      string
		ticker    string
		quote     *models.PriceQuote
		err       error
		wantError bool
		want      string
	}{
		{name: "found", ticker: "bbca", quote: &models.PriceQuote{Price: 9875, Source: "https://example.com"}, want: "**BBCA:** Rp 9.875\n**Source:** https://example.com\n"},
		{name: "lookup error", ticker: "bbca", err: errors.New("quota"), wantError: true, want: session.MsgPriceLookupFailed},
		{name: "zero price", ticker: "bbca", quote: &models.PriceQuote{Price: 0}, wantError: true, want: session.MsgPriceLookupFailed},
		{name: "blank ticker", ticker: " ", wantError: true, want: "Error: " + session.MsgTickerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := priceFunc(func(ctx context.Context, ticker string) (*models.PriceQuote, error) {
				assert.Equal(t, "BBCA", ticker)
				return tt.quote, tt.err
			})
			handler := handleLookupPrice(prices, time.Second, arbor.NewLogger())

			result, err := handler(context.Background(), toolRequest("lookup_price", map[string]any{"ticker": tt.ticker}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)
			assert.Equal(t, tt.want, resultText(t, result))
		})
	}
}

func TestWatchlistTools(t *testing.T) {
	watchlist := &fakeWatchlist{}
	logger := arbor.NewLogger()

	result, err := handleListWatchlist(watchlist)(context.Background(), toolRequest("list_watchlist", nil))
	require.NoError(t, err)
	assert.Equal(t, "Belum ada saham di pantauan.\n", resultText(t, result))

	result, err = handleSaveToWatchlist(watchlist, logger)(context.Background(), toolRequest("save_to_watchlist", map[string]any{
		"ticker": "tlkm", "price": 3100.0, "eps": 250.0, "bvps": 1300.0, "mean_per": 14.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, "Mantap! TLKM udah masuk pantauan.", resultText(t, result))
	require.Len(t, watchlist.saved, 1)
	assert.Equal(t, models.StockForm{Ticker: "TLKM", Price: "3100", EPS: "250", BVPS: "1300", MeanPER: "14.5"}, watchlist.saved[0])

	watchlist.saveErr = errors.New("disk full")
	result, err = handleSaveToWatchlist(watchlist, logger)(context.Background(), toolRequest("save_to_watchlist", map[string]any{
		"ticker": "tlkm", "price": 3100.0, "eps": 250.0, "bvps": 1300.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetVersion(t *testing.T) {
	result, err := handleGetVersion()(context.Background(), toolRequest("get_version", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Bosbiss ")
}
