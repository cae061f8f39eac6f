package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	config := &common.BadgerConfig{
		Path:          filepath.Join(t.TempDir(), "db"),
		WatchlistSlot: "bosbissWatchlist",
	}
	manager, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func meanPER(v float64) *float64 { return &v }

func TestWatchlistStorage_LoadMissingSlot(t *testing.T) {
	manager := newTestManager(t)

	items, err := manager.WatchlistStorage().LoadWatchlist(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestWatchlistStorage_SaveAndLoadPreservesOrder(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	storage := manager.WatchlistStorage()

	saved := []models.WatchlistItem{
		{StockInput: models.StockInput{Ticker: "TLKM", Price: 3000, EPS: 250, BVPS: 1500}, LastUpdated: 1760486400002},
		{StockInput: models.StockInput{Ticker: "BBCA", Price: 1000, EPS: 100, BVPS: 1200, MeanPER: meanPER(15)}, LastUpdated: 1760486400001},
	}
	require.NoError(t, storage.SaveWatchlist(ctx, saved))

	loaded, err := storage.LoadWatchlist(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "TLKM", loaded[0].Ticker)
	assert.Nil(t, loaded[0].MeanPER)
	assert.Equal(t, "BBCA", loaded[1].Ticker)
	require.NotNil(t, loaded[1].MeanPER)
	assert.Equal(t, 15.0, *loaded[1].MeanPER)
	assert.Equal(t, int64(1760486400001), loaded[1].LastUpdated)
}

func TestWatchlistStorage_SaveReplacesSlot(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	storage := manager.WatchlistStorage()

	require.NoError(t, storage.SaveWatchlist(ctx, []models.WatchlistItem{
		{StockInput: models.StockInput{Ticker: "BBCA", Price: 1000, EPS: 100, BVPS: 1200}},
	}))
	require.NoError(t, storage.SaveWatchlist(ctx, nil))

	loaded, err := storage.LoadWatchlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestWatchlistStorage_CorruptPayloadLoadsEmpty(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	corrupt := []string{`{not json`, `{"ticker":"BBCA"}`, `[{"ticker":"BBCA","price":"mahal"}]`}
	for _, payload := range corrupt {
		record := models.WatchlistSlot{
			Name:      "bosbissWatchlist",
			Payload:   []byte(payload),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, manager.db.Store().Upsert("bosbissWatchlist", &record))

		loaded, err := manager.WatchlistStorage().LoadWatchlist(ctx)
		require.NoError(t, err, payload)
		assert.Empty(t, loaded, payload)
	}
}

func TestWatchlistStorage_NullPayloadLoadsEmpty(t *testing.T) {
	manager := newTestManager(t)

	record := models.WatchlistSlot{Name: "bosbissWatchlist", Payload: []byte("null")}
	require.NoError(t, manager.db.Store().Upsert("bosbissWatchlist", &record))

	loaded, err := manager.WatchlistStorage().LoadWatchlist(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestWatchlistStorage_SurvivesReopen(t *testing.T) {
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}
	ctx := context.Background()

	manager, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	require.NoError(t, manager.WatchlistStorage().SaveWatchlist(ctx, []models.WatchlistItem{
		{StockInput: models.StockInput{Ticker: "BBRI", Price: 4500, EPS: 380, BVPS: 2100}, LastUpdated: 1},
	}))
	require.NoError(t, manager.Close())

	reopened, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.WatchlistStorage().LoadWatchlist(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "BBRI", loaded[0].Ticker)
}

func TestManager_ResetOnStartup(t *testing.T) {
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}
	ctx := context.Background()

	manager, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	require.NoError(t, manager.WatchlistStorage().SaveWatchlist(ctx, []models.WatchlistItem{
		{StockInput: models.StockInput{Ticker: "BBRI"}},
	}))
	require.NoError(t, manager.Close())

	config.ResetOnStartup = true
	reset, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	defer reset.Close()

	loaded, err := reset.WatchlistStorage().LoadWatchlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestManager_RunMaintenance(t *testing.T) {
	manager := newTestManager(t)

	assert.NoError(t, manager.RunMaintenance(context.Background(), 0.5))
	assert.Error(t, manager.RunMaintenance(context.Background(), 0))
	assert.Error(t, manager.RunMaintenance(context.Background(), 1.5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, manager.RunMaintenance(ctx, 0.5), context.Canceled)
}
