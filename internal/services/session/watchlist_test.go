package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

func TestSaveToWatchlist_IncompleteFormIsIgnored(t *testing.T) {
	forms := []models.StockForm{
		{},
		{Ticker: "BBCA", Price: "1000", EPS: "100"},
		{Ticker: "BBCA", Price: "seribu", EPS: "100", BVPS: "1200"},
	}

	for _, form := range forms {
		f := newFixture(t, nil)

		saved, err := f.session.SaveToWatchlist(context.Background(), form)
		assert.NoError(t, err)
		assert.False(t, saved)
		assert.Empty(t, f.session.Watchlist())
		assert.Equal(t, 0, f.storage.saveCount())
	}
}

func TestSaveToWatchlist_PrependsAndPersists(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	saved, err := f.session.SaveToWatchlist(ctx, scenarioA())
	require.NoError(t, err)
	require.True(t, saved)

	saved, err = f.session.SaveToWatchlist(ctx, models.StockForm{Ticker: "tlkm", Price: "3000", EPS: "250", BVPS: "1500"})
	require.NoError(t, err)
	require.True(t, saved)

	items := f.session.Watchlist()
	require.Len(t, items, 2)
	assert.Equal(t, "TLKM", items[0].Ticker)
	assert.Nil(t, items[0].MeanPER)
	assert.Equal(t, "BBCA", items[1].Ticker)
	require.NotNil(t, items[1].MeanPER)
	assert.Equal(t, 15.0, *items[1].MeanPER)

	assert.Equal(t, items, f.storage.stored())

	event, ok := f.events.last(interfaces.EventWatchlistChanged)
	require.True(t, ok)
	assert.Equal(t, "Mantap! TLKM udah masuk pantauan.", event.Message)
	assert.Len(t, event.Watchlist, 2)
}

func TestSaveToWatchlist_DoubleSaveKeepsOneEntry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.session.SaveToWatchlist(ctx, scenarioA())
	require.NoError(t, err)
	first := f.session.Watchlist()[0].LastUpdated

	_, err = f.session.SaveToWatchlist(ctx, models.StockForm{Ticker: "TLKM", Price: "3000", EPS: "250", BVPS: "1500"})
	require.NoError(t, err)

	again := scenarioA()
	again.Ticker = "BBCA"
	again.Price = "1100"
	_, err = f.session.SaveToWatchlist(ctx, again)
	require.NoError(t, err)

	items := f.session.Watchlist()
	require.Len(t, items, 2)
	assert.Equal(t, "BBCA", items[0].Ticker)
	assert.Equal(t, 1100.0, items[0].Price)
	assert.Greater(t, items[0].LastUpdated, first)
	assert.Greater(t, items[0].LastUpdated, items[1].LastUpdated)
}

func TestSaveToWatchlist_PersistenceFailureKeepsMemory(t *testing.T) {
	f := newFixture(t, &fakeStorage{saveErr: errors.New("read-only filesystem")})

	saved, err := f.session.SaveToWatchlist(context.Background(), scenarioA())
	assert.True(t, saved)
	assert.Error(t, err)
	assert.Len(t, f.session.Watchlist(), 1)
}

func TestDeleteFromWatchlist(t *testing.T) {
	storage := &fakeStorage{items: []models.WatchlistItem{
		{StockInput: models.StockInput{Ticker: "BBRI", Price: 4500, EPS: 380, BVPS: 2100}, LastUpdated: 2},
		{StockInput: models.StockInput{Ticker: "BBCA", Price: 1000, EPS: 100, BVPS: 1200}, LastUpdated: 1},
	}}
	f := newFixture(t, storage)
	ctx := context.Background()

	err := f.session.DeleteFromWatchlist(ctx, "BBCA", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Len(t, f.session.Watchlist(), 2)

	require.NoError(t, f.session.DeleteFromWatchlist(ctx, "GOTO", true))
	assert.Len(t, f.session.Watchlist(), 2)
	assert.Equal(t, 0, storage.saveCount(), "absent ticker does not persist")

	require.NoError(t, f.session.DeleteFromWatchlist(ctx, " bbca ", true))
	items := f.session.Watchlist()
	require.Len(t, items, 1)
	assert.Equal(t, "BBRI", items[0].Ticker)
	assert.Equal(t, 1, storage.saveCount())
	assert.Equal(t, items, storage.stored())
}

func TestLoadFromWatchlist(t *testing.T) {
	storage := &fakeStorage{items: []models.WatchlistItem{
		{StockInput: models.StockInput{Ticker: "BBCA", Price: 1000, EPS: 100, BVPS: 1200, MeanPER: floatPtr(15)}, LastUpdated: 1},
		{StockInput: models.StockInput{Ticker: "TLKM", Price: 3000, EPS: 250, BVPS: 1500}, LastUpdated: 0},
	}}
	f := newFixture(t, storage)
	ctx := context.Background()

	_, err := f.session.Analyze(ctx, models.StockForm{Ticker: "GOTO", Price: "60", EPS: "-5", BVPS: "40"})
	require.NoError(t, err)
	f.session.Wait()

	_, err = f.session.LoadFromWatchlist("ASII")
	assert.ErrorIs(t, err, ErrNotInWatchlist)

	form, err := f.session.LoadFromWatchlist("bbca")
	require.NoError(t, err)
	assert.Equal(t, models.StockForm{Ticker: "BBCA", Price: "1000", EPS: "100", BVPS: "1200", MeanPER: "15"}, form)

	snap := f.session.Snapshot()
	assert.Equal(t, form, snap.Form)
	assert.Empty(t, snap.PriceSource)
	assert.Nil(t, snap.Analysis.Result)
	assert.Nil(t, snap.Analysis.Insight)
	assert.Nil(t, snap.Analysis.Error)
	assert.Equal(t, models.PhaseIdle, snap.Analysis.Phase)

	form, err = f.session.LoadFromWatchlist("TLKM")
	require.NoError(t, err)
	assert.Empty(t, form.MeanPER)

	_, ok := f.events.last(interfaces.EventAnalysisReset)
	assert.True(t, ok)
}

func TestWatchlist_ReturnsCopy(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.session.SaveToWatchlist(context.Background(), scenarioA())
	require.NoError(t, err)

	items := f.session.Watchlist()
	items[0].Ticker = "HACK"

	assert.Equal(t, "BBCA", f.session.Watchlist()[0].Ticker)
}

func floatPtr(v float64) *float64 { return &v }
