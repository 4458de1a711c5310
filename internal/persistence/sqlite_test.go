package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/fanout"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SaveAndGetAnalysisRoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := analysis.Snapshot{
		Symbol:    "AAPL",
		Price:     123.45,
		ChangePct: 1.2,
		Signals: []domain.Signal{
			{Name: "golden_cross", Category: domain.CategoryMACross, Strength: domain.StrengthBullish},
		},
	}

	require.NoError(t, store.SaveAnalysis(ctx, "AAPL:1d:neutral", snap, time.Minute))

	got, found, err := store.GetAnalysis(ctx, "AAPL:1d:neutral")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.InDelta(t, 123.45, got.Price, 1e-9)
	require.Len(t, got.Signals, 1)
	assert.Equal(t, "golden_cross", got.Signals[0].Name)
}

func TestSQLiteStore_GetAnalysisMissingKeyReturnsFalse(t *testing.T) {
	store := newTestStore(t)
	_, found, err := store.GetAnalysis(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_ExpiredAnalysisIsNotReturned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAnalysis(ctx, "AAPL", analysis.Snapshot{Symbol: "AAPL"}, -time.Minute))

	_, found, err := store.GetAnalysis(ctx, "AAPL")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_SaveAndGetScanRoundTripsWithErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := fanout.ScanResult{
		Universe:     "sp500",
		TotalScanned: 3,
		Errors: []fanout.SymbolError{
			{Symbol: "ZZZZ", Err: domain.NewError(domain.CodeInvalidSymbol, "no such instrument: ZZZZ")},
		},
	}

	require.NoError(t, store.SaveScan(ctx, "run-1", result, time.Minute))

	got, found, err := store.GetScan(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, "sp500", got.Universe)
	assert.Equal(t, 3, got.TotalScanned)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "ZZZZ", got.Errors[0].Symbol)
	assert.Contains(t, got.Errors[0].Err.Error(), "no such instrument")
}
