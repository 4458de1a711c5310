package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/config"
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/ranking"
	"github.com/aristath/chartwatch/internal/modules/signals"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForCode_MapsEveryCategory(t *testing.T) {
	cases := []struct {
		code domain.Code
		want int
	}{
		{domain.CodeInvalidSymbol, http.StatusBadRequest},
		{domain.CodeInvalidPeriod, http.StatusBadRequest},
		{domain.CodeUnknownProfile, http.StatusBadRequest},
		{domain.CodeUnknownUniverse, http.StatusBadRequest},
		{domain.CodeInsufficientData, http.StatusUnprocessableEntity},
		{domain.CodeRateLimited, http.StatusTooManyRequests},
		{domain.CodeDataFetchError, http.StatusBadGateway},
		{domain.CodeRankerError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusForCode(c.code), "code %s", c.code)
	}
}

type fixedProvider struct {
	series domain.BarSeries
}

func (p *fixedProvider) FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error) {
	return p.series, nil
}

func flatTrendSeries(symbol string, n int) domain.BarSeries {
	bars := make([]domain.Bar, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		price += 0.1
		bars[i] = domain.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price + 0.5, Low: price - 0.5, Close: price,
			Volume: 1_000_000,
		}
	}
	return domain.BarSeries{Symbol: symbol, Bars: bars}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	provider := &fixedProvider{series: flatTrendSeries("AAPL", 400)}
	analyzer := analysis.New(provider, signals.NewPopulatedRegistry(zerolog.Nop()), ranking.RuleBasedRanker{}, nil, zerolog.Nop())
	return New(Config{
		Log:         zerolog.Nop(),
		AppConfig:   &config.Config{Port: 0, DevMode: true, FanOutConcurrency: 4},
		Analyzer:    analyzer,
		Concurrency: 4,
	})
}

func TestHandleHealth_ReportsHealthyStatus(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
}

func TestHandleAnalyzeSecurity_ReturnsSnapshot(t *testing.T) {
	srv := newTestServer(t)
	payload, err := json.Marshal(map[string]any{"symbol": "AAPL"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze_security", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotNil(t, body.Data)
}

func TestHandleAnalyzeSecurity_RejectsUnknownFields(t *testing.T) {
	srv := newTestServer(t)
	payload := []byte(`{"symbol":"AAPL","bogus_field":true}`)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze_security", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
