// Package marketdata is the data-access layer of spec §4.1: given a
// (symbol, period), it produces a domain.BarSeries, retrying transport
// failures and memoizing results behind a bounded, single-flight cache.
package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Provider fetches OHLCV bars for one symbol/period from an upstream
// vendor. The core never assumes a particular vendor (spec §4.1): any
// implementation satisfying this interface can be wired in.
type Provider interface {
	FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error)
}

// HTTPProvider is a Provider backed by a REST data vendor, using
// retryablehttp for exponential-backoff retries on transport failures.
// Invalid-symbol responses (404) are never retried.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
	log     zerolog.Logger
}

// NewHTTPProvider builds an HTTPProvider against baseURL, authenticating
// with apiKey, retrying up to maxRetries times on transport failure.
func NewHTTPProvider(baseURL, apiKey string, maxRetries int, log zerolog.Logger) *HTTPProvider {
	client := retryablehttp.NewClient()
	client.RetryMax = maxRetries
	client.Logger = nil // silence the library's own logging; we log ourselves below
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil // invalid symbol: never retried
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		log:     log.With().Str("component", "marketdata.provider").Logger(),
	}
}

type barsResponse struct {
	Bars []struct {
		Timestamp int64   `json:"timestamp"`
		Open      float64 `json:"open"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
		Volume    float64 `json:"volume"`
	} `json:"bars"`
}

// FetchBars implements Provider.
func (p *HTTPProvider) FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error) {
	url := fmt.Sprintf("%s/v1/bars?symbol=%s&period=%s", p.baseURL, symbol, period)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.BarSeries{}, domain.Wrap(domain.CodeDataFetchError, "failed to build bars request", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error().Err(err).Str("symbol", symbol).Msg("bars fetch failed after retries")
		return domain.BarSeries{}, domain.Wrap(domain.CodeDataFetchError, "bars fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.BarSeries{}, domain.NewError(domain.CodeInvalidSymbol, fmt.Sprintf("unknown symbol %q", symbol))
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.BarSeries{}, domain.NewError(domain.CodeRateLimited, "data provider rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.BarSeries{}, domain.NewError(domain.CodeDataFetchError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body))
	}

	var parsed barsResponse
	if err := decodeJSON(resp.Body, &parsed); err != nil {
		return domain.BarSeries{}, domain.Wrap(domain.CodeDataFetchError, "failed to decode bars response", err)
	}

	bars := make([]domain.Bar, 0, len(parsed.Bars))
	for _, b := range parsed.Bars {
		bars = append(bars, domain.Bar{
			Timestamp: time.Unix(b.Timestamp, 0).UTC(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	return domain.BarSeries{Symbol: symbol, Period: period, Bars: bars}, nil
}
