package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/crypto_market_dash/internal/domain"
)

// DefaultBaseURL is the public CoinGecko v3 API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

const (
	maxAttempts = 3
	backoffStep = time.Second
)

// Client is the REST client for the CoinGecko API. Every operation retries
// transient failures up to maxAttempts with linear backoff (1s, 2s) before
// returning the last error; the degrade/raise policy lives in the usecase
// layer, not here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger

	// sleep waits between attempts; injected in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a CoinGecko client. baseURL falls back to DefaultBaseURL
// and timeout to 10s when zero. apiKey is optional; when set it is sent as a
// demo API key header.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		sleep:      sleepContext,
	}
}

// MarketCoins returns up to count coins priced in currency, ordered by
// descending market cap upstream.
func (c *Client) MarketCoins(ctx context.Context, currency string, count int) ([]domain.MarketCoin, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(count))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")

	var coins []domain.MarketCoin
	if err := c.getJSON(ctx, "/coins/markets", q, &coins); err != nil {
		return nil, fmt.Errorf("coingecko: market listing: %w", err)
	}
	return coins, nil
}

// Global returns market-wide aggregates extracted for currency.
func (c *Client) Global(ctx context.Context, currency string) (domain.GlobalSnapshot, error) {
	var resp globalResponse
	if err := c.getJSON(ctx, "/global", nil, &resp); err != nil {
		return domain.GlobalSnapshot{}, fmt.Errorf("coingecko: global data: %w", err)
	}
	return resp.toDomain(currency), nil
}

// Trending returns trending coins in upstream-provided order.
func (c *Client) Trending(ctx context.Context) ([]domain.TrendingEntry, error) {
	var resp trendingResponse
	if err := c.getJSON(ctx, "/search/trending", nil, &resp); err != nil {
		return nil, fmt.Errorf("coingecko: trending: %w", err)
	}
	return resp.toDomain(), nil
}

// CoinDetail returns the full record for one coin with currency-keyed market
// fields extracted for currency.
func (c *Client) CoinDetail(ctx context.Context, coinID, currency string) (*domain.CoinDetail, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")

	var resp coinDetailResponse
	path := "/coins/" + url.PathEscape(coinID)
	if err := c.getJSON(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("coingecko: coin %s: %w", coinID, err)
	}
	return resp.toDomain(currency), nil
}

// MarketChart returns raw [timestampMillis, price] pairs for coinID over r,
// in upstream (ascending) order.
func (c *Client) MarketChart(ctx context.Context, coinID string, r domain.HistoryRange, currency string) ([][2]float64, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("days", r.Query())

	var resp marketChartResponse
	path := "/coins/" + url.PathEscape(coinID) + "/market_chart"
	if err := c.getJSON(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("coingecko: market chart %s: %w", coinID, err)
	}
	return resp.Prices, nil
}

// getJSON fetches one resource with the retry policy and decodes it into out.
// A failed decode counts as a failed attempt, same as a transport error or a
// non-2xx status.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			// Linear backoff: 1s before the 2nd attempt, 2s before the 3rd.
			if err := c.sleep(ctx, time.Duration(attempt-1)*backoffStep); err != nil {
				return err
			}
		}

		body, err := c.get(ctx, fullURL)
		if err == nil {
			if err = json.Unmarshal(body, out); err == nil {
				return nil
			}
			err = fmt.Errorf("decode %s: %w", path, err)
		}
		lastErr = err
		c.logger.Debug("Request attempt failed",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
