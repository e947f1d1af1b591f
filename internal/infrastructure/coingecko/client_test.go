package coingecko

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitos/crypto_market_dash/internal/domain"
)

// fakeTransport fails the first `failures` attempts with a transport error,
// then serves the configured status and body.
type fakeTransport struct {
	mu       sync.Mutex
	failures int
	status   int
	body     string
	calls    int
	requests []*http.Request
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, req)
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestClient(t *testing.T, ft *fakeTransport) (*Client, *[]time.Duration) {
	t.Helper()
	c := NewClient("https://example.test/api/v3", "", time.Second, zap.NewNop())
	c.httpClient.Transport = ft

	waits := &[]time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return c, waits
}

const marketListingBody = `[
	{
		"id": "bitcoin",
		"name": "Bitcoin",
		"symbol": "btc",
		"image": "https://img.test/btc.png",
		"market_cap_rank": 1,
		"current_price": 50000,
		"price_change_percentage_24h": -1.5,
		"market_cap": 1000000000000,
		"total_volume": 25000000000
	}
]`

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	ft := &fakeTransport{failures: 2, body: marketListingBody}
	c, waits := newTestClient(t, ft)

	coins, err := c.MarketCoins(context.Background(), "usd", 50)

	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "bitcoin", coins[0].ID)
	require.NotNil(t, coins[0].CurrentPrice)
	assert.Equal(t, 50000.0, *coins[0].CurrentPrice)

	assert.Equal(t, 3, ft.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestRetryGivesUpAfterThreeAttempts(t *testing.T) {
	ft := &fakeTransport{failures: 3}
	c, waits := newTestClient(t, ft)

	_, err := c.MarketCoins(context.Background(), "usd", 50)

	require.Error(t, err)
	assert.Equal(t, 3, ft.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestNon2xxStatusIsAFailedAttempt(t *testing.T) {
	ft := &fakeTransport{status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`}
	c, _ := newTestClient(t, ft)

	_, err := c.Trending(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
	assert.Equal(t, 3, ft.calls)
}

func TestRetryAbortsWhenContextCancelled(t *testing.T) {
	ft := &fakeTransport{failures: 3}
	c := NewClient("https://example.test/api/v3", "", time.Second, zap.NewNop())
	c.httpClient.Transport = ft

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Trending(ctx)

	// The backoff sleep observes the dead context instead of waiting out the
	// remaining attempts.
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, ft.calls, 1)
}

func TestMarketChartDecodesPricePairs(t *testing.T) {
	ft := &fakeTransport{body: `{"prices":[[0,100],[86400000,110]]}`}
	c, _ := newTestClient(t, ft)

	pairs, err := c.MarketChart(context.Background(), "bitcoin", domain.RangeDays(7), "usd")

	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, [2]float64{0, 100}, pairs[0])
	assert.Equal(t, [2]float64{86400000, 110}, pairs[1])

	req := ft.requests[0]
	assert.Equal(t, "/api/v3/coins/bitcoin/market_chart", req.URL.Path)
	assert.Equal(t, "7", req.URL.Query().Get("days"))
	assert.Equal(t, "usd", req.URL.Query().Get("vs_currency"))
}

func TestMarketChartFullHistoryRange(t *testing.T) {
	ft := &fakeTransport{body: `{"prices":[]}`}
	c, _ := newTestClient(t, ft)

	_, err := c.MarketChart(context.Background(), "bitcoin", domain.RangeMax(), "usd")

	require.NoError(t, err)
	assert.Equal(t, "max", ft.requests[0].URL.Query().Get("days"))
}

func TestTrendingUnwrapsItems(t *testing.T) {
	body := `{
		"coins": [
			{"item": {"id": "pepe", "name": "Pepe", "symbol": "PEPE", "thumb": "t.png", "price_btc": 0.00000001, "score": 0}},
			{"item": {"id": "solana", "name": "Solana", "symbol": "SOL", "thumb": "s.png", "market_cap_rank": 5, "price_btc": 0.002, "score": 1}}
		]
	}`
	ft := &fakeTransport{body: body}
	c, _ := newTestClient(t, ft)

	entries, err := c.Trending(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pepe", entries[0].ID)
	assert.Nil(t, entries[0].MarketCapRank, "unranked coin keeps an absent rank")
	assert.Equal(t, 0, entries[0].Score)
	require.NotNil(t, entries[1].MarketCapRank)
	assert.Equal(t, 5, *entries[1].MarketCapRank)
}

func TestGlobalExtractsCurrencyAndDominance(t *testing.T) {
	body := `{
		"data": {
			"total_market_cap": {"usd": 2500000000000, "eur": 2300000000000},
			"total_volume": {"usd": 90000000000},
			"market_cap_percentage": {"btc": 52.3, "eth": 17.1},
			"market_cap_change_percentage_24h_usd": -0.8
		}
	}`
	ft := &fakeTransport{body: body}
	c, _ := newTestClient(t, ft)

	snap, err := c.Global(context.Background(), "usd")

	require.NoError(t, err)
	require.NotNil(t, snap.TotalMarketCap)
	assert.Equal(t, 2.5e12, *snap.TotalMarketCap)
	require.NotNil(t, snap.MarketCapChange24h)
	assert.Equal(t, -0.8, *snap.MarketCapChange24h)
	assert.Equal(t, "BTC", snap.TopAsset)
	require.NotNil(t, snap.TopDominance)
	assert.Equal(t, 52.3, *snap.TopDominance)
}

func TestGlobalMissingCurrencyStaysAbsent(t *testing.T) {
	ft := &fakeTransport{body: `{"data": {"total_market_cap": {"usd": 1}}}`}
	c, _ := newTestClient(t, ft)

	snap, err := c.Global(context.Background(), "eur")

	require.NoError(t, err)
	assert.Nil(t, snap.TotalMarketCap)
	assert.Nil(t, snap.TotalVolume)
}

func TestCoinDetailExtractsCurrencyKeyedFields(t *testing.T) {
	body := `{
		"id": "bitcoin",
		"name": "Bitcoin",
		"symbol": "btc",
		"image": {"thumb": "t.png", "small": "s.png", "large": "l.png"},
		"market_data": {
			"current_price": {"usd": 50000},
			"market_cap": {"usd": 1000000000000},
			"total_volume": {"usd": 25000000000},
			"circulating_supply": 19500000,
			"total_supply": 21000000,
			"ath": {"usd": 69000},
			"ath_date": {"usd": "2021-11-10T14:24:11.849Z"},
			"price_change_percentage_24h": 2.1
		},
		"links": {"homepage": ["https://bitcoin.org", ""], "blockchain_site": ["https://blockchair.com", ""]}
	}`
	ft := &fakeTransport{body: body}
	c, _ := newTestClient(t, ft)

	detail, err := c.CoinDetail(context.Background(), "bitcoin", "usd")

	require.NoError(t, err)
	assert.Equal(t, "bitcoin", detail.ID)
	require.NotNil(t, detail.Market.CurrentPrice)
	assert.Equal(t, 50000.0, *detail.Market.CurrentPrice)
	require.NotNil(t, detail.Market.CirculatingSupply)
	assert.Equal(t, 19500000.0, *detail.Market.CirculatingSupply)
	assert.Equal(t, "2021-11-10T14:24:11.849Z", detail.Market.ATHDate)
	assert.Equal(t, []string{"https://bitcoin.org"}, detail.Links.Homepage)
	assert.Equal(t, []string{"https://blockchair.com"}, detail.Links.Explorers)

	q := ft.requests[0].URL.Query()
	assert.Equal(t, "false", q.Get("localization"))
	assert.Equal(t, "true", q.Get("market_data"))
}

func TestAPIKeyHeaderAttachedWhenConfigured(t *testing.T) {
	ft := &fakeTransport{body: `{"coins":[]}`}
	c := NewClient("https://example.test/api/v3", "demo-key", time.Second, zap.NewNop())
	c.httpClient.Transport = ft

	_, err := c.Trending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "demo-key", ft.requests[0].Header.Get("x-cg-demo-api-key"))
}
