package domain

import "context"

// MarketDataSource is the upstream market-data API surface the dashboard
// reads from. Implementations retry transient failures internally and return
// an error only after the retry budget is exhausted; the degrade/raise policy
// is applied by the caller, not here.
type MarketDataSource interface {
	// MarketCoins returns up to count coins for the given currency, ordered
	// by descending market cap (ordering delegated to upstream).
	MarketCoins(ctx context.Context, currency string, count int) ([]MarketCoin, error)

	// Global returns market-wide aggregates extracted for the given currency.
	Global(ctx context.Context, currency string) (GlobalSnapshot, error)

	// Trending returns trending coins in upstream-provided order.
	Trending(ctx context.Context) ([]TrendingEntry, error)

	// CoinDetail returns the full record for one coin, with currency-keyed
	// market fields extracted for the given currency.
	CoinDetail(ctx context.Context, coinID, currency string) (*CoinDetail, error)

	// MarketChart returns raw [timestampMillis, price] pairs for the given
	// coin and range, in upstream (ascending) order.
	MarketChart(ctx context.Context, coinID string, r HistoryRange, currency string) ([][2]float64, error)
}
