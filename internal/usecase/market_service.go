package usecase

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vitos/crypto_market_dash/internal/domain"
	"github.com/vitos/crypto_market_dash/internal/format"
)

// MarketService sits between the upstream source and the serving layer and
// applies the two-tier failure policy: listings, global aggregates and
// trending degrade to an empty value when the source fails, because a
// dashboard section showing "no data" beats a crashed page; coin detail and
// price history raise typed errors carrying the requested parameters, because
// those views have no meaningful default.
type MarketService struct {
	source domain.MarketDataSource
	logger *zap.Logger
}

func NewMarketService(source domain.MarketDataSource, logger *zap.Logger) *MarketService {
	return &MarketService{
		source: source,
		logger: logger,
	}
}

// MarketSnapshot returns up to count coins for currency, or an empty slice on
// failure. Callers must treat empty as "no data", never as an error signal.
func (s *MarketService) MarketSnapshot(ctx context.Context, currency string, count int) []domain.MarketCoin {
	coins, err := s.source.MarketCoins(ctx, currency, count)
	if err != nil {
		s.logger.Error("Failed to fetch market listing", zap.String("currency", currency), zap.Error(err))
		return []domain.MarketCoin{}
	}
	if coins == nil {
		coins = []domain.MarketCoin{}
	}
	return coins
}

// GlobalSnapshot returns market-wide aggregates for currency, or a snapshot
// with all fields absent on failure.
func (s *MarketService) GlobalSnapshot(ctx context.Context, currency string) domain.GlobalSnapshot {
	snap, err := s.source.Global(ctx, currency)
	if err != nil {
		s.logger.Error("Failed to fetch global data", zap.Error(err))
		return domain.GlobalSnapshot{}
	}
	return snap
}

// TrendingEntries returns trending coins in upstream order, or an empty slice
// on failure.
func (s *MarketService) TrendingEntries(ctx context.Context) []domain.TrendingEntry {
	entries, err := s.source.Trending(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch trending coins", zap.Error(err))
		return []domain.TrendingEntry{}
	}
	if entries == nil {
		entries = []domain.TrendingEntry{}
	}
	return entries
}

// CoinDetail returns the full record for one coin. Failures are returned as
// a *domain.CoinDetailError carrying the coin id.
func (s *MarketService) CoinDetail(ctx context.Context, coinID, currency string) (*domain.CoinDetail, error) {
	detail, err := s.source.CoinDetail(ctx, coinID, currency)
	if err != nil {
		s.logger.Error("Failed to fetch coin detail", zap.String("coin_id", coinID), zap.Error(err))
		return nil, &domain.CoinDetailError{CoinID: coinID, Err: err}
	}
	return detail, nil
}

// PriceHistory returns the chart-ready price series for one coin and range,
// in upstream order. Failures are returned as a *domain.PriceHistoryError
// carrying the coin id and range.
func (s *MarketService) PriceHistory(ctx context.Context, coinID string, r domain.HistoryRange, currency string) ([]domain.PricePoint, error) {
	pairs, err := s.source.MarketChart(ctx, coinID, r, currency)
	if err != nil {
		s.logger.Error("Failed to fetch price history",
			zap.String("coin_id", coinID),
			zap.String("range", r.String()),
			zap.Error(err),
		)
		return nil, &domain.PriceHistoryError{CoinID: coinID, Range: r, Err: err}
	}
	return format.PriceSeries(pairs), nil
}

// Overview is the aggregate the dashboard landing page renders.
type Overview struct {
	Markets  []domain.MarketCoin    `json:"markets"`
	Global   domain.GlobalSnapshot  `json:"global"`
	Trending []domain.TrendingEntry `json:"trending"`
}

// Overview fetches the three degrade-tier resources concurrently. Each leg
// applies its own degrade policy, so the aggregate never fails as a whole.
func (s *MarketService) Overview(ctx context.Context, currency string, count int) Overview {
	var ov Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ov.Markets = s.MarketSnapshot(ctx, currency, count)
		return nil
	})
	g.Go(func() error {
		ov.Global = s.GlobalSnapshot(ctx, currency)
		return nil
	})
	g.Go(func() error {
		ov.Trending = s.TrendingEntries(ctx)
		return nil
	})
	_ = g.Wait()
	return ov
}
