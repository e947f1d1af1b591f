package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/vitos/crypto_market_dash/internal/domain"
	"github.com/vitos/crypto_market_dash/internal/format"
)

// Advisory freshness windows in seconds, surfaced as Cache-Control max-age.
// They hint how long a response stays fresh; nothing enforces them.
const (
	freshMarkets  = 60
	freshGlobal   = 300
	freshTrending = 300
	freshDetail   = 60
	freshHistory  = 3600
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov := s.market.Overview(r.Context(), s.currency(r), s.count(r))
	s.writeJSON(w, r, freshMarkets, overviewView{
		Markets:  marketRows(ov.Markets),
		Global:   newGlobalView(ov.Global),
		Trending: trendingRows(ov.Trending),
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	coins := s.market.MarketSnapshot(r.Context(), s.currency(r), s.count(r))
	s.writeJSON(w, r, freshMarkets, marketRows(coins))
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	snap := s.market.GlobalSnapshot(r.Context(), s.currency(r))
	s.writeJSON(w, r, freshGlobal, newGlobalView(snap))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	entries := s.market.TrendingEntries(r.Context())
	s.writeJSON(w, r, freshTrending, trendingRows(entries))
}

func (s *Server) handleCoinDetail(w http.ResponseWriter, r *http.Request) {
	coinID := r.PathValue("id")
	detail, err := s.market.CoinDetail(r.Context(), coinID, s.currency(r))
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}
	s.writeJSON(w, r, freshDetail, newCoinDetailView(detail))
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	coinID := r.PathValue("id")

	rangeParam := r.URL.Query().Get("days")
	if rangeParam == "" {
		rangeParam = "7"
	}
	hr, err := domain.ParseHistoryRange(rangeParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	points, err := s.market.PriceHistory(r.Context(), coinID, hr, s.currency(r))
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}
	s.writeJSON(w, r, freshHistory, points)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, 0, map[string]string{"status": "ok"})
}

// --------------------------------------------------------------------------
// View models: display-ready strings produced by the format package, the
// shape the dashboard UI consumes directly.
// --------------------------------------------------------------------------

type overviewView struct {
	Markets  []marketRow   `json:"markets"`
	Global   globalView    `json:"global"`
	Trending []trendingRow `json:"trending"`
}

type marketRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Image     string `json:"image"`
	Rank      *int   `json:"market_cap_rank"`
	Price     string `json:"price"`
	Change24h string `json:"change_24h"`
	MarketCap string `json:"market_cap"`
	Volume    string `json:"volume"`
}

func marketRows(coins []domain.MarketCoin) []marketRow {
	rows := make([]marketRow, 0, len(coins))
	for _, c := range coins {
		rows = append(rows, marketRow{
			ID:        c.ID,
			Name:      c.Name,
			Symbol:    c.Symbol,
			Image:     c.Image,
			Rank:      c.MarketCapRank,
			Price:     format.Currency(c.CurrentPrice),
			Change24h: format.Percentage(c.PriceChange24h),
			MarketCap: format.Currency(c.MarketCap),
			Volume:    format.Currency(c.TotalVolume),
		})
	}
	return rows
}

type globalView struct {
	TotalMarketCap     string `json:"total_market_cap"`
	MarketCapChange24h string `json:"market_cap_change_24h"`
	TotalVolume        string `json:"total_volume"`
	TopAsset           string `json:"top_asset"`
	TopDominance       string `json:"top_dominance"`
}

func newGlobalView(snap domain.GlobalSnapshot) globalView {
	return globalView{
		TotalMarketCap:     format.Currency(snap.TotalMarketCap),
		MarketCapChange24h: format.Percentage(snap.MarketCapChange24h),
		TotalVolume:        format.Currency(snap.TotalVolume),
		TopAsset:           snap.TopAsset,
		TopDominance:       format.Percentage(snap.TopDominance),
	}
}

type trendingRow struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Thumb         string  `json:"thumb"`
	Rank          int     `json:"rank"`
	MarketCapRank *int    `json:"market_cap_rank"`
	PriceBTC      float64 `json:"price_btc"`
}

func trendingRows(entries []domain.TrendingEntry) []trendingRow {
	rows := make([]trendingRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, trendingRow{
			ID:            e.ID,
			Name:          e.Name,
			Symbol:        e.Symbol,
			Thumb:         e.Thumb,
			Rank:          e.Score + 1, // upstream score is zero-based
			MarketCapRank: e.MarketCapRank,
			PriceBTC:      e.PriceBTC,
		})
	}
	return rows
}

type coinDetailView struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Symbol            string           `json:"symbol"`
	Image             domain.CoinImage `json:"image"`
	Price             string           `json:"price"`
	Change24h         string           `json:"change_24h"`
	MarketCap         string           `json:"market_cap"`
	Volume            string           `json:"volume"`
	CirculatingSupply string           `json:"circulating_supply"`
	TotalSupply       string           `json:"total_supply"`
	ATH               string           `json:"ath"`
	ATHDate           string           `json:"ath_date"`
	Links             domain.CoinLinks `json:"links"`
}

func newCoinDetailView(d *domain.CoinDetail) coinDetailView {
	return coinDetailView{
		ID:                d.ID,
		Name:              d.Name,
		Symbol:            d.Symbol,
		Image:             d.Image,
		Price:             format.Currency(d.Market.CurrentPrice),
		Change24h:         format.Percentage(d.Market.PriceChange24h),
		MarketCap:         format.Currency(d.Market.MarketCap),
		Volume:            format.Currency(d.Market.TotalVolume),
		CirculatingSupply: format.Supply(d.Market.CirculatingSupply, d.Symbol),
		TotalSupply:       format.Supply(d.Market.TotalSupply, d.Symbol),
		ATH:               format.Currency(d.Market.ATH),
		ATHDate:           d.Market.ATHDate,
		Links:             d.Links,
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (s *Server) currency(r *http.Request) string {
	if c := r.URL.Query().Get("currency"); c != "" {
		return c
	}
	return s.defaultCurrency
}

func (s *Server) count(r *http.Request) int {
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			return n
		}
	}
	return s.defaultCount
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, maxAge int, v any) {
	// The requester may have gone away while we were fetching; don't bother
	// rendering a result nobody is waiting for.
	if r.Context().Err() != nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if maxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

type errorBody struct {
	Error  string `json:"error"`
	CoinID string `json:"coin_id,omitempty"`
	Range  string `json:"range,omitempty"`
}

// writeUpstreamError maps the typed fetch errors to a 502 body carrying the
// identifying parameters, so the UI can build a meaningful message.
func (s *Server) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}

	body := errorBody{Error: err.Error()}
	var detailErr *domain.CoinDetailError
	var histErr *domain.PriceHistoryError
	switch {
	case errors.As(err, &detailErr):
		body.CoinID = detailErr.CoinID
	case errors.As(err, &histErr):
		body.CoinID = histErr.CoinID
		body.Range = histErr.Range.String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
