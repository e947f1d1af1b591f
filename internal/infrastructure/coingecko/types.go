package coingecko

import (
	"strings"

	"github.com/vitos/crypto_market_dash/internal/domain"
)

// Wire shapes of the CoinGecko v3 API. Market listings decode straight into
// domain.MarketCoin; the wrapped responses below need unwrapping and
// currency-keyed extraction first.

type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID            string  `json:"id"`
			Name          string  `json:"name"`
			Symbol        string  `json:"symbol"`
			Thumb         string  `json:"thumb"`
			MarketCapRank *int    `json:"market_cap_rank"`
			PriceBTC      float64 `json:"price_btc"`
			Score         int     `json:"score"`
		} `json:"item"`
	} `json:"coins"`
}

func (r trendingResponse) toDomain() []domain.TrendingEntry {
	entries := make([]domain.TrendingEntry, 0, len(r.Coins))
	for _, c := range r.Coins {
		entries = append(entries, domain.TrendingEntry{
			ID:            c.Item.ID,
			Name:          c.Item.Name,
			Symbol:        c.Item.Symbol,
			Thumb:         c.Item.Thumb,
			PriceBTC:      c.Item.PriceBTC,
			MarketCapRank: c.Item.MarketCapRank,
			Score:         c.Item.Score,
		})
	}
	return entries
}

type globalResponse struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		TotalVolume         map[string]float64 `json:"total_volume"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		MarketCapChange24h  *float64           `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

func (r globalResponse) toDomain(currency string) domain.GlobalSnapshot {
	snap := domain.GlobalSnapshot{
		TotalMarketCap:     pick(r.Data.TotalMarketCap, currency),
		TotalVolume:        pick(r.Data.TotalVolume, currency),
		MarketCapChange24h: r.Data.MarketCapChange24h,
	}
	// Dominance of the leading asset: the largest share of total market cap.
	for symbol, pct := range r.Data.MarketCapPercentage {
		if snap.TopDominance == nil || pct > *snap.TopDominance {
			share := pct
			snap.TopDominance = &share
			snap.TopAsset = strings.ToUpper(symbol)
		}
	}
	return snap
}

type coinDetailResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  struct {
		Thumb string `json:"thumb"`
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"image"`
	MarketData struct {
		CurrentPrice      map[string]float64 `json:"current_price"`
		MarketCap         map[string]float64 `json:"market_cap"`
		TotalVolume       map[string]float64 `json:"total_volume"`
		CirculatingSupply *float64           `json:"circulating_supply"`
		TotalSupply       *float64           `json:"total_supply"`
		ATH               map[string]float64 `json:"ath"`
		ATHDate           map[string]string  `json:"ath_date"`
		PriceChange24h    *float64           `json:"price_change_percentage_24h"`
	} `json:"market_data"`
	Links struct {
		Homepage       []string `json:"homepage"`
		BlockchainSite []string `json:"blockchain_site"`
	} `json:"links"`
}

func (r coinDetailResponse) toDomain(currency string) *domain.CoinDetail {
	return &domain.CoinDetail{
		ID:     r.ID,
		Name:   r.Name,
		Symbol: r.Symbol,
		Image: domain.CoinImage{
			Thumb: r.Image.Thumb,
			Small: r.Image.Small,
			Large: r.Image.Large,
		},
		Market: domain.CoinMarketData{
			CurrentPrice:      pick(r.MarketData.CurrentPrice, currency),
			MarketCap:         pick(r.MarketData.MarketCap, currency),
			TotalVolume:       pick(r.MarketData.TotalVolume, currency),
			CirculatingSupply: r.MarketData.CirculatingSupply,
			TotalSupply:       r.MarketData.TotalSupply,
			ATH:               pick(r.MarketData.ATH, currency),
			ATHDate:           r.MarketData.ATHDate[currency],
			PriceChange24h:    r.MarketData.PriceChange24h,
		},
		Links: domain.CoinLinks{
			Homepage:  dropEmpty(r.Links.Homepage),
			Explorers: dropEmpty(r.Links.BlockchainSite),
		},
	}
}

type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// pick extracts a currency-keyed value; a missing key stays absent rather
// than becoming zero.
func pick(m map[string]float64, currency string) *float64 {
	if v, ok := m[currency]; ok {
		return &v
	}
	return nil
}

func dropEmpty(links []string) []string {
	out := links[:0]
	for _, l := range links {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
