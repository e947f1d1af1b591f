package domain

import (
	"fmt"
	"strconv"
)

// MarketCoin is one row of a market listing, ordered by descending market cap
// upstream. Monetary and percentage fields are pointers because the upstream
// API may omit any of them for a given currency.
type MarketCoin struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Symbol         string   `json:"symbol"`
	Image          string   `json:"image"`
	MarketCapRank  *int     `json:"market_cap_rank"`
	CurrentPrice   *float64 `json:"current_price"`
	PriceChange24h *float64 `json:"price_change_percentage_24h"`
	MarketCap      *float64 `json:"market_cap"`
	TotalVolume    *float64 `json:"total_volume"`
}

// GlobalSnapshot holds market-wide aggregates for one currency. The zero
// value (all fields absent) is the degraded result when the upstream fetch
// fails.
type GlobalSnapshot struct {
	TotalMarketCap     *float64 `json:"total_market_cap"`
	MarketCapChange24h *float64 `json:"market_cap_change_24h"`
	TotalVolume        *float64 `json:"total_volume"`
	TopAsset           string   `json:"top_asset"`
	TopDominance       *float64 `json:"top_dominance"`
}

// TrendingEntry is one coin from the trending search list, in upstream order.
// Score is zero-based as received; display rank is Score+1. MarketCapRank may
// be absent for unranked coins, which is a valid displayable state.
type TrendingEntry struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Thumb         string  `json:"thumb"`
	PriceBTC      float64 `json:"price_btc"`
	MarketCapRank *int    `json:"market_cap_rank"`
	Score         int     `json:"score"`
}

// CoinImage holds the icon URLs for a coin at the sizes the upstream serves.
type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CoinMarketData is the per-currency market block of a coin detail lookup.
type CoinMarketData struct {
	CurrentPrice      *float64 `json:"current_price"`
	MarketCap         *float64 `json:"market_cap"`
	TotalVolume       *float64 `json:"total_volume"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"`
	ATH               *float64 `json:"ath"`
	ATHDate           string   `json:"ath_date"`
	PriceChange24h    *float64 `json:"price_change_percentage_24h"`
}

// CoinLinks holds the external links of a coin.
type CoinLinks struct {
	Homepage  []string `json:"homepage"`
	Explorers []string `json:"explorers"`
}

// CoinDetail is the full per-coin record fetched on demand.
type CoinDetail struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Symbol string         `json:"symbol"`
	Image  CoinImage      `json:"image"`
	Market CoinMarketData `json:"market"`
	Links  CoinLinks      `json:"links"`
}

// PricePoint is one chart point derived from an upstream [timestamp, price]
// pair. Date and Time labels are derived from the same timestamp in the local
// timezone. A slice of PricePoints keeps the upstream (ascending) order.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Price     float64 `json:"price"`
}

// HistoryRange selects the breadth of a price-history request: a whole number
// of trailing days (>= 1) or the entire available history.
type HistoryRange struct {
	Days int
	Max  bool
}

// RangeDays returns a range covering the trailing d days.
func RangeDays(d int) HistoryRange { return HistoryRange{Days: d} }

// RangeMax returns the entire-history sentinel.
func RangeMax() HistoryRange { return HistoryRange{Max: true} }

// ParseHistoryRange parses a days selector: "max" (or "all") for the full
// history, otherwise an integer >= 1.
func ParseHistoryRange(s string) (HistoryRange, error) {
	if s == "max" || s == "all" {
		return RangeMax(), nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 1 {
		return HistoryRange{}, fmt.Errorf("invalid history range %q", s)
	}
	return RangeDays(d), nil
}

// Query returns the value for the upstream days parameter.
func (r HistoryRange) Query() string {
	if r.Max {
		return "max"
	}
	return strconv.Itoa(r.Days)
}

func (r HistoryRange) String() string {
	if r.Max {
		return "max"
	}
	return fmt.Sprintf("%dd", r.Days)
}
