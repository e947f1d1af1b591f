package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vitos/crypto_market_dash/internal/domain"
)

// Absent is the sentinel rendered for any missing numeric input.
const Absent = "N/A"

var grouped = message.NewPrinter(language.English)

// Currency renders a monetary value scaled by magnitude with a unit suffix:
// T/B/M/K above 1e12/1e9/1e6/1e3, plain 2 decimals from 1 up, and 8 decimals
// below 1 for sub-dollar prices. nil renders Absent.
//
// Negative values below 1 in magnitude fall through to the 8-decimal branch;
// kept for parity with the dashboard's historical output.
func Currency(v *float64) string {
	if v == nil {
		return Absent
	}
	switch val := *v; {
	case val >= 1e12:
		return fmt.Sprintf("$%.2fT", val/1e12)
	case val >= 1e9:
		return fmt.Sprintf("$%.2fB", val/1e9)
	case val >= 1e6:
		return fmt.Sprintf("$%.2fM", val/1e6)
	case val >= 1e3:
		return fmt.Sprintf("$%.2fK", val/1e3)
	case val >= 1:
		return fmt.Sprintf("$%.2f", val)
	default:
		return fmt.Sprintf("$%.8f", val)
	}
}

// Percentage renders a 2-decimal percentage with an explicit leading + for
// zero-or-positive values. nil renders Absent.
func Percentage(v *float64) string {
	if v == nil {
		return Absent
	}
	if *v >= 0 {
		return fmt.Sprintf("+%.2f%%", *v)
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// Supply renders a coin supply scaled by magnitude (B/M/K) and suffixed with
// the uppercased ticker symbol. Values below 1e3 render as a locale-grouped
// integer. nil and zero both render Absent: a true zero supply is
// indistinguishable from an absent one.
func Supply(supply *float64, symbol string) string {
	if supply == nil || *supply == 0 {
		return Absent
	}
	ticker := strings.ToUpper(symbol)
	switch s := *supply; {
	case s >= 1e9:
		return fmt.Sprintf("%.2fB %s", s/1e9, ticker)
	case s >= 1e6:
		return fmt.Sprintf("%.2fM %s", s/1e6, ticker)
	case s >= 1e3:
		return fmt.Sprintf("%.2fK %s", s/1e3, ticker)
	default:
		return grouped.Sprintf("%d %s", int64(s), ticker)
	}
}

// PriceSeries maps raw [timestampMillis, price] pairs to chart-ready points
// in input order. No re-sorting and no de-duplication: upstream order is
// trusted. Date and time labels are derived from the timestamp in the local
// timezone. An empty input yields an empty series.
func PriceSeries(pairs [][2]float64) []domain.PricePoint {
	points := make([]domain.PricePoint, 0, len(pairs))
	for _, pair := range pairs {
		ts := int64(pair[0])
		at := time.UnixMilli(ts)
		points = append(points, domain.PricePoint{
			Timestamp: ts,
			Date:      at.Format("1/2/2006"),
			Time:      at.Format("15:04"),
			Price:     pair[1],
		})
	}
	return points
}
