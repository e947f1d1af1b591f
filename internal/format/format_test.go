package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"absent", nil, "N/A"},
		{"trillions", ptr(1.23e12), "$1.23T"},
		{"trillion_boundary", ptr(1e12), "$1.00T"},
		{"billions", ptr(2.5e9), "$2.50B"},
		{"billion_boundary", ptr(1e9), "$1.00B"},
		{"millions", ptr(3.216e6), "$3.22M"},
		{"thousands", ptr(1500), "$1.50K"},
		{"thousand_boundary", ptr(1e3), "$1.00K"},
		{"one_dollar", ptr(1), "$1.00"},
		{"two_decimals", ptr(123.456), "$123.46"},
		{"sub_dollar", ptr(0.5), "$0.50000000"},
		{"tiny", ptr(0.00001234), "$0.00001234"},
		// Negative values below 1 in magnitude take the 8-decimal branch.
		{"negative_sub_dollar", ptr(-0.5), "$-0.50000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.in))
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"absent", nil, "N/A"},
		{"zero_gets_plus", ptr(0), "+0.00%"},
		{"positive", ptr(5.678), "+5.68%"},
		{"negative", ptr(-3.456), "-3.46%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.in))
		})
	}
}

func TestSupply(t *testing.T) {
	tests := []struct {
		name   string
		supply *float64
		symbol string
		want   string
	}{
		{"absent", nil, "btc", "N/A"},
		{"zero_collapses_to_absent", ptr(0), "btc", "N/A"},
		{"billions", ptr(1.5e9), "btc", "1.50B BTC"},
		{"millions", ptr(21e6), "btc", "21.00M BTC"},
		{"thousands", ptr(5500), "doge", "5.50K DOGE"},
		{"small_grouped_integer", ptr(999), "eth", "999 ETH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Supply(tt.supply, tt.symbol))
		})
	}
}

func TestPriceSeries(t *testing.T) {
	pairs := [][2]float64{{0, 100}, {86400000, 110}}

	points := PriceSeries(pairs)

	require.Len(t, points, 2)
	assert.Equal(t, int64(0), points[0].Timestamp)
	assert.Equal(t, 100.0, points[0].Price)
	assert.Equal(t, int64(86400000), points[1].Timestamp)
	assert.Equal(t, 110.0, points[1].Price)
	for _, p := range points {
		assert.NotEmpty(t, p.Date)
		assert.NotEmpty(t, p.Time)
	}
}

func TestPriceSeriesEmptyInput(t *testing.T) {
	points := PriceSeries(nil)
	require.NotNil(t, points)
	assert.Empty(t, points)
}

func TestFormattersAreIdempotent(t *testing.T) {
	v := ptr(1234.5)
	assert.Equal(t, Currency(v), Currency(v))
	assert.Equal(t, Percentage(v), Percentage(v))
	assert.Equal(t, Supply(v, "btc"), Supply(v, "btc"))

	pairs := [][2]float64{{1700000000000, 42000.5}}
	assert.Equal(t, PriceSeries(pairs), PriceSeries(pairs))
}
