package domain

import "fmt"

// CoinDetailError reports a failed coin detail fetch. It carries the coin id
// so consumers can render a meaningful error state instead of an empty page.
type CoinDetailError struct {
	CoinID string
	Err    error
}

func (e *CoinDetailError) Error() string {
	return fmt.Sprintf("fetch coin %s: %v", e.CoinID, e.Err)
}

func (e *CoinDetailError) Unwrap() error { return e.Err }

// PriceHistoryError reports a failed price history fetch for a coin and
// range. A silent empty series would look like a flat chart for a real coin,
// so this failure is always surfaced.
type PriceHistoryError struct {
	CoinID string
	Range  HistoryRange
	Err    error
}

func (e *PriceHistoryError) Error() string {
	return fmt.Sprintf("fetch price history for %s (%s): %v", e.CoinID, e.Range, e.Err)
}

func (e *PriceHistoryError) Unwrap() error { return e.Err }
