package formulas

import (
	"github.com/markcheno/go-talib"
)

// Trading-day windows for momentum lookbacks
const (
	MomentumPeriod1M = 21
	MomentumPeriod3M = 63
)

// Momentum calculates the percentage rate of change of the last close
// over the close `period` trading days earlier.
//
// Args:
//   closes: Array of closing prices, oldest first
//   period: Lookback in trading days (21 ~ 1 month, 63 ~ 3 months)
//
// Returns:
//   Momentum percentage or nil if insufficient data
func Momentum(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	roc := talib.Roc(closes, period)

	if len(roc) > 0 && !isNaN(roc[len(roc)-1]) {
		result := roc[len(roc)-1]
		return &result
	}

	return nil
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
