package stoploss

import (
	"forex-signal-engine/internal/market"
)

// Result is the outcome of a stop-loss calculation.
type Result struct {
	Price        float64 `json:"sl_price"`
	Method       string  `json:"method"`
	Reason       string  `json:"reason"`
	Confidence   float64 `json:"confidence"` // 0-100
	PatternIndex int     `json:"pattern_index,omitempty"`
	FallbackUsed bool    `json:"fallback_used"`
}

// Strategy computes a stop price from entry context. A nil result means the
// strategy could not produce a usable stop; callers fall through to the next
// candidate.
type Strategy interface {
	Name() string
	Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result
}

// Validate checks that a stop sits on the protective side of the current
// price: below for a buy, above for a sell.
func Validate(slPrice float64, dir market.Direction, currentPrice float64) bool {
	if dir.IsBuy() {
		return slPrice < currentPrice
	}
	return slPrice > currentPrice
}
