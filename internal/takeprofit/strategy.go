package takeprofit

import (
	"forex-signal-engine/internal/market"
)

// Result is the outcome of a take-profit calculation.
type Result struct {
	Price        float64 `json:"tp_price"`
	Method       string  `json:"method"`
	Reason       string  `json:"reason"`
	RiskReward   float64 `json:"risk_reward_ratio,omitempty"`
	Pips         float64 `json:"pips,omitempty"`
	Confidence   float64 `json:"confidence"` // 0-100
	ClosePercent float64 `json:"close_percent,omitempty"`
}

// Context carries the optional market data some strategies need.
type Context struct {
	Candles          []market.Candle
	SupportLevels    []float64
	ResistanceLevels []float64
}

// Strategy computes a target price from entry context. A nil result means
// the strategy could not produce a usable target.
type Strategy interface {
	Name() string
	Calculate(entry, sl float64, dir market.Direction, ctx Context) *Result
}

// Validate checks that a target sits on the profit side of the entry: above
// for a buy, below for a sell.
func Validate(tpPrice float64, dir market.Direction, entry float64) bool {
	if dir.IsBuy() {
		return tpPrice > entry
	}
	return tpPrice < entry
}

// RiskReward returns reward distance over risk distance, or 0 when the risk
// is zero.
func RiskReward(entry, sl, tp float64) float64 {
	risk := entry - sl
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return 0
	}
	reward := tp - entry
	if reward < 0 {
		reward = -reward
	}
	return reward / risk
}
