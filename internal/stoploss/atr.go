package stoploss

import (
	"fmt"

	"forex-signal-engine/internal/indicators"
	"forex-signal-engine/internal/market"
)

// ATRSL places the stop a volatility-scaled distance from the current price.
// It works on any series with at least period+1 candles, which makes it the
// natural fallback.
type ATRSL struct {
	Period     int
	Multiplier float64
}

// NewATRSL creates the strategy with period 14 and multiplier 1.5.
func NewATRSL() *ATRSL {
	return &ATRSL{Period: 14, Multiplier: 1.5}
}

func (s *ATRSL) Name() string { return "ATR SL" }

func (s *ATRSL) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	atr := indicators.ATR(market.Highs(candles), market.Lows(candles), market.Closes(candles), s.Period)
	if atr == 0 {
		return nil
	}

	distance := atr * s.Multiplier
	slPrice := currentPrice - distance
	if !dir.IsBuy() {
		slPrice = currentPrice + distance
	}

	return &Result{
		Price:      slPrice,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("ATR(%d) x %.1f = %.5f", s.Period, s.Multiplier, distance),
		Confidence: 75,
	}
}
