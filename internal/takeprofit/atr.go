package takeprofit

import (
	"fmt"

	"forex-signal-engine/internal/indicators"
	"forex-signal-engine/internal/market"
)

// ATRTP places the target a volatility-scaled distance from the entry.
type ATRTP struct {
	Period     int
	Multiplier float64
	PipSize    float64
}

// NewATRTP creates the strategy with period 14 and multiplier 2.0.
func NewATRTP(pipSize float64) *ATRTP {
	return &ATRTP{Period: 14, Multiplier: 2.0, PipSize: pipSize}
}

func (s *ATRTP) Name() string { return fmt.Sprintf("ATR TP (x%.1f)", s.Multiplier) }

func (s *ATRTP) Calculate(entry, sl float64, dir market.Direction, ctx Context) *Result {
	if len(ctx.Candles) == 0 {
		return nil
	}
	atr := indicators.ATR(
		market.Highs(ctx.Candles), market.Lows(ctx.Candles), market.Closes(ctx.Candles), s.Period)
	if atr == 0 {
		return nil
	}

	distance := atr * s.Multiplier
	tp := entry + distance
	if !dir.IsBuy() {
		tp = entry - distance
	}

	return &Result{
		Price:      tp,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("ATR(%d) = %.5f x %.1f = %.5f", s.Period, atr, s.Multiplier, distance),
		RiskReward: RiskReward(entry, sl, tp),
		Pips:       distance / s.PipSize,
		Confidence: 75,
	}
}
