package takeprofit

import (
	"fmt"

	"forex-signal-engine/internal/indicators"
	"forex-signal-engine/internal/market"
)

// SupportResistanceTP targets the nearest structural level in the profit
// direction: resistance above the entry for a buy, support below for a sell.
// Falls back to 2x risk-reward when no level exists.
type SupportResistanceTP struct {
	SwingStrength int
	Lookback      int
	PipSize       float64
}

// NewSupportResistanceTP creates the strategy with strength 3 and a
// 50-candle lookback.
func NewSupportResistanceTP(pipSize float64) *SupportResistanceTP {
	return &SupportResistanceTP{SwingStrength: 3, Lookback: 50, PipSize: pipSize}
}

func (s *SupportResistanceTP) Name() string { return "Support/Resistance TP" }

func (s *SupportResistanceTP) Calculate(entry, sl float64, dir market.Direction, ctx Context) *Result {
	levels := s.levels(dir, ctx)

	var target float64
	found := false
	if dir.IsBuy() {
		for _, l := range levels {
			if l > entry && (!found || l < target) {
				target, found = l, true
			}
		}
	} else {
		for _, l := range levels {
			if l < entry && (!found || l > target) {
				target, found = l, true
			}
		}
	}

	if !found {
		return rrFallback(entry, sl, dir, s.PipSize, "no level in profit direction")
	}

	distance := target - entry
	if distance < 0 {
		distance = -distance
	}

	side := "resistance"
	if !dir.IsBuy() {
		side = "support"
	}
	return &Result{
		Price:      target,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("nearest %s %.5f", side, target),
		RiskReward: RiskReward(entry, sl, target),
		Pips:       distance / s.PipSize,
		Confidence: 75,
	}
}

// levels prefers explicitly supplied levels and derives them from candles
// otherwise.
func (s *SupportResistanceTP) levels(dir market.Direction, ctx Context) []float64 {
	if dir.IsBuy() {
		if len(ctx.ResistanceLevels) > 0 {
			return ctx.ResistanceLevels
		}
		return indicators.ResistanceLevels(market.Highs(ctx.Candles), s.SwingStrength, s.Lookback)
	}
	if len(ctx.SupportLevels) > 0 {
		return ctx.SupportLevels
	}
	return indicators.SupportLevels(market.Lows(ctx.Candles), s.SwingStrength, s.Lookback)
}
