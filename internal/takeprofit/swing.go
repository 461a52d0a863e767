package takeprofit

import (
	"fmt"

	"forex-signal-engine/internal/market"
)

// fallbackRatio is the risk-reward multiple used when a structural target
// cannot be derived from the candle history.
const fallbackRatio = 2.0

// SwingTP targets the most recent opposite extreme: the rolling high for a
// buy, the rolling low for a sell. Falls back to 2x risk-reward when the
// history is too short.
type SwingTP struct {
	Lookback int
	PipSize  float64
}

// NewSwingTP creates the strategy with a 50-candle lookback.
func NewSwingTP(pipSize float64) *SwingTP {
	return &SwingTP{Lookback: 50, PipSize: pipSize}
}

func (s *SwingTP) Name() string { return "Swing TP" }

func (s *SwingTP) Calculate(entry, sl float64, dir market.Direction, ctx Context) *Result {
	candles := ctx.Candles
	if len(candles) < s.Lookback {
		return rrFallback(entry, sl, dir, s.PipSize, "swing history too short")
	}

	window := market.Tail(candles, s.Lookback)
	var tp float64
	var reason string
	if dir.IsBuy() {
		tp = window[0].High
		for _, c := range window {
			if c.High > tp {
				tp = c.High
			}
		}
		reason = fmt.Sprintf("recent swing high over %d candles", s.Lookback)
	} else {
		tp = window[0].Low
		for _, c := range window {
			if c.Low < tp {
				tp = c.Low
			}
		}
		reason = fmt.Sprintf("recent swing low over %d candles", s.Lookback)
	}

	if !Validate(tp, dir, entry) {
		return rrFallback(entry, sl, dir, s.PipSize, "swing target on wrong side")
	}

	distance := tp - entry
	if distance < 0 {
		distance = -distance
	}

	return &Result{
		Price:      tp,
		Method:     s.Name(),
		Reason:     reason,
		RiskReward: RiskReward(entry, sl, tp),
		Pips:       distance / s.PipSize,
		Confidence: 75,
	}
}

// rrFallback synthesizes a 2x risk-reward target.
func rrFallback(entry, sl float64, dir market.Direction, pipSize float64, why string) *Result {
	risk := entry - sl
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return nil
	}
	reward := risk * fallbackRatio
	tp := entry + reward
	if !dir.IsBuy() {
		tp = entry - reward
	}
	return &Result{
		Price:      tp,
		Method:     fmt.Sprintf("R:R %.1f fallback", fallbackRatio),
		Reason:     why,
		RiskReward: fallbackRatio,
		Pips:       reward / pipSize,
		Confidence: 65,
	}
}
