package stoploss

import (
	"fmt"

	"forex-signal-engine/internal/market"
)

// FixedPipsSL places the stop a fixed pip distance from the entry. It is
// deterministic and never fails.
type FixedPipsSL struct {
	Pips    float64
	PipSize float64
}

// NewFixedPipsSL creates the strategy with the given pip distance.
func NewFixedPipsSL(pips, pipSize float64) *FixedPipsSL {
	return &FixedPipsSL{Pips: pips, PipSize: pipSize}
}

func (s *FixedPipsSL) Name() string { return fmt.Sprintf("Fixed %.0f pips SL", s.Pips) }

func (s *FixedPipsSL) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	distance := s.Pips * s.PipSize
	slPrice := currentPrice - distance
	if !dir.IsBuy() {
		slPrice = currentPrice + distance
	}

	return &Result{
		Price:      slPrice,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("%.0f pips from entry", s.Pips),
		Confidence: 70,
	}
}

// PercentageSL places the stop a fixed percentage away from the entry.
type PercentageSL struct {
	Percent float64
}

// NewPercentageSL creates the strategy; percent is expressed as 1.0 = 1%.
func NewPercentageSL(percent float64) *PercentageSL {
	return &PercentageSL{Percent: percent}
}

func (s *PercentageSL) Name() string { return fmt.Sprintf("%.1f%% SL", s.Percent) }

func (s *PercentageSL) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	distance := currentPrice * s.Percent / 100
	slPrice := currentPrice - distance
	if !dir.IsBuy() {
		slPrice = currentPrice + distance
	}

	return &Result{
		Price:      slPrice,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("%.1f%% of entry price", s.Percent),
		Confidence: 70,
	}
}
