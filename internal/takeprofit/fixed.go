package takeprofit

import (
	"fmt"

	"forex-signal-engine/internal/market"
)

// FixedPipsTP places the target a fixed pip distance from the entry. It is
// deterministic and never fails.
type FixedPipsTP struct {
	Pips    float64
	PipSize float64
}

// NewFixedPipsTP creates the strategy with the given pip distance.
func NewFixedPipsTP(pips, pipSize float64) *FixedPipsTP {
	return &FixedPipsTP{Pips: pips, PipSize: pipSize}
}

func (s *FixedPipsTP) Name() string { return fmt.Sprintf("Fixed %.0f pips TP", s.Pips) }

func (s *FixedPipsTP) Calculate(entry, sl float64, dir market.Direction, _ Context) *Result {
	distance := s.Pips * s.PipSize
	tp := entry + distance
	if !dir.IsBuy() {
		tp = entry - distance
	}

	return &Result{
		Price:      tp,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("%.0f pips from entry", s.Pips),
		RiskReward: RiskReward(entry, sl, tp),
		Pips:       s.Pips,
		Confidence: 70,
	}
}

// PercentageTP places the target a fixed percentage above or below the entry.
type PercentageTP struct {
	Percent float64
	PipSize float64
}

// NewPercentageTP creates the strategy; percent is expressed as 2.0 = 2%.
func NewPercentageTP(percent, pipSize float64) *PercentageTP {
	return &PercentageTP{Percent: percent, PipSize: pipSize}
}

func (s *PercentageTP) Name() string { return fmt.Sprintf("%.1f%% TP", s.Percent) }

func (s *PercentageTP) Calculate(entry, sl float64, dir market.Direction, _ Context) *Result {
	distance := entry * s.Percent / 100
	tp := entry + distance
	if !dir.IsBuy() {
		tp = entry - distance
	}

	return &Result{
		Price:      tp,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("%.1f%% of entry price", s.Percent),
		RiskReward: RiskReward(entry, sl, tp),
		Pips:       distance / s.PipSize,
		Confidence: 70,
	}
}
