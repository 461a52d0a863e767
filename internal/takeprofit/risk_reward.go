package takeprofit

import (
	"fmt"

	"forex-signal-engine/internal/market"
)

// RiskRewardTP places the target so that the reward is a fixed multiple of
// the stop distance.
type RiskRewardTP struct {
	Ratio   float64
	PipSize float64
}

// Common ratio presets.
const (
	RatioConservative   = 1.0
	RatioStandard       = 1.5
	RatioAggressive     = 2.0
	RatioVeryAggressive = 3.0
)

// NewRiskRewardTP creates the strategy; ratio 2.0 means a 1:2 trade.
func NewRiskRewardTP(ratio, pipSize float64) *RiskRewardTP {
	return &RiskRewardTP{Ratio: ratio, PipSize: pipSize}
}

func (s *RiskRewardTP) Name() string { return fmt.Sprintf("R:R %.1f", s.Ratio) }

func (s *RiskRewardTP) Calculate(entry, sl float64, dir market.Direction, _ Context) *Result {
	risk := entry - sl
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return nil
	}

	reward := risk * s.Ratio
	tp := entry + reward
	if !dir.IsBuy() {
		tp = entry - reward
	}

	riskPips := risk / s.PipSize
	rewardPips := reward / s.PipSize

	return &Result{
		Price:      tp,
		Method:     s.Name(),
		Reason:     fmt.Sprintf("risk %.1f pips x %.1f = %.1f pips reward", riskPips, s.Ratio, rewardPips),
		RiskReward: s.Ratio,
		Pips:       rewardPips,
		Confidence: 85,
	}
}

// MultiTargetTP computes a ladder of risk-reward targets, each tagged with
// the share of the position to close at that level. Percentages are not
// normalized; the defaults sum to 100 by convention.
type MultiTargetTP struct {
	Targets []Target
	PipSize float64
}

// Target pairs a risk-reward ratio with a partial-close percentage.
type Target struct {
	Ratio        float64
	ClosePercent float64
}

// NewMultiTargetTP creates the default 1:1/1:2/1:3 ladder closing
// 50/30/20 percent.
func NewMultiTargetTP(pipSize float64) *MultiTargetTP {
	return &MultiTargetTP{
		Targets: []Target{
			{Ratio: 1.0, ClosePercent: 50},
			{Ratio: 2.0, ClosePercent: 30},
			{Ratio: 3.0, ClosePercent: 20},
		},
		PipSize: pipSize,
	}
}

func (s *MultiTargetTP) Name() string { return "Multi-Target TP" }

// Calculate returns the first ladder level, satisfying the Strategy
// interface. Use CalculateAll for the full ladder.
func (s *MultiTargetTP) Calculate(entry, sl float64, dir market.Direction, ctx Context) *Result {
	all := s.CalculateAll(entry, sl, dir)
	if len(all) == 0 {
		return nil
	}
	first := all[0]
	return &first
}

// CalculateAll computes every ladder level in order.
func (s *MultiTargetTP) CalculateAll(entry, sl float64, dir market.Direction) []Result {
	risk := entry - sl
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return nil
	}

	out := make([]Result, 0, len(s.Targets))
	for i, t := range s.Targets {
		reward := risk * t.Ratio
		tp := entry + reward
		if !dir.IsBuy() {
			tp = entry - reward
		}
		out = append(out, Result{
			Price:        tp,
			Method:       fmt.Sprintf("TP%d (R:R %.1f)", i+1, t.Ratio),
			Reason:       fmt.Sprintf("level %d: close %.0f%% at R:R %.1f", i+1, t.ClosePercent, t.Ratio),
			RiskReward:   t.Ratio,
			Pips:         reward / s.PipSize,
			Confidence:   80,
			ClosePercent: t.ClosePercent,
		})
	}
	return out
}
