package takeprofit

import (
	"forex-signal-engine/internal/market"
)

// defaultPips is the target distance of the hard default used when every
// strategy, fallback included, fails.
const defaultPips = 50.0

// Composite tries strategies in priority order and returns the first result
// that passes side validation, with a guaranteed fallback chain. Calculate
// never returns nil.
type Composite struct {
	Strategies []Strategy
	Fallback   Strategy
	PipSize    float64
}

// NewComposite creates the default chain: a single 1:2 risk-reward strategy
// with a fixed-pip fallback.
func NewComposite(pipSize float64) *Composite {
	return &Composite{
		Strategies: []Strategy{
			NewRiskRewardTP(RatioAggressive, pipSize),
		},
		Fallback: NewFixedPipsTP(defaultPips, pipSize),
		PipSize:  pipSize,
	}
}

func (c *Composite) Name() string { return "Composite TP" }

// Calculate runs the priority chain. The result is always usable.
func (c *Composite) Calculate(entry, sl float64, dir market.Direction, ctx Context) *Result {
	for _, s := range c.Strategies {
		if r := s.Calculate(entry, sl, dir, ctx); r != nil && Validate(r.Price, dir, entry) {
			return r
		}
	}

	if c.Fallback != nil {
		if r := c.Fallback.Calculate(entry, sl, dir, ctx); r != nil && Validate(r.Price, dir, entry) {
			return r
		}
	}

	distance := defaultPips * c.PipSize
	tp := entry + distance
	if !dir.IsBuy() {
		tp = entry - distance
	}
	return &Result{
		Price:      tp,
		Method:     "Fixed Default",
		Reason:     "all strategies failed, 50 pip default",
		RiskReward: RiskReward(entry, sl, tp),
		Pips:       defaultPips,
		Confidence: 50,
	}
}

// CalculateAll runs every strategy plus the fallback and collects the
// non-nil results, for comparison views.
func (c *Composite) CalculateAll(entry, sl float64, dir market.Direction, ctx Context) []Result {
	var out []Result
	all := c.Strategies
	if c.Fallback != nil {
		all = append(append([]Strategy{}, c.Strategies...), c.Fallback)
	}
	for _, s := range all {
		if r := s.Calculate(entry, sl, dir, ctx); r != nil {
			out = append(out, *r)
		}
	}
	return out
}
