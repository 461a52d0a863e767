package stoploss

import (
	"forex-signal-engine/internal/market"
)

// defaultPips is the stop distance of the hard default used when every
// strategy, fallback included, fails to produce a valid result.
const defaultPips = 30.0

// Composite tries strategies in priority order and returns the first result
// that passes side validation. When all fail it runs the designated fallback,
// and as a last resort synthesizes a fixed default. Calculate never returns
// nil.
type Composite struct {
	Strategies []Strategy
	Fallback   Strategy
	PipSize    float64
}

// NewComposite creates the default priority chain: pin bar, then swing
// point, with ATR as the guaranteed fallback.
func NewComposite(pipSize float64) *Composite {
	return &Composite{
		Strategies: []Strategy{
			NewPinBarSL(pipSize),
			NewSwingPointSL(pipSize),
		},
		Fallback: NewATRSL(),
		PipSize:  pipSize,
	}
}

func (c *Composite) Name() string { return "Composite SL" }

// Calculate runs the priority chain. The result is always usable.
func (c *Composite) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	for _, s := range c.Strategies {
		if r := s.Calculate(candles, dir, currentPrice); r != nil && Validate(r.Price, dir, currentPrice) {
			return r
		}
	}

	if c.Fallback != nil {
		if r := c.Fallback.Calculate(candles, dir, currentPrice); r != nil && Validate(r.Price, dir, currentPrice) {
			r.FallbackUsed = true
			return r
		}
	}

	distance := defaultPips * c.PipSize
	slPrice := currentPrice - distance
	if !dir.IsBuy() {
		slPrice = currentPrice + distance
	}
	return &Result{
		Price:        slPrice,
		Method:       "Fixed Default",
		Reason:       "all strategies failed, 30 pip default",
		Confidence:   50,
		FallbackUsed: true,
	}
}

// CalculateAll runs every strategy plus the fallback and collects the
// non-nil results, for comparison views.
func (c *Composite) CalculateAll(candles []market.Candle, dir market.Direction, currentPrice float64) []Result {
	var out []Result
	all := c.Strategies
	if c.Fallback != nil {
		all = append(append([]Strategy{}, c.Strategies...), c.Fallback)
	}
	for _, s := range all {
		if r := s.Calculate(candles, dir, currentPrice); r != nil {
			out = append(out, *r)
		}
	}
	return out
}
