package patterns

import (
	"forex-signal-engine/internal/market"
)

// PatternType represents candlestick formations the detector recognizes.
type PatternType string

const (
	BullishPinBar    PatternType = "bullish_pin_bar"
	BearishPinBar    PatternType = "bearish_pin_bar"
	BullishEngulfing PatternType = "bullish_engulfing"
	BearishEngulfing PatternType = "bearish_engulfing"
)

// Match represents a detected candlestick formation.
type Match struct {
	Type        PatternType
	CandleIndex int
	High        float64
	Low         float64
	Open        float64
	Close       float64
	Strength    float64 // 0.0 to 1.0
	IsBullish   bool
}

// Detector detects candlestick formations in OHLC data.
type Detector struct {
	// Pin bar thresholds.
	MinShadowRatio float64 // main shadow vs body, default 2.0
	MaxBodyRatio   float64 // body vs total range, default 0.35

	// Engulfing threshold.
	EngulfingMinRatio float64 // current body vs previous body, default 1.2
}

// NewDetector creates a detector with the default thresholds.
func NewDetector() *Detector {
	return &Detector{
		MinShadowRatio:    2.0,
		MaxBodyRatio:      0.35,
		EngulfingMinRatio: 1.2,
	}
}

// DetectPinBar checks a single candle for a pin bar formation.
// Returns nil when the candle does not qualify.
func (d *Detector) DetectPinBar(c market.Candle, index int) *Match {
	totalRange := c.Range()
	if totalRange == 0 {
		return nil
	}

	body := c.Body()
	upper := c.UpperShadow()
	lower := c.LowerShadow()

	if body/totalRange > d.MaxBodyRatio {
		return nil
	}

	// Near-zero bodies would blow up the shadow ratio; scale against a
	// fraction of the range instead.
	denom := body
	if denom == 0 {
		denom = totalRange * 0.1
	}

	bullish := lower >= body*d.MinShadowRatio && upper < lower*0.3
	bearish := upper >= body*d.MinShadowRatio && lower < upper*0.3

	switch {
	case bullish:
		ratio := lower / denom
		return &Match{
			Type:        BullishPinBar,
			CandleIndex: index,
			High:        c.High,
			Low:         c.Low,
			Open:        c.Open,
			Close:       c.Close,
			Strength:    clamp01(ratio / 5),
			IsBullish:   true,
		}
	case bearish:
		ratio := upper / denom
		return &Match{
			Type:        BearishPinBar,
			CandleIndex: index,
			High:        c.High,
			Low:         c.Low,
			Open:        c.Open,
			Close:       c.Close,
			Strength:    clamp01(ratio / 5),
			IsBullish:   false,
		}
	}
	return nil
}

// DetectEngulfing checks a consecutive candle pair for an engulfing
// formation. index refers to the current (engulfing) candle.
func (d *Detector) DetectEngulfing(prev, curr market.Candle, index int) *Match {
	prevBody := prev.Body()
	currBody := curr.Body()
	if currBody < prevBody*d.EngulfingMinRatio {
		return nil
	}

	if prev.IsBearish() && curr.IsBullish() &&
		curr.Open <= prev.Close && curr.Close >= prev.Open {
		return &Match{
			Type:        BullishEngulfing,
			CandleIndex: index,
			High:        curr.High,
			Low:         curr.Low,
			Open:        curr.Open,
			Close:       curr.Close,
			Strength:    engulfStrength(currBody, prevBody),
			IsBullish:   true,
		}
	}

	if prev.IsBullish() && curr.IsBearish() &&
		curr.Open >= prev.Close && curr.Close <= prev.Open {
		return &Match{
			Type:        BearishEngulfing,
			CandleIndex: index,
			High:        curr.High,
			Low:         curr.Low,
			Open:        curr.Open,
			Close:       curr.Close,
			Strength:    engulfStrength(currBody, prevBody),
			IsBullish:   false,
		}
	}

	return nil
}

// FindLastPinBar scans backward through the lookback window for the most
// recent pin bar matching the wanted direction.
func (d *Detector) FindLastPinBar(candles []market.Candle, bullish bool, lookback int) *Match {
	if len(candles) == 0 {
		return nil
	}
	start := len(candles) - lookback
	if lookback <= 0 || start < 0 {
		start = 0
	}
	for i := len(candles) - 1; i >= start; i-- {
		if m := d.DetectPinBar(candles[i], i); m != nil && m.IsBullish == bullish {
			return m
		}
	}
	return nil
}

// FindEngulfings returns every engulfing formation in the lookback window,
// oldest first.
func (d *Detector) FindEngulfings(candles []market.Candle, lookback int) []Match {
	if len(candles) < 2 {
		return nil
	}
	start := len(candles) - lookback
	if lookback <= 0 || start < 1 {
		start = 1
	}
	var out []Match
	for i := start; i < len(candles); i++ {
		if m := d.DetectEngulfing(candles[i-1], candles[i], i); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func engulfStrength(currBody, prevBody float64) float64 {
	if prevBody == 0 {
		return 1
	}
	// A body twice the engulfed one is treated as full strength.
	return clamp01(currBody / prevBody / 2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
