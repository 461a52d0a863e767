package stoploss

import (
	"fmt"

	"forex-signal-engine/internal/indicators"
	"forex-signal-engine/internal/market"
)

// SupportResistanceSL places the stop behind the nearest structural level:
// below the closest support for a buy, above the closest resistance for a
// sell. Falls back to a fixed pip distance when no level exists.
type SupportResistanceSL struct {
	BufferPips    float64
	FallbackPips  float64
	PipSize       float64
	SwingStrength int
	Lookback      int
}

// NewSupportResistanceSL creates the strategy with a 10-pip buffer and
// 50-pip fallback.
func NewSupportResistanceSL(pipSize float64) *SupportResistanceSL {
	return &SupportResistanceSL{
		BufferPips:    10.0,
		FallbackPips:  50.0,
		PipSize:       pipSize,
		SwingStrength: 3,
		Lookback:      50,
	}
}

func (s *SupportResistanceSL) Name() string { return "Support/Resistance SL" }

func (s *SupportResistanceSL) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	buffer := s.BufferPips * s.PipSize

	if dir.IsBuy() {
		levels := indicators.SupportLevels(market.Lows(candles), s.SwingStrength, s.Lookback)
		if level, ok := nearestBelow(levels, currentPrice); ok {
			slPrice := level - buffer
			return &Result{
				Price:      slPrice,
				Method:     s.Name(),
				Reason:     fmt.Sprintf("below support %.5f", level),
				Confidence: 75,
			}
		}
	} else {
		levels := indicators.ResistanceLevels(market.Highs(candles), s.SwingStrength, s.Lookback)
		if level, ok := nearestAbove(levels, currentPrice); ok {
			slPrice := level + buffer
			return &Result{
				Price:      slPrice,
				Method:     s.Name(),
				Reason:     fmt.Sprintf("above resistance %.5f", level),
				Confidence: 75,
			}
		}
	}

	// No usable level: fixed-pip default.
	distance := s.FallbackPips * s.PipSize
	slPrice := currentPrice - distance
	if !dir.IsBuy() {
		slPrice = currentPrice + distance
	}
	return &Result{
		Price:        slPrice,
		Method:       s.Name(),
		Reason:       fmt.Sprintf("no level found, %.0f pip default", s.FallbackPips),
		Confidence:   60,
		FallbackUsed: true,
	}
}

func nearestBelow(levels []float64, price float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l < price && (!found || l > best) {
			best, found = l, true
		}
	}
	return best, found
}

func nearestAbove(levels []float64, price float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l > price && (!found || l < best) {
			best, found = l, true
		}
	}
	return best, found
}
