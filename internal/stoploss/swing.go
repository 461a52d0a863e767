package stoploss

import (
	"fmt"

	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/patterns"
)

// SwingPointSL places the stop behind the most recent swing low (buy) or
// swing high (sell).
type SwingPointSL struct {
	BufferPips    float64
	PipSize       float64
	SwingStrength int
	Lookback      int
}

// NewSwingPointSL creates the strategy with a 5-pip buffer, strength 3 and a
// 50-candle lookback.
func NewSwingPointSL(pipSize float64) *SwingPointSL {
	return &SwingPointSL{
		BufferPips:    5.0,
		PipSize:       pipSize,
		SwingStrength: 3,
		Lookback:      50,
	}
}

func (s *SwingPointSL) Name() string { return "Swing Point SL" }

func (s *SwingPointSL) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	buffer := s.BufferPips * s.PipSize

	var swing *patterns.SwingPoint
	var slPrice float64
	var reason string

	if dir.IsBuy() {
		swing = patterns.FindSwingLow(candles, s.SwingStrength, s.Lookback)
		if swing == nil {
			return nil
		}
		slPrice = swing.Price - buffer
		reason = fmt.Sprintf("below swing low (candle %d)", swing.CandleIndex)
	} else {
		swing = patterns.FindSwingHigh(candles, s.SwingStrength, s.Lookback)
		if swing == nil {
			return nil
		}
		slPrice = swing.Price + buffer
		reason = fmt.Sprintf("above swing high (candle %d)", swing.CandleIndex)
	}

	if !Validate(slPrice, dir, currentPrice) {
		return nil
	}

	return &Result{
		Price:        slPrice,
		Method:       s.Name(),
		Reason:       reason,
		Confidence:   70,
		PatternIndex: swing.CandleIndex,
	}
}
