package stoploss

import (
	"fmt"

	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/patterns"
)

// PinBarSL places the stop behind the most recent pin bar in the trade's
// direction: below the low of a bullish pin for buys, above the high of a
// bearish pin for sells.
type PinBarSL struct {
	BufferPips float64
	PipSize    float64
	Lookback   int

	detector *patterns.Detector
}

// NewPinBarSL creates the strategy with a 5-pip buffer and 20-candle lookback.
func NewPinBarSL(pipSize float64) *PinBarSL {
	return &PinBarSL{
		BufferPips: 5.0,
		PipSize:    pipSize,
		Lookback:   20,
		detector:   patterns.NewDetector(),
	}
}

func (s *PinBarSL) Name() string { return "Pin Bar SL" }

func (s *PinBarSL) Calculate(candles []market.Candle, dir market.Direction, currentPrice float64) *Result {
	pin := s.detector.FindLastPinBar(candles, dir.IsBuy(), s.Lookback)
	if pin == nil {
		return nil
	}

	buffer := s.BufferPips * s.PipSize

	var slPrice float64
	var reason string
	if dir.IsBuy() {
		slPrice = pin.Low - buffer
		reason = fmt.Sprintf("below bullish pin bar low (candle %d)", pin.CandleIndex)
	} else {
		slPrice = pin.High + buffer
		reason = fmt.Sprintf("above bearish pin bar high (candle %d)", pin.CandleIndex)
	}

	if !Validate(slPrice, dir, currentPrice) {
		return nil
	}

	return &Result{
		Price:        slPrice,
		Method:       s.Name(),
		Reason:       reason,
		Confidence:   60 + pin.Strength*40,
		PatternIndex: pin.CandleIndex,
	}
}
