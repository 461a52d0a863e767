package stoploss

import (
	"testing"

	"forex-signal-engine/internal/market"
)

const pip = 0.0001

// flatCandles builds a quiet series around a base price with a fixed range.
func flatCandles(n int, base float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{
			Open:  base,
			High:  base + 10*pip,
			Low:   base - 10*pip,
			Close: base + 2*pip,
		}
	}
	return out
}

func TestATRSL(t *testing.T) {
	candles := flatCandles(30, 1.1000)
	s := NewATRSL()

	buy := s.Calculate(candles, market.Buy, 1.1000)
	if buy == nil {
		t.Fatal("ATR SL should not fail with enough candles")
	}
	if !(buy.Price < 1.1000) {
		t.Errorf("buy stop %v not below entry", buy.Price)
	}

	sell := s.Calculate(candles, market.Sell, 1.1000)
	if sell == nil || !(sell.Price > 1.1000) {
		t.Errorf("sell stop %v not above entry", sell.Price)
	}

	if r := s.Calculate(candles[:5], market.Buy, 1.1000); r != nil {
		t.Errorf("ATR SL with short history should return nil, got %+v", r)
	}
}

func TestATRSLMultiplierWidensStop(t *testing.T) {
	candles := flatCandles(30, 1.1000)

	narrow := &ATRSL{Period: 14, Multiplier: 1.0}
	wide := &ATRSL{Period: 14, Multiplier: 2.5}

	rn := narrow.Calculate(candles, market.Buy, 1.1000)
	rw := wide.Calculate(candles, market.Buy, 1.1000)
	if rn == nil || rw == nil {
		t.Fatal("both calculations should succeed")
	}
	if !(rw.Price < rn.Price) {
		t.Errorf("larger multiplier should widen the stop: %.5f vs %.5f", rw.Price, rn.Price)
	}
}

func TestFixedPipsSL(t *testing.T) {
	s := NewFixedPipsSL(30, pip)

	buy := s.Calculate(nil, market.Buy, 1.1000)
	if buy == nil {
		t.Fatal("fixed pips SL never fails")
	}
	want := 1.1000 - 30*pip
	if diff := buy.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("buy stop = %.5f, want %.5f", buy.Price, want)
	}

	sell := s.Calculate(nil, market.Sell, 1.1000)
	want = 1.1000 + 30*pip
	if diff := sell.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("sell stop = %.5f, want %.5f", sell.Price, want)
	}
}

func TestPercentageSL(t *testing.T) {
	s := NewPercentageSL(1.0)

	buy := s.Calculate(nil, market.Buy, 1.1000)
	want := 1.1000 * 0.99
	if diff := buy.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("buy stop = %v, want %v", buy.Price, want)
	}
}

func TestPinBarSL(t *testing.T) {
	candles := flatCandles(25, 1.1000)
	// Plant a bullish pin bar near the end: long lower shadow.
	candles[22] = market.Candle{Open: 1.1000, High: 1.1005, Low: 1.0940, Close: 1.1001}

	s := NewPinBarSL(pip)
	r := s.Calculate(candles, market.Buy, 1.1002)
	if r == nil {
		t.Fatal("should find the planted pin bar")
	}
	want := 1.0940 - 5*pip
	if diff := r.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stop = %.5f, want %.5f", r.Price, want)
	}
	if r.PatternIndex != 22 {
		t.Errorf("PatternIndex = %d, want 22", r.PatternIndex)
	}
	if r.Confidence < 60 || r.Confidence > 100 {
		t.Errorf("confidence %v out of [60,100]", r.Confidence)
	}

	// No bearish pin bar for a sell.
	if r := s.Calculate(candles, market.Sell, 1.1002); r != nil {
		t.Errorf("no bearish pin bar expected, got %+v", r)
	}
}

func TestPinBarSLRejectsWrongSide(t *testing.T) {
	candles := flatCandles(25, 1.1000)
	candles[22] = market.Candle{Open: 1.1000, High: 1.1005, Low: 1.0940, Close: 1.1001}

	s := NewPinBarSL(pip)
	// Current price below the pin bar low: the computed stop would sit above
	// the price for a buy, which must be rejected.
	if r := s.Calculate(candles, market.Buy, 1.0900); r != nil {
		t.Errorf("invalid-side result should be rejected, got %+v", r)
	}
}

func TestSwingPointSL(t *testing.T) {
	candles := flatCandles(30, 1.1000)
	// Carve a swing low at index 20.
	candles[20] = market.Candle{Open: 1.0990, High: 1.1000, Low: 1.0950, Close: 1.0995}

	s := NewSwingPointSL(pip)
	r := s.Calculate(candles, market.Buy, 1.1002)
	if r == nil {
		t.Fatal("should find the swing low")
	}
	want := 1.0950 - 5*pip
	if diff := r.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stop = %.5f, want %.5f", r.Price, want)
	}
}

func TestSupportResistanceSLFallback(t *testing.T) {
	// Flat series has no swing lows, so the fixed-pip default fires.
	candles := flatCandles(30, 1.1000)
	s := NewSupportResistanceSL(pip)

	r := s.Calculate(candles, market.Buy, 1.1000)
	if r == nil {
		t.Fatal("S/R SL is total")
	}
	if !r.FallbackUsed {
		t.Error("flat series should use the fixed-pip fallback")
	}
	want := 1.1000 - 50*pip
	if diff := r.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stop = %.5f, want %.5f", r.Price, want)
	}
}

// TestCompositeSideInvariant checks the SL side invariant across the whole
// default chain for both directions.
func TestCompositeSideInvariant(t *testing.T) {
	candles := flatCandles(40, 1.1000)
	candles[35] = market.Candle{Open: 1.1000, High: 1.1005, Low: 1.0940, Close: 1.1001}

	c := NewComposite(pip)
	price := 1.1002

	buy := c.Calculate(candles, market.Buy, price)
	if buy == nil || !(buy.Price < price) {
		t.Errorf("buy stop invariant violated: %+v", buy)
	}
	sell := c.Calculate(candles, market.Sell, price)
	if sell == nil || !(sell.Price > price) {
		t.Errorf("sell stop invariant violated: %+v", sell)
	}
}

// TestCompositeTotality starves every strategy and checks the hard default.
func TestCompositeTotality(t *testing.T) {
	// Two candles: too short for pin bar confidence scan to matter, swing,
	// or ATR(14).
	candles := flatCandles(2, 1.1000)

	c := NewComposite(pip)
	r := c.Calculate(candles, market.Buy, 1.1000)
	if r == nil {
		t.Fatal("composite must always return a result")
	}
	if !r.FallbackUsed {
		t.Error("hard default should be flagged as fallback")
	}
	if r.Confidence != 50 {
		t.Errorf("hard default confidence = %v, want 50", r.Confidence)
	}
	want := 1.1000 - 30*pip
	if diff := r.Price - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("stop = %.5f, want %.5f", r.Price, want)
	}
}

func TestCompositePrefersPattern(t *testing.T) {
	candles := flatCandles(40, 1.1000)
	candles[35] = market.Candle{Open: 1.1000, High: 1.1005, Low: 1.0940, Close: 1.1001}

	c := NewComposite(pip)
	r := c.Calculate(candles, market.Buy, 1.1002)
	if r.Method != "Pin Bar SL" {
		t.Errorf("pattern strategy should win the priority order, got %q", r.Method)
	}
	if r.FallbackUsed {
		t.Error("primary strategy result must not be flagged as fallback")
	}
}
