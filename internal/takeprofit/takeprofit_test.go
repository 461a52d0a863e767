package takeprofit

import (
	"testing"

	"forex-signal-engine/internal/market"
)

const pip = 0.0001

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

// TestRiskRewardTP covers the canonical example: entry 1.1000, SL 1.0950,
// ratio 2.0 gives TP 1.1100.
func TestRiskRewardTP(t *testing.T) {
	s := NewRiskRewardTP(2.0, pip)

	r := s.Calculate(1.1000, 1.0950, market.Buy, Context{})
	if r == nil {
		t.Fatal("risk-reward TP should not fail with nonzero risk")
	}
	if !approx(r.Price, 1.1100) {
		t.Errorf("tp = %.5f, want 1.1100", r.Price)
	}
	if r.RiskReward != 2.0 {
		t.Errorf("risk reward = %v, want 2.0", r.RiskReward)
	}
	if !approx(r.Pips, 100) {
		t.Errorf("pips = %v, want 100", r.Pips)
	}

	sell := s.Calculate(1.1000, 1.1050, market.Sell, Context{})
	if sell == nil || !approx(sell.Price, 1.0900) {
		t.Errorf("sell tp = %+v, want 1.0900", sell)
	}

	if r := s.Calculate(1.1000, 1.1000, market.Buy, Context{}); r != nil {
		t.Errorf("zero risk should return nil, got %+v", r)
	}
}

// TestMultiTargetLadder checks the default three-level ladder: ratios
// 1/2/3 with strictly increasing buy targets.
func TestMultiTargetLadder(t *testing.T) {
	s := NewMultiTargetTP(pip)

	entry := 1.1000
	sl := entry - 0.0030

	all := s.CalculateAll(entry, sl, market.Buy)
	if len(all) != 3 {
		t.Fatalf("got %d targets, want 3", len(all))
	}

	wantRatios := []float64{1.0, 2.0, 3.0}
	wantClose := []float64{50, 30, 20}
	for i, r := range all {
		if r.RiskReward != wantRatios[i] {
			t.Errorf("target %d ratio = %v, want %v", i, r.RiskReward, wantRatios[i])
		}
		if r.ClosePercent != wantClose[i] {
			t.Errorf("target %d close%% = %v, want %v", i, r.ClosePercent, wantClose[i])
		}
		if i > 0 && !(r.Price > all[i-1].Price) {
			t.Errorf("buy targets must be strictly increasing: %v then %v", all[i-1].Price, r.Price)
		}
		if !(r.Price > entry) {
			t.Errorf("target %d price %v not above entry", i, r.Price)
		}
	}

	// Sell ladder mirrors downward.
	down := s.CalculateAll(entry, entry+0.0030, market.Sell)
	for i := 1; i < len(down); i++ {
		if !(down[i].Price < down[i-1].Price) {
			t.Errorf("sell targets must be strictly decreasing")
		}
	}
}

func TestFixedPipsTP(t *testing.T) {
	s := NewFixedPipsTP(50, pip)
	r := s.Calculate(1.1000, 1.0970, market.Buy, Context{})
	if !approx(r.Price, 1.1050) {
		t.Errorf("tp = %.5f, want 1.1050", r.Price)
	}
	// 50 pips reward over 30 pips risk.
	if r.RiskReward < 1.66 || r.RiskReward > 1.67 {
		t.Errorf("risk reward = %v, want ~1.667", r.RiskReward)
	}
}

func TestPercentageTP(t *testing.T) {
	s := NewPercentageTP(2.0, pip)
	r := s.Calculate(1.1000, 1.0950, market.Sell, Context{})
	if !approx(r.Price, 1.1000*0.98) {
		t.Errorf("tp = %v, want %v", r.Price, 1.1000*0.98)
	}
}

func TestATRTP(t *testing.T) {
	candles := make([]market.Candle, 30)
	for i := range candles {
		candles[i] = market.Candle{Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1002}
	}

	s := NewATRTP(pip)
	r := s.Calculate(1.1000, 1.0970, market.Buy, Context{Candles: candles})
	if r == nil {
		t.Fatal("ATR TP should succeed with enough candles")
	}
	if !(r.Price > 1.1000) {
		t.Errorf("buy target %v not above entry", r.Price)
	}

	if r := s.Calculate(1.1000, 1.0970, market.Buy, Context{}); r != nil {
		t.Errorf("no candles should return nil, got %+v", r)
	}
}

func TestATRTPMultiplierWidensTarget(t *testing.T) {
	candles := make([]market.Candle, 30)
	for i := range candles {
		candles[i] = market.Candle{Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1002}
	}

	narrow := &ATRTP{Period: 14, Multiplier: 2.0, PipSize: pip}
	wide := &ATRTP{Period: 14, Multiplier: 3.0, PipSize: pip}

	rn := narrow.Calculate(1.1000, 1.0970, market.Buy, Context{Candles: candles})
	rw := wide.Calculate(1.1000, 1.0970, market.Buy, Context{Candles: candles})
	if rn == nil || rw == nil {
		t.Fatal("both calculations should succeed")
	}
	if !(rw.Price > rn.Price) {
		t.Errorf("larger multiplier should widen the target: %v vs %v", rw.Price, rn.Price)
	}
}

func TestSwingTPFallback(t *testing.T) {
	s := NewSwingTP(pip)

	// Too little history: 2x risk-reward fallback.
	r := s.Calculate(1.1000, 1.0950, market.Buy, Context{})
	if r == nil {
		t.Fatal("fallback should fire")
	}
	if !approx(r.Price, 1.1100) {
		t.Errorf("fallback tp = %.5f, want 1.1100", r.Price)
	}
	if r.RiskReward != 2.0 {
		t.Errorf("fallback ratio = %v, want 2.0", r.RiskReward)
	}
}

func TestSwingTPTarget(t *testing.T) {
	candles := make([]market.Candle, 60)
	for i := range candles {
		candles[i] = market.Candle{Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1002}
	}
	candles[40].High = 1.1080 // the swing extreme a buy should target

	s := NewSwingTP(pip)
	r := s.Calculate(1.1000, 1.0970, market.Buy, Context{Candles: candles})
	if r == nil {
		t.Fatal("swing TP should succeed")
	}
	if !approx(r.Price, 1.1080) {
		t.Errorf("tp = %.5f, want 1.1080", r.Price)
	}
}

func TestSupportResistanceTP(t *testing.T) {
	s := NewSupportResistanceTP(pip)

	ctx := Context{ResistanceLevels: []float64{1.1080, 1.1050, 1.1120}}
	r := s.Calculate(1.1000, 1.0970, market.Buy, ctx)
	if r == nil {
		t.Fatal("S/R TP should succeed with levels")
	}
	if !approx(r.Price, 1.1050) {
		t.Errorf("should target the nearest resistance, got %.5f", r.Price)
	}

	// No level in the profit direction: fallback.
	low := Context{ResistanceLevels: []float64{1.0950}}
	r = s.Calculate(1.1000, 1.0970, market.Buy, low)
	if r == nil || !approx(r.Price, 1.1060) {
		t.Errorf("fallback tp = %+v, want 1.1060", r)
	}
}

// TestCompositeSideInvariant checks the TP side invariant for both
// directions.
func TestCompositeSideInvariant(t *testing.T) {
	c := NewComposite(pip)

	buy := c.Calculate(1.1000, 1.0950, market.Buy, Context{})
	if buy == nil || !(buy.Price > 1.1000) {
		t.Errorf("buy target invariant violated: %+v", buy)
	}
	sell := c.Calculate(1.1000, 1.1050, market.Sell, Context{})
	if sell == nil || !(sell.Price < 1.1000) {
		t.Errorf("sell target invariant violated: %+v", sell)
	}
}

// TestCompositeTotality starves the chain with zero risk and checks the hard
// default.
func TestCompositeTotality(t *testing.T) {
	c := NewComposite(pip)

	// Zero risk kills the risk-reward strategy; the fixed-pip fallback
	// still works, so totality holds without the hard default.
	r := c.Calculate(1.1000, 1.1000, market.Buy, Context{})
	if r == nil {
		t.Fatal("composite must always return a result")
	}
	if !approx(r.Price, 1.1050) {
		t.Errorf("tp = %.5f, want 1.1050", r.Price)
	}

	// A chain with no fallback reaches the synthesized default.
	bare := &Composite{PipSize: pip}
	r = bare.Calculate(1.1000, 1.1000, market.Sell, Context{})
	if r == nil || r.Method != "Fixed Default" {
		t.Fatalf("hard default expected, got %+v", r)
	}
	if r.Confidence != 50 {
		t.Errorf("hard default confidence = %v, want 50", r.Confidence)
	}
	if !approx(r.Price, 1.0950) {
		t.Errorf("tp = %.5f, want 1.0950", r.Price)
	}
}
