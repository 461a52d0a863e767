package sltp

import (
	"testing"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
)

func testCandles(n int) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1002}
	}
	return out
}

func TestFactoryRejectsUnknownKind(t *testing.T) {
	if _, err := NewSLStrategy("martingale", Params{}, 0.0001); err == nil {
		t.Error("unknown sl kind should fail at construction")
	}
	if _, err := NewTPStrategy("martingale", Params{}, 0.0001); err == nil {
		t.Error("unknown tp kind should fail at construction")
	}
}

func TestFactoryRejectsBadParams(t *testing.T) {
	cases := []Params{
		{Pips: -10},
		{Percent: -1},
		{Percent: 150},
		{Ratio: -2},
		{ATRMultiplier: -1.5},
	}
	for _, p := range cases {
		if _, err := NewSLStrategy(SLFixedPips, p, 0.0001); err == nil {
			t.Errorf("params %+v should fail sl construction", p)
		}
		if _, err := NewTPStrategy(TPFixedPips, p, 0.0001); err == nil {
			t.Errorf("params %+v should fail tp construction", p)
		}
	}
}

func TestFactoryBuildsEveryCatalogKind(t *testing.T) {
	for _, e := range SLCatalog() {
		if _, err := NewSLStrategy(SLKind(e.Kind), Params{}, 0.0001); err != nil {
			t.Errorf("sl kind %q: %v", e.Kind, err)
		}
	}
	for _, e := range TPCatalog() {
		if _, err := NewTPStrategy(TPKind(e.Kind), Params{}, 0.0001); err != nil {
			t.Errorf("tp kind %q: %v", e.Kind, err)
		}
	}
}

func TestPremiumFlags(t *testing.T) {
	free := map[string]bool{
		"sl:atr": true, "sl:fixed_pips": true, "sl:pin_bar": true,
		"tp:risk_reward": true, "tp:fixed_pips": true,
	}
	for _, e := range SLCatalog() {
		if want := !free["sl:"+e.Kind]; e.Premium != want {
			t.Errorf("sl %q premium = %v, want %v", e.Kind, e.Premium, want)
		}
	}
	for _, e := range TPCatalog() {
		if want := !free["tp:"+e.Kind]; e.Premium != want {
			t.Errorf("tp %q premium = %v, want %v", e.Kind, e.Premium, want)
		}
	}
}

// TestPremiumDowngrade checks that a free account asking for a premium kind
// gets the default with downgraded=true, and that the choice still works.
func TestPremiumDowngrade(t *testing.T) {
	m := NewManager("EURUSD", false, zerolog.Nop())

	downgraded, err := m.SetSLStrategy(SLSwing, Params{})
	if err != nil {
		t.Fatalf("downgrade must not be an error: %v", err)
	}
	if !downgraded {
		t.Error("premium sl kind on free account should report downgraded")
	}
	if m.SLKind() != DefaultSLKind {
		t.Errorf("sl kind = %q, want default %q", m.SLKind(), DefaultSLKind)
	}

	downgraded, err = m.SetTPStrategy(TPMultiTarget, Params{})
	if err != nil {
		t.Fatalf("downgrade must not be an error: %v", err)
	}
	if !downgraded || m.TPKind() != DefaultTPKind {
		t.Errorf("tp downgrade: downgraded=%v kind=%q", downgraded, m.TPKind())
	}
}

func TestPremiumAccountKeepsChoice(t *testing.T) {
	m := NewManager("EURUSD", true, zerolog.Nop())

	downgraded, err := m.SetSLStrategy(SLSwing, Params{})
	if err != nil {
		t.Fatal(err)
	}
	if downgraded {
		t.Error("premium account should not be downgraded")
	}
	if m.SLKind() != SLSwing {
		t.Errorf("sl kind = %q, want swing", m.SLKind())
	}
}

func TestFreeKindsNeedNoPremium(t *testing.T) {
	m := NewManager("EURUSD", false, zerolog.Nop())
	for _, k := range []SLKind{SLATR, SLFixedPips, SLPinBar} {
		downgraded, err := m.SetSLStrategy(k, Params{})
		if err != nil || downgraded {
			t.Errorf("free sl kind %q: downgraded=%v err=%v", k, downgraded, err)
		}
	}
	for _, k := range []TPKind{TPRiskReward, TPFixedPips} {
		downgraded, err := m.SetTPStrategy(k, Params{})
		if err != nil || downgraded {
			t.Errorf("free tp kind %q: downgraded=%v err=%v", k, downgraded, err)
		}
	}
}

// TestManagerCalculateTotal starves the chains of data and checks the
// composites still produce a coherent result on the right sides.
func TestManagerCalculateTotal(t *testing.T) {
	m := NewManager("EURUSD", true, zerolog.Nop())

	res := m.Calculate(1.1000, market.Buy, nil, nil, nil)
	if !(res.StopLoss < 1.1000) {
		t.Errorf("buy stop %v not below entry", res.StopLoss)
	}
	if !(res.TakeProfit > 1.1000) {
		t.Errorf("buy target %v not above entry", res.TakeProfit)
	}
	if !res.FallbackUsed {
		t.Error("no candles: the sl fallback chain should be flagged")
	}
	if res.SLPips <= 0 || res.TPPips <= 0 {
		t.Errorf("pip distances must be positive: sl=%v tp=%v", res.SLPips, res.TPPips)
	}
}

func TestManagerCalculateWithData(t *testing.T) {
	m := NewManager("EURUSD", true, zerolog.Nop())
	candles := testCandles(60)

	res := m.Calculate(1.1002, market.Sell, candles, nil, nil)
	if !(res.StopLoss > 1.1002) || !(res.TakeProfit < 1.1002) {
		t.Errorf("sell sides wrong: sl=%v tp=%v", res.StopLoss, res.TakeProfit)
	}
	if res.RiskReward <= 0 {
		t.Errorf("risk reward = %v, want > 0", res.RiskReward)
	}
	if res.StrategyUsed == "" {
		t.Error("strategy names should be reported")
	}
}

func TestManagerUsesJPYPipSize(t *testing.T) {
	m := NewManager("USDJPY", true, zerolog.Nop())

	res := m.Calculate(150.00, market.Buy, nil, nil, nil)
	// Hard defaults: 30 pips SL, 50 pips TP at 0.01 per pip.
	if res.SLPips < 29.9 || res.SLPips > 30.1 {
		t.Errorf("sl pips = %v, want 30", res.SLPips)
	}
	slDist := 150.00 - res.StopLoss
	if slDist < 0.299 || slDist > 0.301 {
		t.Errorf("sl distance = %v, want 0.30", slDist)
	}
}
