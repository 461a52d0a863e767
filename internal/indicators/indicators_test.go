package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRSIInsufficientData(t *testing.T) {
	closes := []float64{1.1, 1.2, 1.3}
	rsi := RSI(closes, 14)
	if len(rsi) != len(closes) {
		t.Fatalf("RSI length = %d, want %d", len(rsi), len(closes))
	}
	for i, v := range rsi {
		if v != 50 {
			t.Errorf("rsi[%d] = %v, want neutral 50", i, v)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 1.0 + float64(i)*0.001
	}
	rsi := RSI(closes, 14)
	if got := rsi[len(rsi)-1]; got != 100 {
		t.Errorf("RSI of monotonic rise = %v, want 100", got)
	}
}

func TestRSIRange(t *testing.T) {
	closes := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41,
		46.22, 45.64, 46.21, 46.25, 45.71, 46.45, 45.78, 45.35, 44.03, 44.18,
		44.22, 44.57, 43.42, 42.66, 43.13}
	rsi := RSI(closes, 14)
	for i := 14; i < len(rsi); i++ {
		if rsi[i] < 0 || rsi[i] > 100 {
			t.Errorf("rsi[%d] = %v out of [0,100]", i, rsi[i])
		}
	}
	// First defined value of the classic Wilder example is ~70.
	if !almostEqual(rsi[14], 70.46, 0.5) {
		t.Errorf("rsi[14] = %v, want ~70.46", rsi[14])
	}
}

func TestATR(t *testing.T) {
	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 1.1050
		low[i] = 1.1030
		close[i] = 1.1040
	}
	atr := ATR(high, low, close, 14)
	if !almostEqual(atr, 0.0020, 1e-9) {
		t.Errorf("ATR = %v, want 0.0020", atr)
	}
	if got := ATR(high[:5], low[:5], close[:5], 14); got != 0 {
		t.Errorf("ATR with short history = %v, want 0", got)
	}
}

func TestATRUsesGaps(t *testing.T) {
	// A gap between prev close and the next candle widens the true range.
	high := []float64{1.10, 1.12, 1.12}
	low := []float64{1.09, 1.11, 1.11}
	close := []float64{1.095, 1.115, 1.115}
	atr := ATR(high, low, close, 2)
	// TR[1] = max(0.01, |1.12-1.095|, |1.11-1.095|) = 0.025
	// TR[2] = max(0.01, 0.005, 0.005) = 0.01
	if !almostEqual(atr, 0.0175, 1e-9) {
		t.Errorf("ATR = %v, want 0.0175", atr)
	}
}

func TestStochasticBounds(t *testing.T) {
	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 1.10 + 0.001*math.Sin(float64(i))
		low[i] = high[i] - 0.002
		close[i] = low[i] + 0.001
	}
	k, d := Stochastic(high, low, close, 14, 3, 3)
	if len(k) != n || len(d) != n {
		t.Fatalf("length mismatch: k=%d d=%d", len(k), len(d))
	}
	for i := range k {
		if k[i] < 0 || k[i] > 100 || d[i] < 0 || d[i] > 100 {
			t.Errorf("stochastic out of bounds at %d: k=%v d=%v", i, k[i], d[i])
		}
	}
}

func TestStochasticCloseAtHigh(t *testing.T) {
	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 1.0 + float64(i)*0.01
		low[i] = high[i] - 0.005
		close[i] = high[i]
	}
	k, _ := Stochastic(high, low, close, 14, 3, 1)
	if got := k[n-1]; got < 95 {
		t.Errorf("closing at rolling high should push %%K near 100, got %v", got)
	}
}

func TestSMAAndEMA(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sma := SMA(data, 5)
	if !almostEqual(sma[len(sma)-1], 8, 1e-9) {
		t.Errorf("SMA tail = %v, want 8", sma[len(sma)-1])
	}

	ema := EMA(data, 5)
	if len(ema) != len(data) {
		t.Fatalf("EMA length = %d", len(ema))
	}
	// EMA seeded at index 4 with mean(1..5)=3, then trends toward the data.
	if !almostEqual(ema[4], 3, 1e-9) {
		t.Errorf("EMA seed = %v, want 3", ema[4])
	}
	if ema[len(ema)-1] <= sma[len(sma)-1]-1.5 || ema[len(ema)-1] >= 10 {
		t.Errorf("EMA tail = %v out of expected range", ema[len(ema)-1])
	}
}

func TestBollingerBands(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 1.1000
	}
	b := BollingerBands(closes, 20, 2.0)
	if b.Upper != b.Middle || b.Lower != b.Middle || b.Middle != 1.1000 {
		t.Errorf("flat series should collapse bands: %+v", b)
	}
	if got := BollingerBands(closes[:10], 20, 2.0); got != (Bands{}) {
		t.Errorf("short history should return zero bands, got %+v", got)
	}
}

func TestMACDSignalIsEMA(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 1.0 + 0.01*float64(i)
	}
	line, sig, hist := MACD(closes, 12, 26, 9)
	last := len(closes) - 1
	if !almostEqual(hist[last], line[last]-sig[last], 1e-12) {
		t.Errorf("histogram mismatch: %v != %v - %v", hist[last], line[last], sig[last])
	}
	if line[last] <= 0 {
		t.Errorf("uptrend MACD should be positive, got %v", line[last])
	}
}

func TestSupportResistance(t *testing.T) {
	highs := []float64{1.10, 1.12, 1.11, 1.13, 1.12}
	lows := []float64{1.08, 1.09, 1.07, 1.10, 1.09}
	s, r := SupportResistance(highs, lows, 5)
	if s != 1.07 {
		t.Errorf("support = %v, want 1.07", s)
	}
	if r != 1.13 {
		t.Errorf("resistance = %v, want 1.13", r)
	}
}

func TestSwingLevels(t *testing.T) {
	// Lows with a clear swing low at index 5.
	lows := []float64{1.10, 1.09, 1.08, 1.09, 1.085, 1.07, 1.08, 1.09, 1.10, 1.11, 1.12}
	levels := SupportLevels(lows, 2, len(lows))
	if len(levels) == 0 {
		t.Fatal("expected at least one support level")
	}
	if levels[0] != 1.07 {
		t.Errorf("most recent support = %v, want 1.07", levels[0])
	}

	if got := SupportLevels(lows[:3], 2, 3); got != nil {
		t.Errorf("short history should return nil, got %v", got)
	}
}
