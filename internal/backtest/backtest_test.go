package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/robot"
)

// scriptedAnalyzer emits pre-planned signals keyed by window length, so a
// replay produces a known trade sequence.
type scriptedAnalyzer struct {
	signalAt map[int]*robot.Signal
}

func (s *scriptedAnalyzer) Name() string { return "scripted" }

func (s *scriptedAnalyzer) Analyze(pair string, candles []market.Candle) *robot.Signal {
	return s.signalAt[len(candles)]
}

func (s *scriptedAnalyzer) FindPendingSetups(pair string, candles []market.Candle) []robot.PendingSetup {
	return nil
}

func (s *scriptedAnalyzer) Indicators(candles []market.Candle) robot.Indicators {
	return robot.Indicators{}
}

func (s *scriptedAnalyzer) MarketBias(ind robot.Indicators) robot.Bias {
	return robot.BiasNeutral
}

func candlesFromCloses(closes []float64) []market.Candle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
			Time:  base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func buySignal(pair string, entry, tp, sl float64) *robot.Signal {
	return &robot.Signal{
		Pair:       pair,
		Direction:  market.Buy,
		Type:       robot.SignalInstant,
		EntryPrice: entry,
		TPPrice:    tp,
		SLPrice:    sl,
		Reason:     "scripted entry",
	}
}

func TestRunWinAndLoss(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 1.1000
	}
	// First trade: opened at window 12, rides to TP at 1.1050.
	closes[12], closes[13], closes[14] = 1.1020, 1.1020, 1.1020
	closes[15] = 1.1050
	closes[16], closes[17], closes[18] = 1.1040, 1.1040, 1.1040
	// Second trade: opened at window 20, stopped out at 1.1020.
	closes[19] = 1.1050
	closes[20], closes[21] = 1.1040, 1.1040
	closes[22] = 1.1020
	for i := 23; i < 30; i++ {
		closes[i] = 1.1030
	}

	analyzer := &scriptedAnalyzer{signalAt: map[int]*robot.Signal{
		12: buySignal("EURUSD", 1.1000, 1.1050, 1.0950),
		20: buySignal("EURUSD", 1.1050, 1.1110, 1.1020),
	}}
	r := robot.New("scripted", []string{"EURUSD"}, "H1", analyzer, zerolog.Nop())

	engine := NewEngine(10, zerolog.Nop())
	rep, err := engine.Run("EURUSD", candlesFromCloses(closes), r)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.TotalTrades != 2 {
		t.Fatalf("TotalTrades = %d, want 2", rep.TotalTrades)
	}
	if rep.Wins != 1 || rep.Losses != 1 {
		t.Errorf("Wins/Losses = %d/%d, want 1/1", rep.Wins, rep.Losses)
	}
	if rep.WinRate != 50 {
		t.Errorf("WinRate = %.1f, want 50", rep.WinRate)
	}
	if math.Abs(rep.TotalPnLPips-20) > 1e-6 {
		t.Errorf("TotalPnLPips = %.2f, want 20", rep.TotalPnLPips)
	}
	if math.Abs(rep.AvgWinPips-50) > 1e-6 {
		t.Errorf("AvgWinPips = %.2f, want 50", rep.AvgWinPips)
	}
	if math.Abs(rep.AvgLossPips+30) > 1e-6 {
		t.Errorf("AvgLossPips = %.2f, want -30", rep.AvgLossPips)
	}
	if math.Abs(rep.ProfitFactor-50.0/30.0) > 1e-6 {
		t.Errorf("ProfitFactor = %.3f, want %.3f", rep.ProfitFactor, 50.0/30.0)
	}
	// Equity peaks at +50 after the winner, then drops to +20.
	if math.Abs(rep.MaxDrawdownPips-30) > 1e-6 {
		t.Errorf("MaxDrawdownPips = %.2f, want 30", rep.MaxDrawdownPips)
	}
	if rep.SharpeRatio <= 0 || rep.SharpeRatio >= 1 {
		t.Errorf("SharpeRatio = %.3f, want small positive", rep.SharpeRatio)
	}

	if rep.Trades[0].Status != robot.StatusClosedTP {
		t.Errorf("trade 0 status = %s, want %s", rep.Trades[0].Status, robot.StatusClosedTP)
	}
	if rep.Trades[1].Status != robot.StatusClosedSL {
		t.Errorf("trade 1 status = %s, want %s", rep.Trades[1].Status, robot.StatusClosedSL)
	}
}

func TestRunFlattensOpenTradeAtEnd(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 1.1000
	}
	for i := 13; i < 20; i++ {
		closes[i] = 1.1030
	}

	analyzer := &scriptedAnalyzer{signalAt: map[int]*robot.Signal{
		13: buySignal("EURUSD", 1.1000, 1.1200, 1.0900),
	}}
	r := robot.New("scripted", []string{"EURUSD"}, "H1", analyzer, zerolog.Nop())

	engine := NewEngine(10, zerolog.Nop())
	rep, err := engine.Run("EURUSD", candlesFromCloses(closes), r)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1", rep.TotalTrades)
	}
	if rep.Trades[0].Status != robot.StatusClosedManual {
		t.Errorf("status = %s, want %s", rep.Trades[0].Status, robot.StatusClosedManual)
	}
	if math.Abs(rep.TotalPnLPips-30) > 1e-6 {
		t.Errorf("TotalPnLPips = %.2f, want 30", rep.TotalPnLPips)
	}
}

func TestRunRejectsShortSeries(t *testing.T) {
	engine := NewEngine(50, zerolog.Nop())
	r := robot.New("scripted", []string{"EURUSD"}, "H1",
		&scriptedAnalyzer{}, zerolog.Nop())

	if _, err := engine.Run("EURUSD", candlesFromCloses(make([]float64, 30)), r); err == nil {
		t.Fatal("expected error for series shorter than warmup")
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rep := buildReport("EURUSD", nil)
	if rep.TotalTrades != 0 || rep.WinRate != 0 || rep.MaxDrawdownPips != 0 {
		t.Errorf("empty report not zeroed: %+v", rep)
	}
}

func TestBuildReportDrawdown(t *testing.T) {
	pips := []float64{10, -20, -30, 40, 5}
	trades := make([]robot.Trade, len(pips))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range pips {
		status := robot.StatusClosedTP
		if p <= 0 {
			status = robot.StatusClosedSL
		}
		trades[i] = robot.Trade{
			Pair:      "EURUSD",
			PnLPips:   p,
			Status:    status,
			CloseTime: base.Add(time.Duration(i) * time.Hour),
		}
	}

	rep := buildReport("EURUSD", trades)
	if rep.Wins != 3 || rep.Losses != 2 {
		t.Errorf("Wins/Losses = %d/%d, want 3/2", rep.Wins, rep.Losses)
	}
	if math.Abs(rep.TotalPnLPips-5) > 1e-6 {
		t.Errorf("TotalPnLPips = %.2f, want 5", rep.TotalPnLPips)
	}
	// Equity runs 10, -10, -40, 0, 5: peak 10, trough -40.
	if math.Abs(rep.MaxDrawdownPips-50) > 1e-6 {
		t.Errorf("MaxDrawdownPips = %.2f, want 50", rep.MaxDrawdownPips)
	}
}

func TestRunAll(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 1.1000
	}

	a := robot.New("quiet-a", []string{"EURUSD"}, "H1", &scriptedAnalyzer{}, zerolog.Nop())
	b := robot.New("quiet-b", []string{"EURUSD"}, "H1", &scriptedAnalyzer{}, zerolog.Nop())

	engine := NewEngine(10, zerolog.Nop())
	reports, err := engine.RunAll("EURUSD", candlesFromCloses(closes), []*robot.Robot{a, b})
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}
	for name, rep := range reports {
		if rep.TotalTrades != 0 {
			t.Errorf("%s: TotalTrades = %d, want 0", name, rep.TotalTrades)
		}
	}
}
