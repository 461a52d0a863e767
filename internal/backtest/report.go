package backtest

import (
	"gonum.org/v1/gonum/stat"

	"forex-signal-engine/internal/robot"
)

// Report summarises the closed trades of one replay.
type Report struct {
	Pair            string
	TotalTrades     int
	Wins            int
	Losses          int
	WinRate         float64 // percent
	TotalPnLPips    float64
	AvgWinPips      float64
	AvgLossPips     float64 // negative or zero
	ProfitFactor    float64 // gross win pips / gross loss pips
	MaxDrawdownPips float64
	SharpeRatio     float64 // mean/stddev of per-trade pips
	Trades          []robot.Trade
	EquityCurve     []EquityPoint
}

func buildReport(pair string, trades []robot.Trade) *Report {
	rep := &Report{
		Pair:        pair,
		TotalTrades: len(trades),
		Trades:      trades,
	}
	if len(trades) == 0 {
		return rep
	}

	var grossWin, grossLoss float64
	pips := make([]float64, 0, len(trades))
	equity := 0.0

	for _, t := range trades {
		pips = append(pips, t.PnLPips)
		equity += t.PnLPips
		rep.EquityCurve = append(rep.EquityCurve, EquityPoint{
			Time:       t.CloseTime,
			EquityPips: equity,
		})

		if t.PnLPips > 0 {
			rep.Wins++
			grossWin += t.PnLPips
		} else {
			rep.Losses++
			grossLoss += -t.PnLPips
		}
	}

	rep.TotalPnLPips = equity
	rep.WinRate = float64(rep.Wins) / float64(rep.TotalTrades) * 100
	if rep.Wins > 0 {
		rep.AvgWinPips = grossWin / float64(rep.Wins)
	}
	if rep.Losses > 0 {
		rep.AvgLossPips = -grossLoss / float64(rep.Losses)
	}
	if grossLoss > 0 {
		rep.ProfitFactor = grossWin / grossLoss
	}
	rep.MaxDrawdownPips = maxDrawdown(rep.EquityCurve)
	rep.SharpeRatio = sharpe(pips)

	return rep
}

// maxDrawdown is the largest peak-to-trough drop of the pip equity curve.
// The curve starts from zero, so an opening losing streak counts too.
func maxDrawdown(curve []EquityPoint) float64 {
	peak := 0.0
	maxDD := 0.0
	for _, p := range curve {
		if p.EquityPips > peak {
			peak = p.EquityPips
		}
		if dd := peak - p.EquityPips; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpe is the mean per-trade pip return over its standard deviation,
// with a zero risk-free rate. Fewer than two trades give 0.
func sharpe(pips []float64) float64 {
	if len(pips) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(pips, nil)
	if std == 0 {
		return 0
	}
	return mean / std
}
