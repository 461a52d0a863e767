package robot

import (
	"fmt"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/indicators"
	"forex-signal-engine/internal/market"
)

// StochasticDivergenceAnalyzer extends the stochastic analyzer with
// price/oscillator divergence detection, checked before the standard
// crossover rules.
type StochasticDivergenceAnalyzer struct {
	*StochasticAnalyzer
	Lookback int
}

// NewStochasticDivergenceAnalyzer creates the analyzer with a 10-candle
// divergence window.
func NewStochasticDivergenceAnalyzer(cfg StochasticConfig, log zerolog.Logger) *StochasticDivergenceAnalyzer {
	return &StochasticDivergenceAnalyzer{
		StochasticAnalyzer: NewStochasticAnalyzer(cfg, log),
		Lookback:           10,
	}
}

func (a *StochasticDivergenceAnalyzer) Name() string { return "Stochastic Divergence Robot" }

// divergences compares the two halves of the lookback window: a bullish
// divergence is a lower price low against a higher oscillator low, bearish
// is the mirror on the highs.
func (a *StochasticDivergenceAnalyzer) divergences(candles []market.Candle) (bullish, bearish bool) {
	if len(candles) < a.Lookback {
		return false, false
	}

	closes := market.Closes(candles)
	highs := market.Highs(candles)
	lows := market.Lows(candles)
	k, _ := indicators.Stochastic(highs, lows, closes, a.cfg.KPeriod, a.cfg.DPeriod, a.cfg.Smooth)
	if len(k) < a.Lookback {
		return false, false
	}

	price := closes[len(closes)-a.Lookback:]
	stoch := k[len(k)-a.Lookback:]
	mid := a.Lookback / 2

	priceFirstLow, priceSecondLow := minOf(price[:mid]), minOf(price[mid:])
	stochFirstLow, stochSecondLow := minOf(stoch[:mid]), minOf(stoch[mid:])
	bullish = priceSecondLow < priceFirstLow && stochSecondLow > stochFirstLow

	priceFirstHigh, priceSecondHigh := maxOf(price[:mid]), maxOf(price[mid:])
	stochFirstHigh, stochSecondHigh := maxOf(stoch[:mid]), maxOf(stoch[mid:])
	bearish = priceSecondHigh > priceFirstHigh && stochSecondHigh < stochFirstHigh

	return bullish, bearish
}

// Analyze checks divergence first, then falls back to the standard
// stochastic rules.
func (a *StochasticDivergenceAnalyzer) Analyze(pair string, candles []market.Candle) *Signal {
	if len(candles) < a.minCandles() {
		return nil
	}

	ind := a.Indicators(candles)
	k := ind["stoch_k"]

	bullishDiv, bearishDiv := a.divergences(candles)

	if bullishDiv && k < 30 {
		reason := fmt.Sprintf("bullish divergence detected (K=%.1f)", k)
		return a.buildSignal(pair, candles, ind, market.Buy, 85, reason)
	}
	if bearishDiv && k > 70 {
		reason := fmt.Sprintf("bearish divergence detected (K=%.1f)", k)
		return a.buildSignal(pair, candles, ind, market.Sell, 85, reason)
	}

	return a.StochasticAnalyzer.Analyze(pair, candles)
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// NewStochasticDivergenceRobot wires the analyzer into a lifecycle-owning
// robot.
func NewStochasticDivergenceRobot(pairs []string, timeframe string, cfg StochasticConfig, log zerolog.Logger) *Robot {
	a := NewStochasticDivergenceAnalyzer(cfg, log)
	return New(a.Name(), pairs, timeframe, a, log)
}
