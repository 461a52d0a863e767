package robot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/indicators"
	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/stoploss"
	"forex-signal-engine/internal/takeprofit"
)

// StochasticConfig holds the tunables of the stochastic analyzer.
type StochasticConfig struct {
	KPeriod    int
	DPeriod    int
	Smooth     int
	Oversold   float64
	Overbought float64
	RiskReward float64
}

// DefaultStochasticConfig returns the classic 14/3/3 setup with 20/80
// zones.
func DefaultStochasticConfig() StochasticConfig {
	return StochasticConfig{
		KPeriod:    14,
		DPeriod:    3,
		Smooth:     3,
		Oversold:   20,
		Overbought: 80,
		RiskReward: 2.0,
	}
}

// StochasticAnalyzer trades %K/%D crossovers inside the oversold and
// overbought zones, with an extreme-reading fallback that fires without a
// crossover.
type StochasticAnalyzer struct {
	cfg StochasticConfig
	log zerolog.Logger
}

// NewStochasticAnalyzer creates the analyzer; zero config fields get
// defaults.
func NewStochasticAnalyzer(cfg StochasticConfig, log zerolog.Logger) *StochasticAnalyzer {
	def := DefaultStochasticConfig()
	if cfg.KPeriod == 0 {
		cfg.KPeriod = def.KPeriod
	}
	if cfg.DPeriod == 0 {
		cfg.DPeriod = def.DPeriod
	}
	if cfg.Smooth == 0 {
		cfg.Smooth = def.Smooth
	}
	if cfg.Oversold == 0 {
		cfg.Oversold = def.Oversold
	}
	if cfg.Overbought == 0 {
		cfg.Overbought = def.Overbought
	}
	if cfg.RiskReward == 0 {
		cfg.RiskReward = def.RiskReward
	}
	return &StochasticAnalyzer{cfg: cfg, log: log.With().Str("analyzer", "stochastic").Logger()}
}

func (a *StochasticAnalyzer) Name() string { return "Stochastic Robot" }

func (a *StochasticAnalyzer) minCandles() int { return a.cfg.KPeriod + a.cfg.DPeriod }

// Indicators computes current and previous %K/%D plus ATR.
func (a *StochasticAnalyzer) Indicators(candles []market.Candle) Indicators {
	if len(candles) < a.minCandles() {
		return Indicators{"stoch_k": 50, "stoch_d": 50, "prev_k": 50, "prev_d": 50, "atr": 0, "current_price": 0}
	}

	highs := market.Highs(candles)
	lows := market.Lows(candles)
	closes := market.Closes(candles)

	k, d := indicators.Stochastic(highs, lows, closes, a.cfg.KPeriod, a.cfg.DPeriod, a.cfg.Smooth)
	atr := indicators.ATR(highs, lows, closes, 14)

	return Indicators{
		"stoch_k":       k[len(k)-1],
		"stoch_d":       d[len(d)-1],
		"prev_k":        k[len(k)-2],
		"prev_d":        d[len(d)-2],
		"atr":           atr,
		"current_price": closes[len(closes)-1],
	}
}

// MarketBias stays neutral: the oscillator reads momentum extremes, not
// trend direction.
func (a *StochasticAnalyzer) MarketBias(Indicators) Bias { return BiasNeutral }

// entryConditions evaluates the crossover and extreme rules, returning the
// zero direction when nothing fires.
func (a *StochasticAnalyzer) entryConditions(ind Indicators) (market.Direction, int, string) {
	k := ind["stoch_k"]
	d := ind["stoch_d"]
	prevK := ind["prev_k"]
	prevD := ind["prev_d"]

	bullishCross := prevK <= prevD && k > d
	bearishCross := prevK >= prevD && k < d

	if bullishCross && k < a.cfg.Oversold {
		return market.Buy, a.confidence(k, true),
			fmt.Sprintf("bullish crossover in oversold zone (K=%.1f, D=%.1f)", k, d)
	}
	if bearishCross && k > a.cfg.Overbought {
		return market.Sell, a.confidence(k, false),
			fmt.Sprintf("bearish crossover in overbought zone (K=%.1f, D=%.1f)", k, d)
	}

	// Extreme readings fire without a crossover.
	if k < 10 && d < 15 {
		return market.Buy, 60, fmt.Sprintf("extreme oversold (K=%.1f, D=%.1f)", k, d)
	}
	if k > 90 && d > 85 {
		return market.Sell, 60, fmt.Sprintf("extreme overbought (K=%.1f, D=%.1f)", k, d)
	}

	return "", 0, ""
}

// confidence grades the signal by zone depth: the deeper %K sits in the
// extreme, the stronger the reversal case.
func (a *StochasticAnalyzer) confidence(k float64, isBuy bool) int {
	if isBuy {
		switch {
		case k < 10:
			return 90
		case k < 15:
			return 80
		case k < 20:
			return 70
		}
		return 60
	}
	switch {
	case k > 90:
		return 90
	case k > 85:
		return 80
	case k > 80:
		return 70
	}
	return 60
}

// Analyze fires on a zone crossover or an extreme reading.
func (a *StochasticAnalyzer) Analyze(pair string, candles []market.Candle) *Signal {
	if len(candles) < a.minCandles() {
		return nil
	}

	ind := a.Indicators(candles)
	dir, confidence, reason := a.entryConditions(ind)
	if dir == "" {
		return nil
	}

	return a.buildSignal(pair, candles, ind, dir, confidence, reason)
}

// buildSignal completes a proposal with the ATR stop and risk-reward
// target.
func (a *StochasticAnalyzer) buildSignal(pair string, candles []market.Candle, ind Indicators, dir market.Direction, confidence int, reason string) *Signal {
	currentPrice := ind["current_price"]
	pipSize := market.PipSize(pair)

	slComposite := &stoploss.Composite{
		Fallback: &stoploss.ATRSL{Period: 14, Multiplier: 2.0},
		PipSize:  pipSize,
	}
	slPrice := slComposite.Calculate(candles, dir, currentPrice).Price

	tpComposite := &takeprofit.Composite{
		Strategies: []takeprofit.Strategy{takeprofit.NewRiskRewardTP(a.cfg.RiskReward, pipSize)},
		Fallback:   takeprofit.NewFixedPipsTP(50, pipSize),
		PipSize:    pipSize,
	}
	tpPrice := tpComposite.Calculate(currentPrice, slPrice, dir, takeprofit.Context{}).Price

	a.log.Info().
		Str("pair", pair).
		Str("direction", string(dir)).
		Int("confidence", confidence).
		Str("reason", reason).
		Msg("stochastic signal")

	return &Signal{
		Pair:        pair,
		Direction:   dir,
		Type:        SignalInstant,
		EntryPrice:  currentPrice,
		TPPrice:     tpPrice,
		SLPrice:     slPrice,
		Reason:      reason,
		Probability: confidence,
		Timestamp:   time.Now(),
	}
}

// FindPendingSetups returns nothing: the oscillator strategy only trades
// confirmed crossovers.
func (a *StochasticAnalyzer) FindPendingSetups(string, []market.Candle) []PendingSetup {
	return nil
}

// NewStochasticRobot wires the analyzer into a lifecycle-owning robot.
func NewStochasticRobot(pairs []string, timeframe string, cfg StochasticConfig, log zerolog.Logger) *Robot {
	a := NewStochasticAnalyzer(cfg, log)
	return New(a.Name(), pairs, timeframe, a, log)
}
