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

// RSIConfig holds the tunables of the RSI analyzer.
type RSIConfig struct {
	Period     int
	Oversold   float64
	Overbought float64
	RiskReward float64
	// TriggerATRFraction scales the ATR offset past support/resistance
	// used for pending-setup triggers. A heuristic, kept configurable.
	TriggerATRFraction float64
	ATRSLMultiplier    float64
	ATRTPMultiplier    float64
	LevelLookback      int
}

// DefaultRSIConfig returns the standard 14-period 30/70 setup.
func DefaultRSIConfig() RSIConfig {
	return RSIConfig{
		Period:             14,
		Oversold:           30,
		Overbought:         70,
		RiskReward:         2.0,
		TriggerATRFraction: 0.3,
		ATRSLMultiplier:    1.5,
		ATRTPMultiplier:    2.0,
		LevelLookback:      20,
	}
}

// RSIAnalyzer emits a buy when RSI crosses up out of the oversold zone and
// a sell when it crosses down out of the overbought zone. Stops come from
// the last rejection pin bar with an ATR fallback; targets from the
// risk-reward ratio.
type RSIAnalyzer struct {
	cfg RSIConfig
	log zerolog.Logger
}

// NewRSIAnalyzer creates the analyzer; zero config fields get defaults.
func NewRSIAnalyzer(cfg RSIConfig, log zerolog.Logger) *RSIAnalyzer {
	def := DefaultRSIConfig()
	if cfg.Period == 0 {
		cfg.Period = def.Period
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
	if cfg.TriggerATRFraction == 0 {
		cfg.TriggerATRFraction = def.TriggerATRFraction
	}
	if cfg.ATRSLMultiplier == 0 {
		cfg.ATRSLMultiplier = def.ATRSLMultiplier
	}
	if cfg.ATRTPMultiplier == 0 {
		cfg.ATRTPMultiplier = def.ATRTPMultiplier
	}
	if cfg.LevelLookback == 0 {
		cfg.LevelLookback = def.LevelLookback
	}
	return &RSIAnalyzer{cfg: cfg, log: log.With().Str("analyzer", "rsi").Logger()}
}

func (a *RSIAnalyzer) Name() string { return "RSI Robot" }

// minCandles is the shortest series the analyzer will act on.
func (a *RSIAnalyzer) minCandles() int { return a.cfg.Period + 5 }

// Indicators computes the RSI snapshot: current and previous RSI, ATR, and
// the recent support/resistance extremes.
func (a *RSIAnalyzer) Indicators(candles []market.Candle) Indicators {
	if len(candles) < a.minCandles() {
		return Indicators{"rsi": 50, "prev_rsi": 50, "current_price": 0, "atr": 0, "support": 0, "resistance": 0}
	}

	closes := market.Closes(candles)
	highs := market.Highs(candles)
	lows := market.Lows(candles)

	rsi := indicators.RSI(closes, a.cfg.Period)
	atr := indicators.ATR(highs, lows, closes, 14)
	support, resistance := indicators.SupportResistance(highs, lows, a.cfg.LevelLookback)

	return Indicators{
		"rsi":           rsi[len(rsi)-1],
		"prev_rsi":      rsi[len(rsi)-2],
		"current_price": closes[len(closes)-1],
		"atr":           atr,
		"support":       support,
		"resistance":    resistance,
	}
}

// MarketBias reads the overall direction from the RSI level.
func (a *RSIAnalyzer) MarketBias(ind Indicators) Bias {
	rsi := ind["rsi"]
	switch {
	case rsi < 40:
		return BiasBearish
	case rsi > 60:
		return BiasBullish
	default:
		return BiasNeutral
	}
}

// Analyze fires on an RSI zone exit: previous value inside the zone,
// current value crossed back out.
func (a *RSIAnalyzer) Analyze(pair string, candles []market.Candle) *Signal {
	if len(candles) < a.minCandles() {
		return nil
	}

	ind := a.Indicators(candles)
	rsi := ind["rsi"]
	prevRSI := ind["prev_rsi"]
	currentPrice := ind["current_price"]

	var dir market.Direction
	switch {
	case prevRSI < a.cfg.Oversold && rsi >= a.cfg.Oversold:
		dir = market.Buy
	case prevRSI > a.cfg.Overbought && rsi <= a.cfg.Overbought:
		dir = market.Sell
	default:
		return nil
	}

	slPrice := a.stopPrice(pair, candles, dir, currentPrice)
	tpPrice := a.targetPrice(pair, currentPrice, slPrice, dir)

	zone := "oversold"
	if !dir.IsBuy() {
		zone = "overbought"
	}

	a.log.Info().
		Str("pair", pair).
		Str("direction", string(dir)).
		Float64("rsi", rsi).
		Float64("prev_rsi", prevRSI).
		Msg("rsi zone exit signal")

	return &Signal{
		Pair:        pair,
		Direction:   dir,
		Type:        SignalInstant,
		EntryPrice:  currentPrice,
		TPPrice:     tpPrice,
		SLPrice:     slPrice,
		Reason:      fmt.Sprintf("RSI %s exit (%.1f -> %.1f)", zone, prevRSI, rsi),
		Probability: 65,
		Timestamp:   time.Now(),
	}
}

// stopPrice runs the pin-bar strategy with the ATR fallback. The composite
// guarantees a usable stop even on sparse data.
func (a *RSIAnalyzer) stopPrice(pair string, candles []market.Candle, dir market.Direction, currentPrice float64) float64 {
	pipSize := market.PipSize(pair)
	composite := &stoploss.Composite{
		Strategies: []stoploss.Strategy{stoploss.NewPinBarSL(pipSize)},
		Fallback:   &stoploss.ATRSL{Period: 14, Multiplier: a.cfg.ATRSLMultiplier},
		PipSize:    pipSize,
	}
	return composite.Calculate(candles, dir, currentPrice).Price
}

// targetPrice derives the target from the stop distance and ratio.
func (a *RSIAnalyzer) targetPrice(pair string, entry, sl float64, dir market.Direction) float64 {
	pipSize := market.PipSize(pair)
	composite := &takeprofit.Composite{
		Strategies: []takeprofit.Strategy{takeprofit.NewRiskRewardTP(a.cfg.RiskReward, pipSize)},
		Fallback:   takeprofit.NewFixedPipsTP(50, pipSize),
		PipSize:    pipSize,
	}
	return composite.Calculate(entry, sl, dir, takeprofit.Context{}).Price
}

// FindPendingSetups proposes reversal entries near the recent extremes for
// whichever zones RSI has not yet reached. Triggers sit an ATR fraction past
// the level.
func (a *RSIAnalyzer) FindPendingSetups(pair string, candles []market.Candle) []PendingSetup {
	if len(candles) < a.minCandles() {
		return nil
	}

	ind := a.Indicators(candles)
	rsi := ind["rsi"]
	atr := ind["atr"]
	support := ind["support"]
	resistance := ind["resistance"]

	var setups []PendingSetup

	if rsi > a.cfg.Oversold+10 {
		entry := support
		setups = append(setups, PendingSetup{
			Pair:         pair,
			Direction:    market.Buy,
			TriggerPrice: support - atr*a.cfg.TriggerATRFraction,
			EntryPrice:   entry,
			TPPrice:      entry + atr*a.cfg.ATRTPMultiplier,
			SLPrice:      entry - atr*a.cfg.ATRSLMultiplier,
			Condition:    PriceBelow,
			Reason:       fmt.Sprintf("expecting RSI oversold near support %.5f", support),
			Probability:  60,
			CreatedAt:    time.Now(),
		})
	}

	if rsi < a.cfg.Overbought-10 {
		entry := resistance
		setups = append(setups, PendingSetup{
			Pair:         pair,
			Direction:    market.Sell,
			TriggerPrice: resistance + atr*a.cfg.TriggerATRFraction,
			EntryPrice:   entry,
			TPPrice:      entry - atr*a.cfg.ATRTPMultiplier,
			SLPrice:      entry + atr*a.cfg.ATRSLMultiplier,
			Condition:    PriceAbove,
			Reason:       fmt.Sprintf("expecting RSI overbought near resistance %.5f", resistance),
			Probability:  60,
			CreatedAt:    time.Now(),
		})
	}

	return setups
}

// NewRSIRobot wires the analyzer into a lifecycle-owning robot.
func NewRSIRobot(pairs []string, timeframe string, cfg RSIConfig, log zerolog.Logger) *Robot {
	a := NewRSIAnalyzer(cfg, log)
	return New(a.Name(), pairs, timeframe, a, log)
}
