package backtest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/robot"
)

// Engine replays a historical candle series through a robot. Each step
// feeds the robot a growing window so the robot's own lifecycle opens,
// updates and closes trades exactly as it would on a live feed.
type Engine struct {
	// Warmup is the number of candles handed to the robot before the
	// first analysis step. Indicators need history to stabilise.
	Warmup int

	log zerolog.Logger
}

// EquityPoint records cumulative pips after a trade closed.
type EquityPoint struct {
	Time       time.Time
	EquityPips float64
}

// NewEngine creates a backtest engine. A warmup below 1 falls back to 50.
func NewEngine(warmup int, log zerolog.Logger) *Engine {
	if warmup < 1 {
		warmup = 50
	}
	return &Engine{
		Warmup: warmup,
		log:    log.With().Str("component", "backtest").Logger(),
	}
}

// Run replays candles for a single pair through the robot and collects
// the closed trades into a performance report. The robot should be a
// fresh instance; trades left over from a previous run would pollute
// the statistics.
func (e *Engine) Run(pair string, candles []market.Candle, r *robot.Robot) (*Report, error) {
	if len(candles) <= e.Warmup {
		return nil, fmt.Errorf("backtest: need more than %d candles, got %d", e.Warmup, len(candles))
	}

	e.log.Info().
		Str("pair", pair).
		Str("robot", r.Name).
		Int("candles", len(candles)).
		Msg("starting replay")

	for i := e.Warmup; i < len(candles); i++ {
		r.FullAnalysis(pair, candles[:i+1])
	}

	// Flatten any position still open at the end of the series.
	if r.HasOpenTrade(pair) {
		last := candles[len(candles)-1]
		r.UpdateTradeStatus(pair, last.Close)
		r.CloseTrade(pair, robot.StatusClosedManual)
	}

	report := buildReport(pair, r.TradeHistory())

	e.log.Info().
		Str("pair", pair).
		Int("trades", report.TotalTrades).
		Float64("win_rate", report.WinRate).
		Float64("total_pips", report.TotalPnLPips).
		Msg("replay finished")

	return report, nil
}

// RunAll replays the series through several robots and returns a
// report per robot name.
func (e *Engine) RunAll(pair string, candles []market.Candle, robots []*robot.Robot) (map[string]*Report, error) {
	reports := make(map[string]*Report, len(robots))
	for _, r := range robots {
		rep, err := e.Run(pair, candles, r)
		if err != nil {
			return nil, err
		}
		reports[r.Name] = rep
	}
	return reports, nil
}
