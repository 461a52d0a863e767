package robot

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
)

// Analyzer is the strategy brain a Robot drives each cycle. Implementations
// are pure functions of the candle series; the Robot owns all trade state.
type Analyzer interface {
	Name() string
	// Analyze returns an instant signal when entry conditions are met,
	// nil otherwise.
	Analyze(pair string, candles []market.Candle) *Signal
	// FindPendingSetups proposes price-conditional entries for both
	// directions. The result replaces the pair's previous list wholesale.
	FindPendingSetups(pair string, candles []market.Candle) []PendingSetup
	// Indicators computes the snapshot values for the cycle.
	Indicators(candles []market.Candle) Indicators
	// MarketBias reads the overall direction from the snapshot.
	MarketBias(ind Indicators) Bias
}

// Robot owns the trade lifecycle for a set of pairs and drives an Analyzer
// through the per-cycle sequence. It is not safe for concurrent use; the
// caller runs one robot per worker and serializes calls into it.
type Robot struct {
	Name      string
	Pairs     []string
	Timeframe string

	analyzer Analyzer

	activeTrades  map[string]*Trade
	pendingSetups map[string][]PendingSetup
	signalHistory []Signal
	tradeHistory  []Trade

	log zerolog.Logger
}

// New creates a robot around an analyzer.
func New(name string, pairs []string, timeframe string, analyzer Analyzer, log zerolog.Logger) *Robot {
	r := &Robot{
		Name:          name,
		Pairs:         pairs,
		Timeframe:     timeframe,
		analyzer:      analyzer,
		activeTrades:  make(map[string]*Trade),
		pendingSetups: make(map[string][]PendingSetup),
		log:           log.With().Str("robot", name).Logger(),
	}
	r.log.Info().Strs("pairs", pairs).Str("timeframe", timeframe).Msg("robot initialized")
	return r
}

// Analyzer returns the strategy brain driving this robot.
func (r *Robot) Analyzer() Analyzer { return r.analyzer }

// ActiveTrade returns the open trade for a pair, or nil.
func (r *Robot) ActiveTrade(pair string) *Trade {
	return r.activeTrades[pair]
}

// HasOpenTrade reports whether the pair has an open trade.
func (r *Robot) HasOpenTrade(pair string) bool {
	t, ok := r.activeTrades[pair]
	return ok && t.Status == StatusOpen
}

// PendingSetups returns the current price-conditional setups for a pair.
func (r *Robot) PendingSetups(pair string) []PendingSetup {
	return r.pendingSetups[pair]
}

// TradeHistory returns the closed trades in close order.
func (r *Robot) TradeHistory() []Trade { return r.tradeHistory }

// SignalHistory returns every signal that opened a trade.
func (r *Robot) SignalHistory() []Signal { return r.signalHistory }

// OpenTrade opens a trade from a signal. At most one trade may be open per
// pair: a second call while one is open returns the existing trade
// unchanged.
func (r *Robot) OpenTrade(signal *Signal) *Trade {
	if existing, ok := r.activeTrades[signal.Pair]; ok && existing.Status == StatusOpen {
		r.log.Warn().Str("pair", signal.Pair).Msg("trade already open")
		return existing
	}

	trade := &Trade{
		ID:           uuid.NewString(),
		Pair:         signal.Pair,
		Direction:    signal.Direction,
		EntryPrice:   signal.EntryPrice,
		CurrentPrice: signal.EntryPrice,
		TPPrice:      signal.TPPrice,
		SLPrice:      signal.SLPrice,
		Status:       StatusOpen,
		OpenTime:     time.Now(),
	}

	r.activeTrades[signal.Pair] = trade
	r.signalHistory = append(r.signalHistory, *signal)

	r.log.Info().
		Str("pair", trade.Pair).
		Str("direction", string(trade.Direction)).
		Float64("entry", trade.EntryPrice).
		Float64("tp", trade.TPPrice).
		Float64("sl", trade.SLPrice).
		Msg("trade opened")

	return trade
}

// CloseTrade closes the pair's trade with a reason and moves it to history.
func (r *Robot) CloseTrade(pair string, reason TradeStatus) *Trade {
	trade, ok := r.activeTrades[pair]
	if !ok {
		return nil
	}

	trade.Status = reason
	trade.CloseTime = time.Now()

	r.tradeHistory = append(r.tradeHistory, *trade)
	delete(r.activeTrades, pair)

	r.log.Info().
		Str("pair", trade.Pair).
		Str("direction", string(trade.Direction)).
		Float64("pnl_pips", trade.PnLPips).
		Str("reason", string(reason)).
		Msg("trade closed")

	return trade
}

// UpdateTradeStatus refreshes the pair's open trade against the current
// price: recomputes pip PnL and auto-closes on a TP or SL touch.
func (r *Robot) UpdateTradeStatus(pair string, currentPrice float64) *Trade {
	trade, ok := r.activeTrades[pair]
	if !ok {
		return nil
	}

	trade.CurrentPrice = currentPrice

	pip := market.PipSize(pair)
	if trade.Direction.IsBuy() {
		trade.PnLPips = (currentPrice - trade.EntryPrice) / pip
	} else {
		trade.PnLPips = (trade.EntryPrice - currentPrice) / pip
	}

	var hitTP, hitSL bool
	if trade.Direction.IsBuy() {
		hitTP = currentPrice >= trade.TPPrice
		hitSL = currentPrice <= trade.SLPrice
	} else {
		hitTP = currentPrice <= trade.TPPrice
		hitSL = currentPrice >= trade.SLPrice
	}

	if hitTP {
		r.CloseTrade(pair, StatusClosedTP)
	} else if hitSL {
		r.CloseTrade(pair, StatusClosedSL)
	}

	return trade
}

// ReplacePendingSetups swaps in a fresh pending list for a pair. Each
// analysis cycle replaces the previous list wholesale; setups never
// accumulate.
func (r *Robot) ReplacePendingSetups(pair string, setups []PendingSetup) {
	r.pendingSetups[pair] = setups
}

// CheckPendingTriggers converts the first satisfied pending setup into an
// instant signal and removes it from the pair's list.
func (r *Robot) CheckPendingTriggers(pair string, currentPrice float64) *Signal {
	setups := r.pendingSetups[pair]
	for i := range setups {
		if !setups[i].IsTriggered(currentPrice) {
			continue
		}
		s := setups[i]
		signal := &Signal{
			Pair:        pair,
			Direction:   s.Direction,
			Type:        SignalInstant,
			EntryPrice:  s.EntryPrice,
			TPPrice:     s.TPPrice,
			SLPrice:     s.SLPrice,
			Reason:      "pending triggered: " + s.Reason,
			Probability: s.Probability,
			Timestamp:   time.Now(),
		}

		r.pendingSetups[pair] = append(setups[:i:i], setups[i+1:]...)

		r.log.Info().
			Str("pair", pair).
			Str("direction", string(s.Direction)).
			Float64("trigger", s.TriggerPrice).
			Msg("pending setup triggered")

		return signal
	}
	return nil
}

// FullAnalysis runs one complete cycle for a pair: update the open trade,
// fire any pending trigger, look for a fresh instant signal, then rebuild
// the pending list. New pendings replace the old list wholesale.
func (r *Robot) FullAnalysis(pair string, candles []market.Candle) Analysis {
	ind := r.analyzer.Indicators(candles)

	var currentPrice float64
	if len(candles) > 0 {
		currentPrice = candles[len(candles)-1].Close
	}

	if r.HasOpenTrade(pair) {
		r.UpdateTradeStatus(pair, currentPrice)
	}

	if triggered := r.CheckPendingTriggers(pair, currentPrice); triggered != nil {
		r.OpenTrade(triggered)
	}

	instant := r.analyzer.Analyze(pair, candles)
	if instant != nil && !r.HasOpenTrade(pair) {
		r.OpenTrade(instant)
	}

	pending := r.analyzer.FindPendingSetups(pair, candles)
	r.ReplacePendingSetups(pair, pending)

	return Analysis{
		Pair:          pair,
		Timestamp:     time.Now(),
		CurrentPrice:  currentPrice,
		Indicators:    ind,
		MarketBias:    r.analyzer.MarketBias(ind),
		InstantSignal: instant,
		PendingSetups: pending,
		ActiveTrade:   r.activeTrades[pair],
	}
}

// Statistics computes the closed-trade performance summary.
func (r *Robot) Statistics() Statistics {
	stats := Statistics{TotalTrades: len(r.tradeHistory)}
	if stats.TotalTrades == 0 {
		return stats
	}

	var winPips, lossPips float64
	for _, t := range r.tradeHistory {
		stats.TotalPnLPips += t.PnLPips
		switch t.Status {
		case StatusClosedTP:
			stats.Wins++
			winPips += t.PnLPips
		case StatusClosedSL:
			stats.Losses++
			lossPips += t.PnLPips
		}
	}

	stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades) * 100
	if stats.Wins > 0 {
		stats.AvgWinPips = winPips / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLossPips = lossPips / float64(stats.Losses)
	}
	return stats
}
