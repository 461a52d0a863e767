package sltp

import (
	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/stoploss"
	"forex-signal-engine/internal/takeprofit"
)

// SLTPResult bundles the stop and target for one entry.
type SLTPResult struct {
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	SLPips       float64 `json:"sl_pips"`
	TPPips       float64 `json:"tp_pips"`
	RiskReward   float64 `json:"risk_reward"`
	StrategyUsed string  `json:"strategy_used"`
	FallbackUsed bool    `json:"fallback_used"`
}

// Manager pairs a selected stop-loss strategy with a take-profit strategy
// and guarantees a usable result through the composite fallback chains.
// Premium strategy kinds are substituted with the free defaults for
// non-premium accounts; the substitution is reported, never an error.
type Manager struct {
	pair      string
	pipSize   float64
	isPremium bool

	slKind SLKind
	tpKind TPKind
	sl     *stoploss.Composite
	tp     *takeprofit.Composite

	log zerolog.Logger
}

// NewManager creates a manager with the default composite chains for the
// pair. isPremium unlocks the premium strategy kinds.
func NewManager(pair string, isPremium bool, log zerolog.Logger) *Manager {
	pipSize := market.PipSize(pair)
	m := &Manager{
		pair:      pair,
		pipSize:   pipSize,
		isPremium: isPremium,
		sl:        stoploss.NewComposite(pipSize),
		tp:        takeprofit.NewComposite(pipSize),
		log:       log.With().Str("component", "sltp").Str("pair", pair).Logger(),
	}
	m.slKind = DefaultSLKind
	m.tpKind = DefaultTPKind
	return m
}

// SLKind returns the currently selected stop-loss kind.
func (m *Manager) SLKind() SLKind { return m.slKind }

// TPKind returns the currently selected take-profit kind.
func (m *Manager) TPKind() TPKind { return m.tpKind }

// SetSLStrategy selects the stop-loss strategy. A non-premium account
// requesting a premium kind gets the default instead and downgraded=true.
func (m *Manager) SetSLStrategy(kind SLKind, p Params) (downgraded bool, err error) {
	requested := kind
	if SLIsPremium(kind) && !m.isPremium {
		kind = DefaultSLKind
		p = Params{}
		downgraded = true
	}

	s, err := NewSLStrategy(kind, p, m.pipSize)
	if err != nil {
		return false, err
	}

	if downgraded {
		m.log.Info().
			Str("requested", string(requested)).
			Str("using", string(kind)).
			Msg("premium sl strategy downgraded to default")
	}

	m.slKind = kind
	m.sl.Strategies = []stoploss.Strategy{s}
	return downgraded, nil
}

// SetTPStrategy selects the take-profit strategy, with the same premium
// substitution rule as SetSLStrategy.
func (m *Manager) SetTPStrategy(kind TPKind, p Params) (downgraded bool, err error) {
	requested := kind
	if TPIsPremium(kind) && !m.isPremium {
		kind = DefaultTPKind
		p = Params{}
		downgraded = true
	}

	s, err := NewTPStrategy(kind, p, m.pipSize)
	if err != nil {
		return false, err
	}

	if downgraded {
		m.log.Info().
			Str("requested", string(requested)).
			Str("using", string(kind)).
			Msg("premium tp strategy downgraded to default")
	}

	m.tpKind = kind
	m.tp.Strategies = []takeprofit.Strategy{s}
	return downgraded, nil
}

// Calculate produces the stop and target for an entry. The composites make
// it total: it always returns a result, flagging fallback use.
func (m *Manager) Calculate(entry float64, dir market.Direction, candles []market.Candle, support, resistance []float64) SLTPResult {
	slRes := m.sl.Calculate(candles, dir, entry)

	ctx := takeprofit.Context{
		Candles:          candles,
		SupportLevels:    support,
		ResistanceLevels: resistance,
	}
	tpRes := m.tp.Calculate(entry, slRes.Price, dir, ctx)

	slPips := market.PriceToPips(m.pair, entry-slRes.Price)
	tpPips := market.PriceToPips(m.pair, tpRes.Price-entry)

	res := SLTPResult{
		StopLoss:     slRes.Price,
		TakeProfit:   tpRes.Price,
		SLPips:       slPips,
		TPPips:       tpPips,
		RiskReward:   takeprofit.RiskReward(entry, slRes.Price, tpRes.Price),
		StrategyUsed: slRes.Method + " / " + tpRes.Method,
		FallbackUsed: slRes.FallbackUsed,
	}

	m.log.Debug().
		Str("direction", string(dir)).
		Float64("entry", entry).
		Float64("sl", res.StopLoss).
		Float64("tp", res.TakeProfit).
		Float64("rr", res.RiskReward).
		Bool("fallback", res.FallbackUsed).
		Msg("sl/tp calculated")

	return res
}
