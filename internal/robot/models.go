package robot

import (
	"time"

	"forex-signal-engine/internal/market"
)

// SignalType separates immediately tradeable signals from price-conditional
// ones.
type SignalType string

const (
	SignalInstant SignalType = "instant"
	SignalPending SignalType = "pending"
)

// TradeStatus is the lifecycle state of a trade.
type TradeStatus string

const (
	StatusOpen         TradeStatus = "open"
	StatusClosedTP     TradeStatus = "closed_tp"
	StatusClosedSL     TradeStatus = "closed_sl"
	StatusClosedManual TradeStatus = "closed_manual"
)

// Signal is a complete trade proposal emitted by an analyzer.
type Signal struct {
	Pair         string           `json:"pair"`
	Direction    market.Direction `json:"direction"`
	Type         SignalType       `json:"signal_type"`
	EntryPrice   float64          `json:"entry_price"`
	TPPrice      float64          `json:"tp_price"`
	SLPrice      float64          `json:"sl_price"`
	TriggerPrice float64          `json:"trigger_price,omitempty"`
	Reason       string           `json:"reason"`
	Probability  int              `json:"probability"` // 0-100
	Timestamp    time.Time        `json:"timestamp"`
}

// TriggerCondition is the direction a price must cross to arm a pending
// setup.
type TriggerCondition string

const (
	PriceAbove TriggerCondition = "price_above"
	PriceBelow TriggerCondition = "price_below"
)

// PendingSetup is a trade proposal waiting for price to reach a trigger
// level. It lives until triggered or until the next analysis cycle replaces
// the pair's list.
type PendingSetup struct {
	Pair         string           `json:"pair"`
	Direction    market.Direction `json:"direction"`
	TriggerPrice float64          `json:"trigger_price"`
	EntryPrice   float64          `json:"entry_price"`
	TPPrice      float64          `json:"tp_price"`
	SLPrice      float64          `json:"sl_price"`
	Condition    TriggerCondition `json:"condition"`
	Reason       string           `json:"reason"`
	Probability  int              `json:"probability"`
	CreatedAt    time.Time        `json:"created_at"`
}

// IsTriggered reports whether the current price satisfies the setup's
// trigger condition.
func (p *PendingSetup) IsTriggered(currentPrice float64) bool {
	switch p.Condition {
	case PriceAbove:
		return currentPrice >= p.TriggerPrice
	case PriceBelow:
		return currentPrice <= p.TriggerPrice
	}
	return false
}

// Trade is an open or closed position tracked by a robot.
type Trade struct {
	ID           string           `json:"id"`
	Pair         string           `json:"pair"`
	Direction    market.Direction `json:"direction"`
	EntryPrice   float64          `json:"entry_price"`
	CurrentPrice float64          `json:"current_price"`
	TPPrice      float64          `json:"tp_price"`
	SLPrice      float64          `json:"sl_price"`
	Status       TradeStatus      `json:"status"`
	PnLPips      float64          `json:"pnl_pips"`
	OpenTime     time.Time        `json:"open_time"`
	CloseTime    time.Time        `json:"close_time,omitempty"`
}

// IsInProfit reports whether the trade currently shows a positive pip PnL.
func (t *Trade) IsInProfit() bool { return t.PnLPips > 0 }

// TPDistancePips returns the signed pip distance left to the target.
func (t *Trade) TPDistancePips() float64 {
	pip := market.PipSize(t.Pair)
	if t.Direction.IsBuy() {
		return (t.TPPrice - t.CurrentPrice) / pip
	}
	return (t.CurrentPrice - t.TPPrice) / pip
}

// SLDistancePips returns the signed pip distance left to the stop.
func (t *Trade) SLDistancePips() float64 {
	pip := market.PipSize(t.Pair)
	if t.Direction.IsBuy() {
		return (t.CurrentPrice - t.SLPrice) / pip
	}
	return (t.SLPrice - t.CurrentPrice) / pip
}

// Bias is the analyzer's read of the overall market direction.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

// Indicators is a flat snapshot of the values an analyzer computed for one
// cycle, keyed by name for serialization and caching.
type Indicators map[string]float64

// Analysis is the full per-cycle result for one pair.
type Analysis struct {
	Pair          string         `json:"pair"`
	Timestamp     time.Time      `json:"timestamp"`
	CurrentPrice  float64        `json:"current_price"`
	Indicators    Indicators     `json:"indicators"`
	MarketBias    Bias           `json:"market_bias"`
	InstantSignal *Signal        `json:"instant_signal,omitempty"`
	PendingSetups []PendingSetup `json:"pending_setups"`
	ActiveTrade   *Trade         `json:"active_trade,omitempty"`
}

// Statistics summarizes a robot's closed-trade performance.
type Statistics struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	TotalPnLPips float64 `json:"total_pnl_pips"`
	AvgWinPips   float64 `json:"avg_win_pips"`
	AvgLossPips  float64 `json:"avg_loss_pips"`
}
