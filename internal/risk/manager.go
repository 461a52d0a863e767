package risk

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
)

// Manager handles lot sizing and trade validation against the account's
// risk parameters. It may be shared across robot workers, so all state is
// mutex-guarded.
type Manager struct {
	config        *Config
	balance       float64
	dailyPnL      float64
	dailyPnLReset time.Time
	openPositions int
	mu            sync.RWMutex
	log           zerolog.Logger
}

// Config holds risk management configuration.
type Config struct {
	RiskPercent      float64 // default percentage of balance risked per trade
	MaxRiskPercent   float64 // hard ceiling the per-trade risk is clamped to
	MinLotSize       float64
	MaxLotSize       float64
	MaxOpenPositions int
	MaxDailyLossPct  float64 // daily loss percentage before trading stops
}

// DefaultConfig returns conservative retail-account defaults.
func DefaultConfig() *Config {
	return &Config{
		RiskPercent:      1.0,
		MaxRiskPercent:   2.0,
		MinLotSize:       0.01,
		MaxLotSize:       10.0,
		MaxOpenPositions: 3,
		MaxDailyLossPct:  5.0,
	}
}

// PositionSize is the lot calculation result.
type PositionSize struct {
	Lots            float64 `json:"lots"`
	RiskAmount      float64 `json:"risk_amount"`
	RiskPercent     float64 `json:"risk_percent"`
	PipValue        float64 `json:"pip_value"`
	SLPips          float64 `json:"sl_pips"`
	TPPips          float64 `json:"tp_pips"`
	PotentialProfit float64 `json:"potential_profit"`
	PotentialLoss   float64 `json:"potential_loss"`
}

// Validation is the outcome of trade validation. Never an error: a bad
// trade comes back with Valid=false and itemized issues.
type Validation struct {
	Valid      bool     `json:"valid"`
	Issues     []string `json:"issues"`
	RiskReward float64  `json:"rr_ratio"`
}

// NewManager creates a risk manager with the given starting balance.
func NewManager(balance float64, config *Config, log zerolog.Logger) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{
		config:        config,
		balance:       balance,
		dailyPnLReset: time.Now().Truncate(24 * time.Hour),
		log:           log.With().Str("component", "risk").Logger(),
	}
}

// UpdateBalance sets the current account balance.
func (m *Manager) UpdateBalance(balance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = balance
	m.log.Info().Float64("balance", balance).Msg("account balance updated")
}

// Balance returns the current account balance.
func (m *Manager) Balance() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance
}

// PositionSizeFor calculates the lot size that risks the requested
// percentage of the balance over the stop distance. riskPercent 0 means
// the configured default; anything above the maximum is clamped.
func (m *Manager) PositionSizeFor(pair string, slPips, tpPips float64, riskPercent float64) PositionSize {
	m.mu.RLock()
	defer m.mu.RUnlock()

	riskPct := riskPercent
	if riskPct == 0 {
		riskPct = m.config.RiskPercent
	}
	if riskPct > m.config.MaxRiskPercent {
		m.log.Warn().
			Float64("requested", riskPct).
			Float64("max", m.config.MaxRiskPercent).
			Msg("risk percent clamped to maximum")
		riskPct = m.config.MaxRiskPercent
	}

	riskAmount := m.balance * riskPct / 100
	pipValue := market.PipValuePerLot(pair)

	var lots float64
	if slPips > 0 {
		lots = riskAmount / (slPips * pipValue)
	} else {
		lots = m.config.MinLotSize
	}

	lots = math.Round(lots*100) / 100
	lots = math.Max(m.config.MinLotSize, math.Min(lots, m.config.MaxLotSize))

	return PositionSize{
		Lots:            lots,
		RiskAmount:      riskAmount,
		RiskPercent:     riskPct,
		PipValue:        pipValue,
		SLPips:          slPips,
		TPPips:          tpPips,
		PotentialProfit: lots * tpPips * pipValue,
		PotentialLoss:   lots * slPips * pipValue,
	}
}

// ValidateTrade checks a proposal against the per-pair stop limits and the
// minimum risk-reward ratio.
func (m *Manager) ValidateTrade(pair string, slPips, tpPips, minRR float64) Validation {
	var issues []string

	minSL := minSLPips(pair)
	if slPips < minSL {
		issues = append(issues, fmt.Sprintf("SL too tight: %.0f pips < minimum %.0f pips", slPips, minSL))
	}

	maxSL := maxSLPips(pair)
	if slPips > maxSL {
		issues = append(issues, fmt.Sprintf("SL too wide: %.0f pips > maximum %.0f pips", slPips, maxSL))
	}

	var rr float64
	if slPips > 0 {
		rr = tpPips / slPips
		if rr < minRR {
			issues = append(issues, fmt.Sprintf("R:R ratio %.2f < minimum %.2f", rr, minRR))
		}
	}

	return Validation{
		Valid:      len(issues) == 0,
		Issues:     issues,
		RiskReward: rr,
	}
}

// minSLPips returns the tightest sensible stop for a pair, sized to typical
// spreads.
func minSLPips(pair string) float64 {
	limits := map[string]float64{
		"EURUSD": 10,
		"GBPUSD": 15,
		"USDJPY": 10,
		"XAUUSD": 50,
		"AUDUSD": 12,
		"USDCAD": 15,
	}
	if v, ok := limits[strings.ToUpper(pair)]; ok {
		return v
	}
	return 15
}

// maxSLPips returns the widest recommended stop for a pair.
func maxSLPips(pair string) float64 {
	limits := map[string]float64{
		"EURUSD": 100,
		"GBPUSD": 120,
		"USDJPY": 100,
		"XAUUSD": 300,
		"AUDUSD": 100,
		"USDCAD": 100,
	}
	if v, ok := limits[strings.ToUpper(pair)]; ok {
		return v
	}
	return 100
}

// CanOpenPosition checks the concurrent-position and daily-loss limits.
func (m *Manager) CanOpenPosition() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.openPositions >= m.config.MaxOpenPositions {
		return false, fmt.Sprintf("max positions reached (%d/%d)", m.openPositions, m.config.MaxOpenPositions)
	}

	m.checkDailyReset()
	if m.shouldStopLocked(m.dailyPnL, m.config.MaxDailyLossPct) {
		return false, fmt.Sprintf("daily loss limit reached (%.2f)", m.dailyPnL)
	}

	return true, ""
}

// MaxDailyLoss returns the loss amount at which trading stops for the day.
func (m *Manager) MaxDailyLoss(maxDailyRiskPct float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance * maxDailyRiskPct / 100
}

// ShouldStopTrading reports whether the day's PnL has breached the limit.
func (m *Manager) ShouldStopTrading(dailyPnL, maxDailyRiskPct float64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shouldStopLocked(dailyPnL, maxDailyRiskPct)
}

func (m *Manager) shouldStopLocked(dailyPnL, maxDailyRiskPct float64) bool {
	return dailyPnL <= -(m.balance * maxDailyRiskPct / 100)
}

// RegisterPositionOpen counts a newly opened position.
func (m *Manager) RegisterPositionOpen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openPositions++
}

// RegisterPositionClose counts a closed position and books its PnL against
// the daily total.
func (m *Manager) RegisterPositionClose(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openPositions--
	if m.openPositions < 0 {
		m.openPositions = 0
	}

	m.checkDailyReset()
	m.dailyPnL += pnl
}

// DailyPnL returns the accumulated PnL for the current day.
func (m *Manager) DailyPnL() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dailyPnL
}

// OpenPositionCount returns the number of tracked open positions.
func (m *Manager) OpenPositionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.openPositions
}

// checkDailyReset zeroes the daily PnL on the first touch of a new day.
// Callers hold the write lock.
func (m *Manager) checkDailyReset() {
	today := time.Now().Truncate(24 * time.Hour)
	if today.After(m.dailyPnLReset) {
		m.dailyPnL = 0
		m.dailyPnLReset = today
	}
}
