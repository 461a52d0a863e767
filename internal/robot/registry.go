package robot

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
)

// Factory builds a robot for a set of pairs with default strategy config.
type Factory func(pairs []string, timeframe string, log zerolog.Logger) *Robot

// registration describes one selectable robot type.
type registration struct {
	Name        string
	Description string
	Premium     bool
	Build       Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registration{}
)

// Register adds a robot type to the catalog. Later registrations with the
// same name replace earlier ones.
func Register(name, description string, premium bool, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = registration{Name: name, Description: description, Premium: premium, Build: f}
}

func init() {
	Register("RSI Robot", "RSI oversold/overbought zone exits", false,
		func(pairs []string, timeframe string, log zerolog.Logger) *Robot {
			return NewRSIRobot(pairs, timeframe, RSIConfig{}, log)
		})
	Register("Stochastic Robot", "stochastic %K/%D crossovers in the extreme zones", false,
		func(pairs []string, timeframe string, log zerolog.Logger) *Robot {
			return NewStochasticRobot(pairs, timeframe, StochasticConfig{}, log)
		})
	Register("Stochastic Divergence Robot", "stochastic with price/oscillator divergence detection", true,
		func(pairs []string, timeframe string, log zerolog.Logger) *Robot {
			return NewStochasticDivergenceRobot(pairs, timeframe, StochasticConfig{}, log)
		})
}

// RobotInfo is the catalog view of a registered robot type.
type RobotInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Premium     bool   `json:"premium"`
}

// Catalog lists the registered robot types sorted by name.
func Catalog() []RobotInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]RobotInfo, 0, len(registry))
	for _, r := range registry {
		out = append(out, RobotInfo{Name: r.Name, Description: r.Description, Premium: r.Premium})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Subscription is a user's plan, gating access to premium robot types.
type Subscription struct {
	Plan string
}

// IsPremium reports whether the plan unlocks premium features.
func (s Subscription) IsPremium() bool { return s.Plan == "premium" }

// CanUseRobot reports whether the plan allows the robot type.
func (s Subscription) CanUseRobot(name string) bool {
	registryMu.RLock()
	r, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return false
	}
	return !r.Premium || s.IsPremium()
}

// Instance is one created robot owned by a manager.
type Instance struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Robot *Robot `json:"-"`
}

// Manager owns a user's robot instances and enforces the subscription's
// premium gates at creation time.
type Manager struct {
	userID string
	sub    Subscription

	mu     sync.Mutex
	robots map[string]*Instance

	log zerolog.Logger
}

// NewManager creates a per-user robot manager.
func NewManager(userID string, sub Subscription, log zerolog.Logger) *Manager {
	return &Manager{
		userID: userID,
		sub:    sub,
		robots: make(map[string]*Instance),
		log:    log.With().Str("component", "robot-manager").Str("user", userID).Logger(),
	}
}

// CreateRobot instantiates a registered robot type for the user. Premium
// types on a free plan are rejected with an error.
func (m *Manager) CreateRobot(typeName string, pairs []string, timeframe string) (*Instance, error) {
	registryMu.RLock()
	reg, ok := registry[typeName]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown robot type %q", typeName)
	}
	if reg.Premium && !m.sub.IsPremium() {
		return nil, fmt.Errorf("robot type %q requires a premium subscription", typeName)
	}

	inst := &Instance{
		ID:    uuid.NewString(),
		Type:  typeName,
		Robot: reg.Build(pairs, timeframe, m.log),
	}

	m.mu.Lock()
	m.robots[inst.ID] = inst
	m.mu.Unlock()

	m.log.Info().Str("type", typeName).Str("id", inst.ID).Strs("pairs", pairs).Msg("robot created")
	return inst, nil
}

// Robot returns the instance with the given id.
func (m *Manager) Robot(id string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.robots[id]
	return inst, ok
}

// DeleteRobot removes the instance with the given id.
func (m *Manager) DeleteRobot(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.robots[id]; !ok {
		return false
	}
	delete(m.robots, id)
	m.log.Info().Str("id", id).Msg("robot deleted")
	return true
}

// List returns the user's robot instances sorted by id.
func (m *Manager) List() []*Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Instance, 0, len(m.robots))
	for _, inst := range m.robots {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GenerateAllSignals runs a full analysis cycle on every robot for every
// pair it trades that has candle data, and collects the instant signals.
func (m *Manager) GenerateAllSignals(data map[string][]market.Candle) []Signal {
	m.mu.Lock()
	instances := make([]*Instance, 0, len(m.robots))
	for _, inst := range m.robots {
		instances = append(instances, inst)
	}
	m.mu.Unlock()
	sort.Slice(instances, func(i, j int) bool { return instances[i].ID < instances[j].ID })

	var signals []Signal
	for _, inst := range instances {
		for _, pair := range inst.Robot.Pairs {
			candles, ok := data[pair]
			if !ok {
				continue
			}
			analysis := inst.Robot.FullAnalysis(pair, candles)
			if analysis.InstantSignal != nil {
				signals = append(signals, *analysis.InstantSignal)
			}
		}
	}
	return signals
}
