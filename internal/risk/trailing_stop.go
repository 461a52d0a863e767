package risk

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"forex-signal-engine/internal/market"
)

// TrailingStopManager ratchets stop losses behind the price's water marks.
// Positions are keyed by pair. Safe for concurrent use.
type TrailingStopManager struct {
	positions map[string]*TrailingPosition
	config    *TrailingConfig
	mu        sync.RWMutex
	log       zerolog.Logger
}

// TrailingConfig holds trailing stop configuration. Distances are in pips
// and converted per pair.
type TrailingConfig struct {
	Enabled        bool
	ActivationPips float64 // profit in pips before trailing starts
	TrailPips      float64 // stop distance behind the water mark
}

// DefaultTrailingConfig activates at 20 pips profit and trails by 15.
func DefaultTrailingConfig() *TrailingConfig {
	return &TrailingConfig{
		Enabled:        true,
		ActivationPips: 20,
		TrailPips:      15,
	}
}

// TrailingPosition tracks one position's stop state.
type TrailingPosition struct {
	Pair             string
	Direction        market.Direction
	EntryPrice       float64
	CurrentStopLoss  float64
	OriginalStopLoss float64
	HighWaterMark    float64 // highest price since entry, for longs
	LowWaterMark     float64 // lowest price since entry, for shorts
	IsActivated      bool
	LastUpdate       time.Time
}

// StopUpdate reports a stop move or a stop hit.
type StopUpdate struct {
	Pair         string
	OldStopLoss  float64
	NewStopLoss  float64
	IsTriggered  bool
	TriggerPrice float64
}

// NewTrailingStopManager creates the manager.
func NewTrailingStopManager(config *TrailingConfig, log zerolog.Logger) *TrailingStopManager {
	if config == nil {
		config = DefaultTrailingConfig()
	}
	return &TrailingStopManager{
		positions: make(map[string]*TrailingPosition),
		config:    config,
		log:       log.With().Str("component", "trailing-stop").Logger(),
	}
}

// AddPosition starts tracking a position.
func (tsm *TrailingStopManager) AddPosition(pair string, dir market.Direction, entryPrice, stopLoss float64) {
	tsm.mu.Lock()
	defer tsm.mu.Unlock()

	tsm.positions[pair] = &TrailingPosition{
		Pair:             pair,
		Direction:        dir,
		EntryPrice:       entryPrice,
		CurrentStopLoss:  stopLoss,
		OriginalStopLoss: stopLoss,
		HighWaterMark:    entryPrice,
		LowWaterMark:     entryPrice,
		LastUpdate:       time.Now(),
	}

	tsm.log.Info().
		Str("pair", pair).
		Str("direction", string(dir)).
		Float64("entry", entryPrice).
		Float64("sl", stopLoss).
		Msg("trailing position added")
}

// RemovePosition stops tracking a pair.
func (tsm *TrailingStopManager) RemovePosition(pair string) {
	tsm.mu.Lock()
	defer tsm.mu.Unlock()
	delete(tsm.positions, pair)
}

// UpdatePrice feeds a new price and returns a stop update when the stop
// moved or was hit, nil otherwise.
func (tsm *TrailingStopManager) UpdatePrice(pair string, currentPrice float64) *StopUpdate {
	tsm.mu.Lock()
	defer tsm.mu.Unlock()

	pos, exists := tsm.positions[pair]
	if !exists {
		return nil
	}

	var update *StopUpdate
	if pos.Direction.IsBuy() {
		update = tsm.updateLong(pos, currentPrice)
	} else {
		update = tsm.updateShort(pos, currentPrice)
	}

	pos.LastUpdate = time.Now()
	return update
}

func (tsm *TrailingStopManager) updateLong(pos *TrailingPosition, currentPrice float64) *StopUpdate {
	if currentPrice <= pos.CurrentStopLoss {
		return &StopUpdate{
			Pair:         pos.Pair,
			OldStopLoss:  pos.CurrentStopLoss,
			NewStopLoss:  pos.CurrentStopLoss,
			IsTriggered:  true,
			TriggerPrice: currentPrice,
		}
	}

	if currentPrice > pos.HighWaterMark {
		pos.HighWaterMark = currentPrice
	}

	pip := market.PipSize(pos.Pair)
	profitPips := (currentPrice - pos.EntryPrice) / pip
	if !pos.IsActivated && profitPips >= tsm.config.ActivationPips {
		pos.IsActivated = true
		tsm.log.Info().Str("pair", pos.Pair).Float64("profit_pips", profitPips).Msg("trailing stop activated")
	}

	if pos.IsActivated && tsm.config.Enabled {
		newStopLoss := pos.HighWaterMark - tsm.config.TrailPips*pip

		// The stop only moves up, never back down.
		if newStopLoss > pos.CurrentStopLoss {
			oldStop := pos.CurrentStopLoss
			pos.CurrentStopLoss = newStopLoss

			tsm.log.Info().
				Str("pair", pos.Pair).
				Float64("old_sl", oldStop).
				Float64("new_sl", newStopLoss).
				Float64("hwm", pos.HighWaterMark).
				Msg("stop ratcheted up")

			return &StopUpdate{
				Pair:        pos.Pair,
				OldStopLoss: oldStop,
				NewStopLoss: newStopLoss,
			}
		}
	}

	return nil
}

func (tsm *TrailingStopManager) updateShort(pos *TrailingPosition, currentPrice float64) *StopUpdate {
	if currentPrice >= pos.CurrentStopLoss {
		return &StopUpdate{
			Pair:         pos.Pair,
			OldStopLoss:  pos.CurrentStopLoss,
			NewStopLoss:  pos.CurrentStopLoss,
			IsTriggered:  true,
			TriggerPrice: currentPrice,
		}
	}

	if currentPrice < pos.LowWaterMark {
		pos.LowWaterMark = currentPrice
	}

	pip := market.PipSize(pos.Pair)
	profitPips := (pos.EntryPrice - currentPrice) / pip
	if !pos.IsActivated && profitPips >= tsm.config.ActivationPips {
		pos.IsActivated = true
		tsm.log.Info().Str("pair", pos.Pair).Float64("profit_pips", profitPips).Msg("trailing stop activated")
	}

	if pos.IsActivated && tsm.config.Enabled {
		newStopLoss := pos.LowWaterMark + tsm.config.TrailPips*pip

		// The stop only moves down for shorts.
		if newStopLoss < pos.CurrentStopLoss {
			oldStop := pos.CurrentStopLoss
			pos.CurrentStopLoss = newStopLoss

			tsm.log.Info().
				Str("pair", pos.Pair).
				Float64("old_sl", oldStop).
				Float64("new_sl", newStopLoss).
				Float64("lwm", pos.LowWaterMark).
				Msg("stop ratcheted down")

			return &StopUpdate{
				Pair:        pos.Pair,
				OldStopLoss: oldStop,
				NewStopLoss: newStopLoss,
			}
		}
	}

	return nil
}

// Position returns a copy of a pair's trailing state.
func (tsm *TrailingStopManager) Position(pair string) *TrailingPosition {
	tsm.mu.RLock()
	defer tsm.mu.RUnlock()

	pos, exists := tsm.positions[pair]
	if !exists {
		return nil
	}
	copied := *pos
	return &copied
}

// AllPositions returns copies of every tracked position.
func (tsm *TrailingStopManager) AllPositions() []*TrailingPosition {
	tsm.mu.RLock()
	defer tsm.mu.RUnlock()

	out := make([]*TrailingPosition, 0, len(tsm.positions))
	for _, pos := range tsm.positions {
		copied := *pos
		out = append(out, &copied)
	}
	return out
}

// CurrentStopLoss returns the active stop for a pair.
func (tsm *TrailingStopManager) CurrentStopLoss(pair string) (float64, bool) {
	tsm.mu.RLock()
	defer tsm.mu.RUnlock()

	if pos, exists := tsm.positions[pair]; exists {
		return pos.CurrentStopLoss, true
	}
	return 0, false
}
