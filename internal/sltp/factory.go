package sltp

import (
	"fmt"

	"forex-signal-engine/internal/stoploss"
	"forex-signal-engine/internal/takeprofit"
)

// Params carries the tunables a strategy constructor may use. Zero values
// mean "use the strategy default"; negative or otherwise out-of-range
// values are rejected at construction.
type Params struct {
	Pips          float64 // fixed_pips distance
	Percent       float64 // percentage distance, 2.0 = 2%
	Ratio         float64 // risk_reward multiple
	ATRPeriod     int
	ATRMultiplier float64
}

const (
	defaultSLPips = 30.0
	defaultTPPips = 50.0
	defaultSLPct  = 1.0
	defaultTPPct  = 2.0
)

func (p Params) validate() error {
	if p.Pips < 0 {
		return fmt.Errorf("pips must be positive, got %v", p.Pips)
	}
	if p.Percent < 0 || p.Percent >= 100 {
		return fmt.Errorf("percent must be in (0, 100), got %v", p.Percent)
	}
	if p.Ratio < 0 {
		return fmt.Errorf("ratio must be positive, got %v", p.Ratio)
	}
	if p.ATRPeriod < 0 {
		return fmt.Errorf("atr period must be positive, got %d", p.ATRPeriod)
	}
	if p.ATRMultiplier < 0 {
		return fmt.Errorf("atr multiplier must be positive, got %v", p.ATRMultiplier)
	}
	return nil
}

// NewSLStrategy builds a stop-loss strategy from its catalog kind. Unknown
// kinds and out-of-range params fail here, not at calculation time.
func NewSLStrategy(kind SLKind, p Params, pipSize float64) (stoploss.Strategy, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("sl strategy %q: %w", kind, err)
	}

	switch kind {
	case SLATR:
		s := stoploss.NewATRSL()
		if p.ATRPeriod > 0 {
			s.Period = p.ATRPeriod
		}
		if p.ATRMultiplier > 0 {
			s.Multiplier = p.ATRMultiplier
		}
		return s, nil
	case SLFixedPips:
		pips := p.Pips
		if pips == 0 {
			pips = defaultSLPips
		}
		return stoploss.NewFixedPipsSL(pips, pipSize), nil
	case SLPercentage:
		pct := p.Percent
		if pct == 0 {
			pct = defaultSLPct
		}
		return stoploss.NewPercentageSL(pct), nil
	case SLSwing:
		return stoploss.NewSwingPointSL(pipSize), nil
	case SLSupportResistance:
		return stoploss.NewSupportResistanceSL(pipSize), nil
	case SLPinBar:
		return stoploss.NewPinBarSL(pipSize), nil
	default:
		return nil, fmt.Errorf("unknown sl strategy kind %q", kind)
	}
}

// NewTPStrategy builds a take-profit strategy from its catalog kind.
func NewTPStrategy(kind TPKind, p Params, pipSize float64) (takeprofit.Strategy, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("tp strategy %q: %w", kind, err)
	}

	switch kind {
	case TPRiskReward:
		ratio := p.Ratio
		if ratio == 0 {
			ratio = takeprofit.RatioAggressive
		}
		return takeprofit.NewRiskRewardTP(ratio, pipSize), nil
	case TPATR:
		s := takeprofit.NewATRTP(pipSize)
		if p.ATRPeriod > 0 {
			s.Period = p.ATRPeriod
		}
		if p.ATRMultiplier > 0 {
			s.Multiplier = p.ATRMultiplier
		}
		return s, nil
	case TPFixedPips:
		pips := p.Pips
		if pips == 0 {
			pips = defaultTPPips
		}
		return takeprofit.NewFixedPipsTP(pips, pipSize), nil
	case TPPercentage:
		pct := p.Percent
		if pct == 0 {
			pct = defaultTPPct
		}
		return takeprofit.NewPercentageTP(pct, pipSize), nil
	case TPSwing:
		return takeprofit.NewSwingTP(pipSize), nil
	case TPSupportResistance:
		return takeprofit.NewSupportResistanceTP(pipSize), nil
	case TPMultiTarget:
		return takeprofit.NewMultiTargetTP(pipSize), nil
	default:
		return nil, fmt.Errorf("unknown tp strategy kind %q", kind)
	}
}
