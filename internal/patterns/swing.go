package patterns

import "forex-signal-engine/internal/market"

// SwingPoint is a confirmed local price extremum.
type SwingPoint struct {
	Price       float64
	CandleIndex int
	IsHigh      bool
}

// FindSwingLow scans backward within the lookback window for the most recent
// candle whose low undercuts strength neighbors on both sides. Returns nil
// when fewer than 2*strength+1 candles exist or no swing is found.
func FindSwingLow(candles []market.Candle, strength, lookback int) *SwingPoint {
	return findSwing(candles, strength, lookback, false)
}

// FindSwingHigh is the mirror of FindSwingLow for local highs.
func FindSwingHigh(candles []market.Candle, strength, lookback int) *SwingPoint {
	return findSwing(candles, strength, lookback, true)
}

func findSwing(candles []market.Candle, strength, lookback int, wantHigh bool) *SwingPoint {
	n := len(candles)
	if strength <= 0 || n < strength*2+1 {
		return nil
	}

	start := n - lookback
	if lookback <= 0 || start < strength {
		start = strength
	}

	for i := n - strength - 1; i >= start; i-- {
		if isSwingAt(candles, i, strength, wantHigh) {
			price := candles[i].Low
			if wantHigh {
				price = candles[i].High
			}
			return &SwingPoint{Price: price, CandleIndex: i, IsHigh: wantHigh}
		}
	}
	return nil
}

func isSwingAt(candles []market.Candle, i, strength int, wantHigh bool) bool {
	for j := 1; j <= strength; j++ {
		if wantHigh {
			if candles[i].High <= candles[i-j].High || candles[i].High <= candles[i+j].High {
				return false
			}
		} else {
			if candles[i].Low >= candles[i-j].Low || candles[i].Low >= candles[i+j].Low {
				return false
			}
		}
	}
	return true
}
