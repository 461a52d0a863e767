package indicators

// SupportResistance returns the simple recent-extreme support and resistance
// over the trailing lookback window.
func SupportResistance(highs, lows []float64, lookback int) (support, resistance float64) {
	n := len(highs)
	if n == 0 || len(lows) != n {
		return 0, 0
	}
	if lookback <= 0 || lookback > n {
		lookback = n
	}
	resistance = highs[n-lookback]
	support = lows[n-lookback]
	for i := n - lookback; i < n; i++ {
		if highs[i] > resistance {
			resistance = highs[i]
		}
		if lows[i] < support {
			support = lows[i]
		}
	}
	return support, resistance
}

// SupportLevels collects swing-low prices within the trailing lookback
// window, most recent first. A swing low must undercut strength neighbors on
// both sides.
func SupportLevels(lows []float64, strength, lookback int) []float64 {
	return swingLevels(lows, strength, lookback, func(v, other float64) bool {
		return v < other
	})
}

// ResistanceLevels collects swing-high prices within the trailing lookback
// window, most recent first.
func ResistanceLevels(highs []float64, strength, lookback int) []float64 {
	return swingLevels(highs, strength, lookback, func(v, other float64) bool {
		return v > other
	})
}

func swingLevels(data []float64, strength, lookback int, beats func(v, other float64) bool) []float64 {
	n := len(data)
	if strength <= 0 || n < strength*2+1 {
		return nil
	}
	start := n - lookback
	if lookback <= 0 || start < strength {
		start = strength
	}

	var levels []float64
	for i := n - strength - 1; i >= start; i-- {
		isSwing := true
		for j := 1; j <= strength; j++ {
			if !beats(data[i], data[i-j]) || !beats(data[i], data[i+j]) {
				isSwing = false
				break
			}
		}
		if isSwing {
			levels = append(levels, data[i])
		}
	}
	return levels
}
