package main

import (
	"math/rand"
	"strings"
	"time"

	"forex-signal-engine/internal/market"
)

// feed produces a synthetic random-walk candle series per pair so the
// engine can run without a broker connection.
type feed struct {
	rng     *rand.Rand
	candles map[string][]market.Candle
	step    time.Duration
}

func basePrice(pair string) float64 {
	switch {
	case strings.Contains(pair, "XAU"):
		return 2000.0
	case strings.Contains(pair, "JPY"):
		return 150.00
	default:
		return 1.1000
	}
}

func newFeed(pairs []string, history int, seed int64) *feed {
	f := &feed{
		rng:     rand.New(rand.NewSource(seed)),
		candles: make(map[string][]market.Candle, len(pairs)),
		step:    time.Hour,
	}
	start := time.Now().Add(-time.Duration(history) * f.step)
	for _, pair := range pairs {
		price := basePrice(pair)
		series := make([]market.Candle, 0, history)
		for i := 0; i < history; i++ {
			c, next := f.nextCandle(pair, price, start.Add(time.Duration(i)*f.step))
			series = append(series, c)
			price = next
		}
		f.candles[pair] = series
	}
	return f
}

// nextCandle walks the price by up to ~8 pips with realistic wicks.
func (f *feed) nextCandle(pair string, open float64, at time.Time) (market.Candle, float64) {
	pip := market.PipSize(pair)
	move := (f.rng.Float64()*16 - 8) * pip
	wick := f.rng.Float64() * 4 * pip

	close := open + move
	high := open
	if close > high {
		high = close
	}
	low := open
	if close < low {
		low = close
	}

	c := market.Candle{
		Open:  open,
		High:  high + wick,
		Low:   low - wick,
		Close: close,
		Time:  at,
	}
	return c, close
}

// Advance appends one fresh candle per pair.
func (f *feed) Advance() {
	for pair, series := range f.candles {
		last := series[len(series)-1]
		c, _ := f.nextCandle(pair, last.Close, last.Time.Add(f.step))
		f.candles[pair] = append(series, c)
	}
}

// Data returns the current series per pair.
func (f *feed) Data() map[string][]market.Candle {
	return f.candles
}

// Price returns the latest close for a pair.
func (f *feed) Price(pair string) float64 {
	series := f.candles[pair]
	return series[len(series)-1].Close
}
