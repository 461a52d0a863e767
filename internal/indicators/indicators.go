package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// All functions return values of defined length even with insufficient
// history. Oscillators pad with their neutral value (RSI and Stochastic use
// 50) so the signal layer stays total.

const neutralOscillator = 50.0

// RSI calculates the Relative Strength Index using Wilder's smoothing.
// The returned slice has the same length as closes; entries before the
// first full period hold the neutral value 50.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = neutralOscillator
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// TrueRanges computes the True Range series. The first entry uses the plain
// high-low range since there is no previous close.
func TrueRanges(high, low, close []float64) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n {
		return nil
	}
	tr := make([]float64, n)
	tr[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// ATR calculates the Average True Range over the trailing period.
// Returns 0 when fewer than period+1 candles are available.
func ATR(high, low, close []float64, period int) float64 {
	if period <= 0 || len(close) < period+1 {
		return 0
	}
	tr := TrueRanges(high, low, close)
	return stat.Mean(tr[len(tr)-period:], nil)
}

// ATRSeries computes the rolling trailing-mean ATR for every index with a
// full window; earlier entries are 0.
func ATRSeries(high, low, close []float64, period int) []float64 {
	out := make([]float64, len(close))
	if period <= 0 || len(close) < period+1 {
		return out
	}
	tr := TrueRanges(high, low, close)
	for i := period; i < len(tr); i++ {
		out[i] = stat.Mean(tr[i-period+1:i+1], nil)
	}
	return out
}

// Stochastic calculates the Stochastic Oscillator. %K is the raw rolling
// value smoothed by an SMA of length smooth; %D is the SMA of %K over
// dPeriod. Both slices match the input length, padded with 50 before the
// first full window.
func Stochastic(high, low, close []float64, kPeriod, dPeriod, smooth int) (k, d []float64) {
	n := len(close)
	k = make([]float64, n)
	d = make([]float64, n)
	for i := range k {
		k[i] = neutralOscillator
		d[i] = neutralOscillator
	}
	if kPeriod <= 0 || n < kPeriod {
		return k, d
	}

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = neutralOscillator
	}
	for i := kPeriod - 1; i < n; i++ {
		hh, ll := high[i], low[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		if hh == ll {
			raw[i] = neutralOscillator
		} else {
			raw[i] = (close[i] - ll) / (hh - ll) * 100
		}
	}

	if smooth > 1 {
		for i := kPeriod - 1; i < n; i++ {
			w := smooth
			if i-w+1 < 0 {
				w = i + 1
			}
			k[i] = stat.Mean(raw[i-w+1:i+1], nil)
		}
	} else {
		copy(k, raw)
	}

	if dPeriod <= 1 {
		copy(d, k)
		return k, d
	}
	for i := kPeriod - 1; i < n; i++ {
		w := dPeriod
		if i-w+1 < 0 {
			w = i + 1
		}
		d[i] = stat.Mean(k[i-w+1:i+1], nil)
	}

	return k, d
}

// SMA calculates the trailing simple moving average. Entries before a full
// window average whatever history exists.
func SMA(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if period <= 0 {
		copy(out, data)
		return out
	}
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
			out[i] = sum / float64(period)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// EMA calculates the exponential moving average, seeded with the SMA of the
// first period values. Entries before the seed mirror the input.
func EMA(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if period <= 0 || len(data) < period {
		copy(out, data)
		return out
	}
	copy(out[:period-1], data[:period-1])
	out[period-1] = stat.Mean(data[:period], nil)
	mult := 2.0 / float64(period+1)
	for i := period; i < len(data); i++ {
		out[i] = (data[i]-out[i-1])*mult + out[i-1]
	}
	return out
}

// Bands holds Bollinger Band levels computed over the tail window.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerBands calculates Bollinger Bands over the trailing period.
// Returns zero bands when history is too short.
func BollingerBands(closes []float64, period int, mult float64) Bands {
	if period <= 0 || len(closes) < period {
		return Bands{}
	}
	window := closes[len(closes)-period:]
	mean := stat.Mean(window, nil)
	sd := stat.StdDev(window, nil)
	return Bands{
		Upper:  mean + sd*mult,
		Middle: mean,
		Lower:  mean - sd*mult,
	}
}

// MACD calculates the MACD line, signal line and histogram as full series.
// The signal line is a true EMA of the MACD line.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	n := len(closes)
	line = make([]float64, n)
	sig = make([]float64, n)
	hist = make([]float64, n)
	if n < slow {
		return line, sig, hist
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	for i := 0; i < n; i++ {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig = EMA(line, signal)
	for i := 0; i < n; i++ {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}
