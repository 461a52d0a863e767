package market

import "strings"

// PipSize returns the price increment of one pip for a pair.
// JPY-quoted pairs move in 0.01 steps, everything else in 0.0001.
func PipSize(pair string) float64 {
	if strings.Contains(strings.ToUpper(pair), "JPY") {
		return 0.01
	}
	return 0.0001
}

// PriceToPips converts a price distance to pips for a pair.
func PriceToPips(pair string, distance float64) float64 {
	if distance < 0 {
		distance = -distance
	}
	return distance / PipSize(pair)
}

// PipsToPrice converts a pip count to a price distance for a pair.
func PipsToPrice(pair string, pips float64) float64 {
	return pips * PipSize(pair)
}

// pipValuePerLot holds approximate USD pip values per standard lot.
var pipValuePerLot = map[string]float64{
	"EURUSD": 10.0,
	"GBPUSD": 10.0,
	"AUDUSD": 10.0,
	"NZDUSD": 10.0,
	"USDJPY": 9.1,
	"USDCHF": 10.0,
	"USDCAD": 7.5,
	"XAUUSD": 1.0,
}

// PipValuePerLot returns the account-currency value of one pip per standard
// lot. Unknown pairs use the major-pair default of 10.0.
func PipValuePerLot(pair string) float64 {
	if v, ok := pipValuePerLot[strings.ToUpper(pair)]; ok {
		return v
	}
	return 10.0
}
