package market

// Direction is the side of a trade.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// IsBuy reports whether the direction is long.
func (d Direction) IsBuy() bool {
	return d == Buy
}

// Opposite returns the other trade side.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}
