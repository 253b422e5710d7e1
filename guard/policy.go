package guard

// Policy is the static safety configuration consulted before any order is
// submitted.
type Policy struct {
	TradingEnabled bool

	// Per-trade size caps, zero disables the cap.
	MaxBasePerTrade    float64
	MaxCounterPerTrade float64

	// MinBasePerTrade rejects dust buys the venue would round away.
	MinBasePerTrade float64
}
