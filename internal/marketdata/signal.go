package marketdata

// SignalType is the trading action a strategy recommends for one bar.
type SignalType int

const (
	SignalBuy SignalType = iota
	SignalSell
	SignalCloseLong
	SignalCloseShort
	SignalHold
)

func (t SignalType) String() string {
	switch t {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	case SignalCloseLong:
		return "close_long"
	case SignalCloseShort:
		return "close_short"
	default:
		return "hold"
	}
}

// SignalStrength buckets how decisive a signal is.
type SignalStrength int

const (
	Weak SignalStrength = iota
	Moderate
	Strong
)

// SignalMetadata carries the explanatory context behind a signal.
type SignalMetadata struct {
	StrategyName string
	Indicators   map[string]float64
	Reason       string
	StopLoss     *float64
	TakeProfit   *float64
}

// Signal is the output of a strategy for one bar.
type Signal struct {
	Symbol     string
	Type       SignalType
	Strength   SignalStrength
	Price      float64
	Timestamp  int64
	Confidence float64 // in [0,1]
	Metadata   SignalMetadata
}
