package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// Config is the full risk configuration: how to size positions, how to
// place stops, and the portfolio-wide guardrails to enforce.
type Config struct {
	PositionSizing    SizingMethod
	StopLoss          StopMethod
	Limits            PortfolioLimits
	MaxShares         *decimal.Decimal
	UseSignalStrength bool
}

func DefaultConfig() Config {
	maxShares := decimal.NewFromInt(1000)
	return Config{
		PositionSizing:    DefaultSizingMethod(),
		StopLoss:          DefaultStopMethod(),
		Limits:            DefaultPortfolioLimits(),
		MaxShares:         &maxShares,
		UseSignalStrength: true,
	}
}

// DecisionOutcome is the shape of a risk evaluation's result.
type DecisionOutcome int

const (
	Approved DecisionOutcome = iota
	Modified
	Rejected
)

// Decision is the outcome of evaluating a signal: an order to submit (for
// Approved/Modified), the stop-loss price to place alongside it, and a
// human-readable reason (set for Modified/Rejected).
type Decision struct {
	Outcome      DecisionOutcome
	Order        marketdata.OrderRequest
	StopLossPrice *decimal.Decimal
	Reason       string
}

func (d Decision) IsApproved() bool { return d.Outcome == Approved || d.Outcome == Modified }

// Manager combines position sizing, stop-loss placement, and portfolio
// limits into a single signal -> decision pipeline: determine side, compute
// the stop price and raw size, then clamp the size against portfolio
// limits, producing Approved, Modified (size reduced), or Rejected.
type Manager struct {
	config          Config
	positionSizer   *PositionSizer
	stopLossManager *StopLossManager
	dailyPnL        decimal.Decimal
}

func NewManager(config Config) *Manager {
	sizer := NewPositionSizer(config.PositionSizing)
	if config.MaxShares != nil {
		sizer = sizer.WithMaxShares(*config.MaxShares)
	}
	if !config.UseSignalStrength {
		sizer = sizer.WithoutSignalStrength()
	}

	return &Manager{
		config:          config,
		positionSizer:   sizer,
		stopLossManager: NewStopLossManager(config.StopLoss),
	}
}

func (m *Manager) UpdateDailyPnL(pnl decimal.Decimal) { m.dailyPnL = pnl }
func (m *Manager) ResetDailyPnL()                     { m.dailyPnL = decimal.Zero }
func (m *Manager) UpdateATR(atr decimal.Decimal)      { m.stopLossManager.UpdateATR(atr) }
func (m *Manager) Config() Config                     { return m.config }

// EvaluateSignal turns a strategy signal into a risk decision. A Hold
// signal is always rejected: there is nothing for the risk layer to size.
func (m *Manager) EvaluateSignal(portfolio *marketdata.Portfolio, signal *marketdata.Signal, currentPrice decimal.Decimal) Decision {
	var side marketdata.Side
	switch signal.Type {
	case marketdata.SignalBuy, marketdata.SignalCloseShort:
		side = marketdata.Buy
	case marketdata.SignalSell, marketdata.SignalCloseLong:
		side = marketdata.Sell
	default:
		return Decision{Outcome: Rejected, Reason: "hold signal: no action needed"}
	}

	stopLossPrice := m.stopLossManager.CalculateStopPrice(currentPrice, side)

	quantity := m.positionSizer.Calculate(portfolio, signal, currentPrice, stopLossPrice)
	if quantity.LessThanOrEqual(decimal.Zero) {
		return Decision{Outcome: Rejected, Reason: "calculated position size is zero or negative"}
	}

	positionValue := quantity.Mul(currentPrice)
	check := m.config.Limits.CheckNewPosition(portfolio, positionValue, m.dailyPnL)

	switch check.Outcome {
	case Blocked:
		return Decision{Outcome: Rejected, Reason: check.Reason}

	case Reduced:
		reducedQuantity := check.MaxSize.Div(currentPrice).Floor()
		if reducedQuantity.LessThanOrEqual(decimal.Zero) {
			return Decision{Outcome: Rejected, Reason: fmt.Sprintf("position too small after reduction: %s", check.Reason)}
		}
		return Decision{
			Outcome:       Modified,
			Order:         marketdata.MarketOrder(signal.Symbol, side, reducedQuantity),
			StopLossPrice: stopLossPrice,
			Reason:        check.Reason,
		}

	default:
		return Decision{
			Outcome:       Approved,
			Order:         marketdata.MarketOrder(signal.Symbol, side, quantity),
			StopLossPrice: stopLossPrice,
		}
	}
}

// ShouldHalt reports a halt reason if today's loss or the portfolio's
// drawdown has breached a configured limit.
func (m *Manager) ShouldHalt(portfolio *marketdata.Portfolio) (string, bool) {
	return m.config.Limits.ShouldHaltTrading(portfolio, m.dailyPnL)
}
