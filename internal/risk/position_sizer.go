// Package risk implements position sizing, stop-loss placement, portfolio
// limits, and the unified risk manager that combines all three into a
// single approve/modify/reject decision per signal.
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// SizingMethod selects how PositionSizer converts a signal into a share
// quantity. Exactly one field group is meaningful per Kind.
type SizingMethod struct {
	Kind             SizingKind
	Shares           decimal.Decimal
	Amount           decimal.Decimal
	Percent          decimal.Decimal
	RiskPercent      decimal.Decimal
	WinRate          decimal.Decimal
	AvgWinLossRatio  decimal.Decimal
}

type SizingKind int

const (
	Fixed SizingKind = iota
	FixedDollar
	PercentEquity
	RiskBased
	Kelly
)

func DefaultSizingMethod() SizingMethod {
	return SizingMethod{Kind: PercentEquity, Percent: decimal.NewFromInt(2)}
}

// PositionSizer calculates the share quantity for a signal, applying a
// signal-strength multiplier and then a chain of clamps: max shares, max
// position value, and available buying power, in that order, finally
// floored to a whole share.
type PositionSizer struct {
	method            SizingMethod
	maxShares         *decimal.Decimal
	maxPositionValue  *decimal.Decimal
	useSignalStrength bool
}

func NewPositionSizer(method SizingMethod) *PositionSizer {
	return &PositionSizer{method: method, useSignalStrength: true}
}

func (s *PositionSizer) WithMaxShares(max decimal.Decimal) *PositionSizer {
	s.maxShares = &max
	return s
}

func (s *PositionSizer) WithMaxPositionValue(max decimal.Decimal) *PositionSizer {
	s.maxPositionValue = &max
	return s
}

func (s *PositionSizer) WithoutSignalStrength() *PositionSizer {
	s.useSignalStrength = false
	return s
}

var hundred = decimal.NewFromInt(100)

// Calculate returns the number of whole shares to trade, or zero if the
// price, sizing method, or available funds do not support a position.
func (s *PositionSizer) Calculate(portfolio *marketdata.Portfolio, signal *marketdata.Signal, currentPrice decimal.Decimal, stopLossPrice *decimal.Decimal) decimal.Decimal {
	if currentPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	baseSize := s.baseSize(portfolio, currentPrice, stopLossPrice)

	adjusted := baseSize
	if s.useSignalStrength {
		adjusted = baseSize.Mul(strengthMultiplier(signal.Strength))
	}

	final := adjusted
	if s.maxShares != nil && final.GreaterThan(*s.maxShares) {
		final = *s.maxShares
	}
	if s.maxPositionValue != nil {
		maxShares := s.maxPositionValue.Div(currentPrice)
		if final.GreaterThan(maxShares) {
			final = maxShares
		}
	}

	maxAffordable := portfolio.BuyingPower.Div(currentPrice)
	if final.GreaterThan(maxAffordable) {
		final = maxAffordable
	}

	return final.Floor()
}

func (s *PositionSizer) baseSize(portfolio *marketdata.Portfolio, currentPrice decimal.Decimal, stopLossPrice *decimal.Decimal) decimal.Decimal {
	switch s.method.Kind {
	case Fixed:
		return s.method.Shares

	case FixedDollar:
		return s.method.Amount.Div(currentPrice)

	case PercentEquity:
		positionValue := portfolio.Equity.Mul(s.method.Percent.Div(hundred))
		return positionValue.Div(currentPrice)

	case RiskBased:
		if stopLossPrice != nil {
			riskPerShare := currentPrice.Sub(*stopLossPrice).Abs()
			if riskPerShare.GreaterThan(decimal.Zero) {
				riskAmount := portfolio.Equity.Mul(s.method.RiskPercent.Div(hundred))
				return riskAmount.Div(riskPerShare)
			}
			return decimal.Zero
		}
		positionValue := portfolio.Equity.Mul(s.method.RiskPercent.Div(hundred))
		return positionValue.Div(currentPrice)

	case Kelly:
		one := decimal.NewFromInt(1)
		kellyFraction := s.method.WinRate.Sub(one.Sub(s.method.WinRate).Div(s.method.AvgWinLossRatio))
		if kellyFraction.LessThan(decimal.Zero) {
			kellyFraction = decimal.Zero
		}
		maxFraction := decimal.NewFromFloat(0.25)
		if kellyFraction.GreaterThan(maxFraction) {
			kellyFraction = maxFraction
		}
		positionValue := portfolio.Equity.Mul(kellyFraction)
		return positionValue.Div(currentPrice)

	default:
		return decimal.Zero
	}
}

func strengthMultiplier(strength marketdata.SignalStrength) decimal.Decimal {
	switch strength {
	case marketdata.Weak:
		return decimal.NewFromFloat(0.5)
	case marketdata.Strong:
		return decimal.NewFromFloat(1.5)
	default:
		return decimal.NewFromInt(1)
	}
}
