package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// LimitOutcome is the kind of result CheckNewPosition returns.
type LimitOutcome int

const (
	Allowed LimitOutcome = iota
	Blocked
	Reduced
)

// LimitCheck is the result of evaluating a candidate position against
// PortfolioLimits. MaxSize is only meaningful when Outcome is Reduced.
type LimitCheck struct {
	Outcome LimitOutcome
	MaxSize decimal.Decimal
	Reason  string
}

func (c LimitCheck) IsAllowed() bool { return c.Outcome == Allowed || c.Outcome == Reduced }
func (c LimitCheck) IsBlocked() bool { return c.Outcome == Blocked }

// PortfolioLimits are the account-wide guardrails every new position must
// clear, evaluated in a fixed order: daily loss, drawdown, position count,
// minimum cash, total exposure, per-position size, then concentration. The
// first check that fails short-circuits the rest.
type PortfolioLimits struct {
	MaxPositionPct      decimal.Decimal
	MaxExposurePct      decimal.Decimal
	MaxPositions        int
	DailyLossLimitPct   decimal.Decimal
	MaxDrawdownPct      decimal.Decimal
	MinCash             decimal.Decimal
	MaxConcentrationPct decimal.Decimal
}

func DefaultPortfolioLimits() PortfolioLimits {
	return PortfolioLimits{
		MaxPositionPct:      decimal.NewFromInt(10),
		MaxExposurePct:      decimal.NewFromInt(80),
		MaxPositions:        10,
		DailyLossLimitPct:   decimal.NewFromInt(3),
		MaxDrawdownPct:      decimal.NewFromInt(20),
		MinCash:             decimal.NewFromInt(1000),
		MaxConcentrationPct: decimal.NewFromInt(25),
	}
}

// CheckNewPosition evaluates whether a new position of positionValue may be
// opened given the portfolio's current state and today's running P&L.
func (l PortfolioLimits) CheckNewPosition(portfolio *marketdata.Portfolio, positionValue, dailyPnL decimal.Decimal) LimitCheck {
	dailyLossPct := decimal.Zero
	if portfolio.InitialCapital.GreaterThan(decimal.Zero) {
		dailyLossPct = dailyPnL.Div(portfolio.InitialCapital).Mul(hundred)
	}
	if dailyLossPct.LessThanOrEqual(l.DailyLossLimitPct.Neg()) {
		return LimitCheck{Outcome: Blocked, Reason: fmt.Sprintf(
			"daily loss limit reached: %s%% (limit: %s%%)", dailyLossPct.StringFixed(2), l.DailyLossLimitPct.StringFixed(2))}
	}

	drawdown := portfolio.DrawdownPct()
	if drawdown.GreaterThanOrEqual(l.MaxDrawdownPct) {
		return LimitCheck{Outcome: Blocked, Reason: fmt.Sprintf(
			"max drawdown exceeded: %s%% (limit: %s%%)", drawdown.StringFixed(2), l.MaxDrawdownPct.StringFixed(2))}
	}

	if portfolio.PositionCount() >= l.MaxPositions {
		return LimitCheck{Outcome: Blocked, Reason: fmt.Sprintf(
			"max positions reached: %d (limit: %d)", portfolio.PositionCount(), l.MaxPositions)}
	}

	if portfolio.Cash.Sub(positionValue).LessThan(l.MinCash) {
		maxAllowed := portfolio.Cash.Sub(l.MinCash)
		if maxAllowed.LessThanOrEqual(decimal.Zero) {
			return LimitCheck{Outcome: Blocked, Reason: fmt.Sprintf(
				"insufficient cash: $%s (need $%s minimum)", portfolio.Cash.StringFixed(2), l.MinCash.StringFixed(2))}
		}
		return LimitCheck{Outcome: Reduced, MaxSize: maxAllowed, Reason: "limited by minimum cash requirement"}
	}

	currentExposure := portfolio.TotalMarketValue()
	newExposure := currentExposure.Add(positionValue)
	exposurePct := newExposure.Div(portfolio.Equity).Mul(hundred)
	if exposurePct.GreaterThan(l.MaxExposurePct) {
		maxAdditional := portfolio.Equity.Mul(l.MaxExposurePct).Div(hundred).Sub(currentExposure)
		if maxAdditional.LessThanOrEqual(decimal.Zero) {
			currentPct := currentExposure.Div(portfolio.Equity).Mul(hundred)
			return LimitCheck{Outcome: Blocked, Reason: fmt.Sprintf(
				"max exposure reached: %s%% (limit: %s%%)", currentPct.StringFixed(2), l.MaxExposurePct.StringFixed(2))}
		}
		return LimitCheck{Outcome: Reduced, MaxSize: maxAdditional, Reason: fmt.Sprintf(
			"limited by max exposure (%s%%)", l.MaxExposurePct.StringFixed(2))}
	}

	positionPct := positionValue.Div(portfolio.Equity).Mul(hundred)
	if positionPct.GreaterThan(l.MaxPositionPct) {
		maxPosition := portfolio.Equity.Mul(l.MaxPositionPct).Div(hundred)
		return LimitCheck{Outcome: Reduced, MaxSize: maxPosition, Reason: fmt.Sprintf(
			"limited by max position size (%s%%)", l.MaxPositionPct.StringFixed(2))}
	}

	if positionPct.GreaterThan(l.MaxConcentrationPct) {
		maxPosition := portfolio.Equity.Mul(l.MaxConcentrationPct).Div(hundred)
		return LimitCheck{Outcome: Reduced, MaxSize: maxPosition, Reason: fmt.Sprintf(
			"limited by max concentration (%s%%)", l.MaxConcentrationPct.StringFixed(2))}
	}

	return LimitCheck{Outcome: Allowed}
}

// ShouldHaltTrading reports a halt reason if the daily loss or drawdown
// limit has already been breached, independent of any specific candidate
// position.
func (l PortfolioLimits) ShouldHaltTrading(portfolio *marketdata.Portfolio, dailyPnL decimal.Decimal) (string, bool) {
	dailyLossPct := decimal.Zero
	if portfolio.InitialCapital.GreaterThan(decimal.Zero) {
		dailyLossPct = dailyPnL.Div(portfolio.InitialCapital).Mul(hundred)
	}
	if dailyLossPct.LessThanOrEqual(l.DailyLossLimitPct.Neg()) {
		return fmt.Sprintf("daily loss limit reached: %s%%", dailyLossPct.Abs().StringFixed(2)), true
	}

	drawdown := portfolio.DrawdownPct()
	if drawdown.GreaterThanOrEqual(l.MaxDrawdownPct) {
		return fmt.Sprintf("max drawdown exceeded: %s%%", drawdown.StringFixed(2)), true
	}

	return "", false
}
