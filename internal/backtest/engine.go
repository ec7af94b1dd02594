package backtest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/broker"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
	"github.com/lumenworksco/trading-algorithm/internal/risk"
	"github.com/lumenworksco/trading-algorithm/internal/strategy"
)

// Config configures one replay: how much capital to start with, the cost
// model applied to every fill, and the risk rules governing every signal.
type Config struct {
	InitialCapital     decimal.Decimal
	CommissionPerShare decimal.Decimal
	SlippagePct        decimal.Decimal
	Risk               risk.Config
}

func DefaultConfig() Config {
	return Config{
		InitialCapital:     decimal.NewFromInt(100000),
		CommissionPerShare: decimal.NewFromFloat(0.005),
		SlippagePct:        decimal.NewFromFloat(0.05),
		Risk:               risk.DefaultConfig(),
	}
}

// openPosition is the driver's own weighted-average entry-price record,
// tracked separately from the broker's own position ledger. It exists only
// to (a) gate duplicate entry/exit signals and (b) compute the realized
// per-trade P&L recorded against a TradeRecord — the broker's Portfolio
// remains the source of truth for cash, equity and buying power.
type openPosition struct {
	EntryPrice decimal.Decimal
	Quantity   decimal.Decimal // positive for long, negative for short
}

// item is one (timestamp, symbol, bar) row of the flattened, chronologically
// sorted replay.
type item struct {
	Timestamp int64
	Symbol    string
	Bar       marketdata.Bar
}

// Engine replays historical bars for one or more symbols through their
// strategies, routing approved signals through a risk manager and a
// simulated broker, and accumulates the resulting statistics.
type Engine struct {
	config    Config
	broker    *broker.SimulatedBroker
	risk      *risk.Manager
	stats     *Stats
	positions map[string]openPosition
}

func NewEngine(config Config) *Engine {
	return &Engine{
		config:    config,
		broker:    broker.NewSimulatedBroker(config.InitialCapital).WithSlippage(config.SlippagePct).WithCommission(config.CommissionPerShare),
		risk:      risk.NewManager(config.Risk),
		stats:     NewStats(config.InitialCapital),
		positions: make(map[string]openPosition),
	}
}

// Run replays bars against strategies (one strategy per symbol) in
// chronological order and returns the finished report. bars maps symbol to
// its historical bars, which need not be pre-sorted.
func (e *Engine) Run(ctx context.Context, strategies map[string]strategy.Strategy, bars map[string][]marketdata.Bar) (*Report, error) {
	items := flatten(bars)
	series := make(map[string]*marketdata.BarSeries, len(bars))
	for symbol := range bars {
		series[symbol] = marketdata.NewSeries(symbol, marketdata.Daily)
	}

	latestClose := make(map[string]decimal.Decimal)

	i := 0
	for i < len(items) {
		j := i
		batchTimestamp := items[i].Timestamp
		for j < len(items) && items[j].Timestamp == batchTimestamp {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e.processItem(ctx, items[j], strategies, series, latestClose)
			j++
		}

		e.broker.UpdatePrices(latestClose)
		snapshot := e.broker.PortfolioSnapshot()
		e.stats.RecordEquity(batchTimestamp, snapshot.Equity)

		i = j
	}

	e.closeRemainingPositions(ctx, latestClose, items)

	final := e.broker.PortfolioSnapshot()
	e.stats.Finalize(&final)

	return &Report{Config: e.config, Stats: *e.stats, FinalPortfolio: final}, nil
}

func (e *Engine) processItem(ctx context.Context, it item, strategies map[string]strategy.Strategy, series map[string]*marketdata.BarSeries, latestClose map[string]decimal.Decimal) {
	s, ok := series[it.Symbol]
	if !ok {
		return
	}
	s.Push(it.Bar)
	latestClose[it.Symbol] = marketdata.FloatToDecimal(it.Bar.Close)

	strat, ok := strategies[it.Symbol]
	if !ok {
		return
	}
	signal := strat.OnBar(s)
	if signal == nil || signal.Type == marketdata.SignalHold {
		return
	}

	current, hasPosition := e.positions[it.Symbol]
	if !signalIsActionable(signal.Type, current, hasPosition) {
		return
	}

	price := marketdata.FloatToDecimal(it.Bar.Close)
	snapshot := e.broker.PortfolioSnapshot()
	decision := e.risk.EvaluateSignal(&snapshot, signal, price)
	if !decision.IsApproved() {
		return
	}

	order, err := e.broker.SubmitOrder(ctx, decision.Order)
	if err != nil {
		return
	}
	filled, err := e.broker.ExecuteAtPrice(order.ID, price)
	if err != nil || filled.Status != marketdata.Filled || filled.FilledAvgPrice == nil {
		return
	}

	e.applyFill(it, signal.Type, filled, current, hasPosition)
}

// signalIsActionable rejects signals the driver-side position state makes
// redundant: entering a side already held, or closing a side not held.
func signalIsActionable(signalType marketdata.SignalType, current openPosition, hasPosition bool) bool {
	switch signalType {
	case marketdata.SignalBuy:
		return !hasPosition || current.Quantity.LessThanOrEqual(decimal.Zero)
	case marketdata.SignalSell:
		return !hasPosition || current.Quantity.GreaterThanOrEqual(decimal.Zero)
	case marketdata.SignalCloseLong:
		return hasPosition && current.Quantity.GreaterThan(decimal.Zero)
	case marketdata.SignalCloseShort:
		return hasPosition && current.Quantity.LessThan(decimal.Zero)
	default:
		return false
	}
}

func (e *Engine) applyFill(it item, signalType marketdata.SignalType, filled marketdata.Order, current openPosition, hasPosition bool) {
	fillPrice := *filled.FilledAvgPrice
	quantity := filled.FilledQuantity
	timestamp := time.UnixMilli(it.Timestamp).UTC()

	switch signalType {
	case marketdata.SignalBuy:
		newQuantity := quantity
		avgEntry := fillPrice
		if hasPosition && current.Quantity.GreaterThan(decimal.Zero) {
			newQuantity = current.Quantity.Add(quantity)
			avgEntry = current.EntryPrice.Mul(current.Quantity).Add(fillPrice.Mul(quantity)).Div(newQuantity)
		}
		e.positions[it.Symbol] = openPosition{EntryPrice: avgEntry, Quantity: newQuantity}
		e.stats.AddTrade(TradeRecord{Symbol: it.Symbol, Side: marketdata.Buy, Quantity: quantity, Price: fillPrice, Timestamp: timestamp, SignalType: signalType})

	case marketdata.SignalSell:
		newQuantity := quantity.Neg()
		avgEntry := fillPrice
		if hasPosition && current.Quantity.LessThan(decimal.Zero) {
			held := current.Quantity.Abs()
			total := held.Add(quantity)
			avgEntry = current.EntryPrice.Mul(held).Add(fillPrice.Mul(quantity)).Div(total)
			newQuantity = total.Neg()
		}
		e.positions[it.Symbol] = openPosition{EntryPrice: avgEntry, Quantity: newQuantity}
		e.stats.AddTrade(TradeRecord{Symbol: it.Symbol, Side: marketdata.Sell, Quantity: quantity, Price: fillPrice, Timestamp: timestamp, SignalType: signalType})

	case marketdata.SignalCloseLong:
		pnl := fillPrice.Sub(current.EntryPrice).Mul(quantity)
		delete(e.positions, it.Symbol)
		e.stats.AddTrade(TradeRecord{Symbol: it.Symbol, Side: marketdata.Sell, Quantity: quantity, Price: fillPrice, Timestamp: timestamp, SignalType: signalType, PnL: &pnl})

	case marketdata.SignalCloseShort:
		pnl := current.EntryPrice.Sub(fillPrice).Mul(quantity)
		delete(e.positions, it.Symbol)
		e.stats.AddTrade(TradeRecord{Symbol: it.Symbol, Side: marketdata.Buy, Quantity: quantity, Price: fillPrice, Timestamp: timestamp, SignalType: signalType, PnL: &pnl})
	}
}

// closeRemainingPositions liquidates every driver-tracked open position at
// the last known price once the replay runs out of bars, so the final
// statistics reflect realized rather than floating P&L.
func (e *Engine) closeRemainingPositions(ctx context.Context, latestClose map[string]decimal.Decimal, items []item) {
	if len(e.positions) == 0 {
		return
	}
	lastTimestamp := int64(0)
	if len(items) > 0 {
		lastTimestamp = items[len(items)-1].Timestamp
	}

	for symbol, pos := range e.positions {
		price, ok := latestClose[symbol]
		if !ok {
			continue
		}
		side := marketdata.Sell
		if pos.Quantity.LessThan(decimal.Zero) {
			side = marketdata.Buy
		}
		quantity := pos.Quantity.Abs()

		order, err := e.broker.SubmitOrder(ctx, marketdata.MarketOrder(symbol, side, quantity))
		if err != nil {
			continue
		}
		filled, err := e.broker.ExecuteAtPrice(order.ID, price)
		if err != nil || filled.FilledAvgPrice == nil {
			continue
		}

		fillPrice := *filled.FilledAvgPrice
		var pnl decimal.Decimal
		if pos.Quantity.GreaterThan(decimal.Zero) {
			pnl = fillPrice.Sub(pos.EntryPrice).Mul(quantity)
		} else {
			pnl = pos.EntryPrice.Sub(fillPrice).Mul(quantity)
		}
		e.stats.AddTrade(TradeRecord{
			Symbol:     symbol,
			Side:       side,
			Quantity:   quantity,
			Price:      fillPrice,
			Timestamp:  time.UnixMilli(lastTimestamp).UTC(),
			SignalType: marketdata.SignalCloseLong,
			PnL:        &pnl,
		})
		delete(e.positions, symbol)
	}
}

func flatten(bars map[string][]marketdata.Bar) []item {
	items := make([]item, 0)
	for symbol, series := range bars {
		for _, bar := range series {
			items = append(items, item{Timestamp: bar.Timestamp, Symbol: symbol, Bar: bar})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Timestamp != items[j].Timestamp {
			return items[i].Timestamp < items[j].Timestamp
		}
		return items[i].Symbol < items[j].Symbol
	})
	return items
}
