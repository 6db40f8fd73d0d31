package broker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"lean/internal/domain"
)

// Compile-time interface check.
var _ Simulated = (*SimulatorBroker)(nil)

// ErrOrderNotFound is returned for operations on unknown order IDs.
var ErrOrderNotFound = errors.New("broker: order not found")

// SimulatorBroker implements the Broker interface for paper trading and
// backtesting. It tracks positions, orders, and cash in memory without
// making external API calls.
type SimulatorBroker struct {
	mu        sync.Mutex
	cash      decimal.Decimal
	fees      decimal.Decimal
	positions map[string]*domain.Position
	orders    map[string]*domain.Order
	marks     map[string]decimal.Decimal // last fill price per symbol
}

// NewSimulatorBroker creates a new SimulatorBroker holding initialCash.
func NewSimulatorBroker(initialCash decimal.Decimal) *SimulatorBroker {
	return &SimulatorBroker{
		cash:      initialCash,
		positions: make(map[string]*domain.Position),
		orders:    make(map[string]*domain.Order),
		marks:     make(map[string]decimal.Decimal),
	}
}

// Name returns "simulator".
func (b *SimulatorBroker) Name() string {
	return "simulator"
}

// SubmitOrder records the order as working.
func (b *SimulatorBroker) SubmitOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("broker: nil order")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.orders[order.ID]; dup {
		return nil, fmt.Errorf("broker: duplicate order id %s", order.ID)
	}
	b.orders[order.ID] = order
	return order, nil
}

// CancelOrder forgets a working order.
func (b *SimulatorBroker) CancelOrder(_ context.Context, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.orders[orderID]; !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	delete(b.orders, orderID)
	return nil
}

// ApplyFill moves cash, adjusts the position for the filled symbol, and
// charges the fill's fee.
func (b *SimulatorBroker) ApplyFill(_ context.Context, fill domain.Fill) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.orders[fill.OrderID]; !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, fill.OrderID)
	}
	delete(b.orders, fill.OrderID)

	signed := fill.Qty.Abs()
	if fill.Side == domain.OrderSideSell {
		signed = signed.Neg()
	}

	b.cash = b.cash.Sub(signed.Mul(fill.Price)).Sub(fill.Fee)
	b.fees = b.fees.Add(fill.Fee)
	b.marks[fill.Symbol] = fill.Price

	pos, ok := b.positions[fill.Symbol]
	if !ok {
		pos = &domain.Position{Symbol: fill.Symbol, SecurityType: fill.SecurityType}
		b.positions[fill.Symbol] = pos
	}
	applyToPosition(pos, signed, fill.Price)
	if pos.Qty.IsZero() {
		delete(b.positions, fill.Symbol)
	}
	return nil
}

// applyToPosition adds a signed quantity at price. The average price is
// kept on increases and reset when the position flips side.
func applyToPosition(pos *domain.Position, qty, price decimal.Decimal) {
	newQty := pos.Qty.Add(qty)
	switch {
	case pos.Qty.IsZero() || (pos.Qty.Sign() != newQty.Sign() && !newQty.IsZero()):
		pos.AvgPrice = price
	case pos.Qty.Sign() == qty.Sign():
		cost := pos.Qty.Abs().Mul(pos.AvgPrice).Add(qty.Abs().Mul(price))
		pos.AvgPrice = cost.Div(newQty.Abs())
	}
	pos.Qty = newQty
	if newQty.IsNegative() {
		pos.Side = domain.PositionSideShort
	} else {
		pos.Side = domain.PositionSideLong
	}
}

// GetPositions returns copies of all open positions sorted by symbol.
func (b *SimulatorBroker) GetPositions(_ context.Context) ([]domain.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]domain.Position, 0, len(b.positions))
	for _, p := range b.positions {
		positions = append(positions, *p)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions, nil
}

// GetAccount returns cash, fees paid, and equity marked at the last fill
// price of each symbol.
func (b *SimulatorBroker) GetAccount(_ context.Context) (*domain.AccountInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	equity := b.cash
	for sym, p := range b.positions {
		equity = equity.Add(p.Qty.Mul(b.marks[sym]))
	}
	return &domain.AccountInfo{Cash: b.cash, Equity: equity, FeesPaid: b.fees}, nil
}
