// Package domain defines the core value types shared across the platform:
// security classifications, orders, bars, fills, and account state.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// OrderSide is the direction of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderType is the kind of an order.
type OrderType string

const (
	OrderTypeMarket        OrderType = "market"
	OrderTypeLimit         OrderType = "limit"
	OrderTypeStop          OrderType = "stop"
	OrderTypeStopLimit     OrderType = "stop_limit"
	OrderTypeMarketOnOpen  OrderType = "market_on_open"
	OrderTypeMarketOnClose OrderType = "market_on_close"
)

// AllOrderTypes returns every known order type.
func AllOrderTypes() []OrderType {
	return []OrderType{
		OrderTypeMarket,
		OrderTypeLimit,
		OrderTypeStop,
		OrderTypeStopLimit,
		OrderTypeMarketOnOpen,
		OrderTypeMarketOnClose,
	}
}

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	for _, ot := range AllOrderTypes() {
		if t == ot {
			return true
		}
	}
	return false
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "new"
	OrderStatusSubmitted       OrderStatus = "submitted"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusInvalid         OrderStatus = "invalid"
)

// Open reports whether an order in this status may still execute.
func (s OrderStatus) Open() bool {
	return s == OrderStatusSubmitted || s == OrderStatusPartiallyFilled
}

// TimeInForce controls how long an order stays working.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

// Order is a proposed trading instruction. Qty is always positive; the
// direction is carried by Side.
type Order struct {
	ID            string
	Symbol        string
	SecurityType  SecurityType
	Side          OrderSide
	Type          OrderType
	TimeInForce   TimeInForce
	Qty           decimal.Decimal
	LimitPrice    decimal.Decimal
	StopPrice     decimal.Decimal
	ExtendedHours bool
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder creates a day order with a fresh ID in status new.
func NewOrder(symbol string, st SecurityType, side OrderSide, typ OrderType, qty decimal.Decimal, createdAt time.Time) *Order {
	return &Order{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		SecurityType: st,
		Side:         side,
		Type:         typ,
		TimeInForce:  TimeInForceDay,
		Qty:          qty.Abs(),
		Status:       OrderStatusNew,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// SignedQty returns the quantity with a negative sign for sells.
func (o *Order) SignedQty() decimal.Decimal {
	if o.Side == OrderSideSell {
		return o.Qty.Abs().Neg()
	}
	return o.Qty.Abs()
}

// ---------------------------------------------------------------------------
// Market data and executions
// ---------------------------------------------------------------------------

// Bar is one OHLCV interval for a symbol.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
}

// Fill records the execution of an order.
type Fill struct {
	OrderID      string
	Symbol       string
	SecurityType SecurityType
	Side         OrderSide
	Qty          decimal.Decimal
	Price        decimal.Decimal
	Fee          decimal.Decimal
	Time         time.Time
	Model        string // name of the transaction model that produced it
}

// Notional returns Qty * Price.
func (f Fill) Notional() decimal.Decimal {
	return f.Qty.Mul(f.Price)
}

// ---------------------------------------------------------------------------
// Account state
// ---------------------------------------------------------------------------

// PositionSide is the direction of a held position.
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// Position is the net holding of one symbol. Qty is signed.
type Position struct {
	Symbol       string
	SecurityType SecurityType
	Qty          decimal.Decimal
	AvgPrice     decimal.Decimal
	Side         PositionSide
}

// AccountInfo is a snapshot of account balances.
type AccountInfo struct {
	Cash     decimal.Decimal
	Equity   decimal.Decimal
	FeesPaid decimal.Decimal
}
