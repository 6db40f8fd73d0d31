// Package txmodel defines the transaction-model capability: how a brokerage
// charges fees and how orders fill against market data in simulation.
package txmodel

import (
	"github.com/shopspring/decimal"

	"lean/internal/domain"
)

// FeeModel computes the commission charged for filling an order.
type FeeModel interface {
	OrderFee(order *domain.Order, fillQty, fillPrice decimal.Decimal) decimal.Decimal
}

// FillModel decides whether and at what price an order fills against a bar.
type FillModel interface {
	// Fill returns the fill for order against bar and true, or false when
	// the order would not fill in this interval. Fee is left zero.
	Fill(order *domain.Order, bar domain.Bar) (domain.Fill, bool)
}

// TransactionModel combines fee and fill behaviour for one class of
// instrument.
type TransactionModel interface {
	// Name identifies the concrete variant (e.g. "equity", "forex").
	Name() string
	FeeModel
	FillModel
}

// Compile-time interface check.
var _ TransactionModel = (*Model)(nil)

// Model is a TransactionModel assembled from a fee model and a fill model.
type Model struct {
	name string
	fee  FeeModel
	fill FillModel
}

// New creates a Model with the given name, fee model and fill model. A nil
// fee model charges nothing; a nil fill model uses ImmediateFill.
func New(name string, fee FeeModel, fill FillModel) *Model {
	if fee == nil {
		fee = NoFee{}
	}
	if fill == nil {
		fill = ImmediateFill{}
	}
	return &Model{name: name, fee: fee, fill: fill}
}

// Name returns the variant name.
func (m *Model) Name() string {
	return m.name
}

// OrderFee delegates to the fee model.
func (m *Model) OrderFee(order *domain.Order, fillQty, fillPrice decimal.Decimal) decimal.Decimal {
	return m.fee.OrderFee(order, fillQty, fillPrice)
}

// Fill delegates to the fill model and stamps the fill with the model name
// and fee.
func (m *Model) Fill(order *domain.Order, bar domain.Bar) (domain.Fill, bool) {
	f, ok := m.fill.Fill(order, bar)
	if !ok {
		return domain.Fill{}, false
	}
	f.Model = m.name
	f.Fee = m.fee.OrderFee(order, f.Qty, f.Price)
	return f, true
}

// ---------------------------------------------------------------------------
// Variants
// ---------------------------------------------------------------------------

// Variant names.
const (
	NameEquity = "equity"
	NameOption = "option"
	NameFuture = "future"
	NameForex  = "forex"
	NameCrypto = "crypto"
)

// NewEquity returns the equity transaction model.
func NewEquity(fees Schedule) *Model { return New(NameEquity, fees, ImmediateFill{}) }

// NewOption returns the option transaction model.
func NewOption(fees Schedule) *Model { return New(NameOption, fees, ImmediateFill{}) }

// NewFuture returns the futures transaction model.
func NewFuture(fees Schedule) *Model { return New(NameFuture, fees, ImmediateFill{}) }

// NewForex returns the forex/CFD transaction model.
func NewForex(fees Schedule) *Model { return New(NameForex, fees, ImmediateFill{}) }

// NewCrypto returns the crypto transaction model.
func NewCrypto(fees Schedule) *Model { return New(NameCrypto, fees, ImmediateFill{}) }
