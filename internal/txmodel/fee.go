package txmodel

import (
	"github.com/shopspring/decimal"

	"lean/internal/domain"
)

// NoFee charges nothing.
type NoFee struct{}

// OrderFee always returns zero.
func (NoFee) OrderFee(_ *domain.Order, _, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// Schedule is a linear commission: PerUnit per unit filled plus Percent of
// notional, floored at Minimum. A zero Schedule charges nothing.
type Schedule struct {
	PerUnit decimal.Decimal
	Percent decimal.Decimal // fraction of notional, 0.001 = 10 bps
	Minimum decimal.Decimal
}

// OrderFee implements FeeModel.
func (s Schedule) OrderFee(_ *domain.Order, fillQty, fillPrice decimal.Decimal) decimal.Decimal {
	qty := fillQty.Abs()
	if qty.IsZero() {
		return decimal.Zero
	}
	fee := qty.Mul(s.PerUnit).Add(qty.Mul(fillPrice).Abs().Mul(s.Percent))
	if fee.LessThan(s.Minimum) {
		fee = s.Minimum
	}
	return fee
}

// IsZero reports whether the schedule charges nothing.
func (s Schedule) IsZero() bool {
	return s.PerUnit.IsZero() && s.Percent.IsZero() && s.Minimum.IsZero()
}
