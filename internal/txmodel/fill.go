package txmodel

import (
	"github.com/shopspring/decimal"

	"lean/internal/domain"
)

// ImmediateFill fills the full order quantity within the bar it first
// becomes marketable:
//
//   - market and market-on-close fill at the close
//   - market-on-open fills at the open
//   - limit fills when the bar trades through the limit, at the better of
//     the limit and the open
//   - stop fills when the bar touches the stop, at the worse of the stop and
//     the open
//   - stop-limit fills when the stop triggers and the limit is reachable
type ImmediateFill struct{}

// Fill implements FillModel.
func (ImmediateFill) Fill(order *domain.Order, bar domain.Bar) (domain.Fill, bool) {
	if order == nil || order.Symbol != bar.Symbol {
		return domain.Fill{}, false
	}

	buy := order.Side == domain.OrderSideBuy
	var (
		price decimal.Decimal
		ok    bool
	)

	switch order.Type {
	case domain.OrderTypeMarket, domain.OrderTypeMarketOnClose:
		price, ok = bar.Close, true

	case domain.OrderTypeMarketOnOpen:
		price, ok = bar.Open, true

	case domain.OrderTypeLimit:
		price, ok = limitFill(buy, order.LimitPrice, bar)

	case domain.OrderTypeStop:
		price, ok = stopFill(buy, order.StopPrice, bar)

	case domain.OrderTypeStopLimit:
		if _, triggered := stopFill(buy, order.StopPrice, bar); triggered {
			price, ok = limitFill(buy, order.LimitPrice, bar)
		}
	}

	if !ok {
		return domain.Fill{}, false
	}

	return domain.Fill{
		OrderID:      order.ID,
		Symbol:       order.Symbol,
		SecurityType: order.SecurityType,
		Side:         order.Side,
		Qty:          order.Qty.Abs(),
		Price:        price,
		Time:         bar.Timestamp,
	}, true
}

func limitFill(buy bool, limit decimal.Decimal, bar domain.Bar) (decimal.Decimal, bool) {
	if buy {
		if bar.Low.GreaterThan(limit) {
			return decimal.Zero, false
		}
		return decimal.Min(limit, bar.Open), true
	}
	if bar.High.LessThan(limit) {
		return decimal.Zero, false
	}
	return decimal.Max(limit, bar.Open), true
}

func stopFill(buy bool, stop decimal.Decimal, bar domain.Bar) (decimal.Decimal, bool) {
	if buy {
		if bar.High.LessThan(stop) {
			return decimal.Zero, false
		}
		return decimal.Max(stop, bar.Open), true
	}
	if bar.Low.GreaterThan(stop) {
		return decimal.Zero, false
	}
	return decimal.Min(stop, bar.Open), true
}
