package brokerage

import (
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"lean/internal/domain"
	"lean/internal/txmodel"
	"lean/internal/util"
)

// Compile-time interface check.
var _ BrokerageModel = (*AlpacaModel)(nil)

// AlpacaModel follows Alpaca's order rules: US equities and crypto only,
// order types and time-in-force values that map onto an Alpaca order
// request, and extended-hours execution only for day limit orders that opt
// in. Crypto trades around the clock.
type AlpacaModel struct {
	rules *RuleModel
}

// AlpacaOptions parameterises an AlpacaModel.
type AlpacaOptions struct {
	// Session is the regular equity session. Its Location should be
	// America/New_York.
	Session util.Window

	// Extended bounds pre-market and after-hours execution, normally
	// 04:00-20:00 New York time on weekdays.
	Extended util.Window

	Blackouts    []util.Window
	Maintenance  []util.Window
	Fees         Fees
	RateLimit    RateLimitRule
	MaxOrderSize MaxOrderSizeRule
}

// NewAlpacaModel builds an AlpacaModel.
func NewAlpacaModel(opts AlpacaOptions) (*AlpacaModel, error) {
	types := []domain.SecurityType{domain.SecurityTypeEquity, domain.SecurityTypeCrypto}

	rm, err := NewRuleModel("alpaca",
		WithSubmitRules(
			BlackoutRule{Windows: opts.Blackouts},
			NewSecurityTypeRule(types...),
			alpacaOrderRule{},
			opts.MaxOrderSize,
			opts.RateLimit,
		),
		WithExecuteRules(
			NewSecurityTypeRule(types...),
			SessionRule{
				Session:           opts.Session,
				Extended:          opts.Extended,
				AllowExtended:     true,
				ExtendedLimitOnly: true,
			}.WithAroundTheClock(domain.SecurityTypeCrypto),
			MaintenanceRule{Windows: opts.Maintenance},
		),
		WithTransactions(StandardTransactions(opts.Fees, types...)),
	)
	if err != nil {
		return nil, err
	}
	return &AlpacaModel{rules: rm}, nil
}

// Name returns "alpaca".
func (m *AlpacaModel) Name() string {
	return m.rules.Name()
}

// CanSubmitOrder implements BrokerageModel.
func (m *AlpacaModel) CanSubmitOrder(t time.Time, order *domain.Order) (bool, *Message, error) {
	return m.rules.CanSubmitOrder(t, order)
}

// CanExecuteOrder implements BrokerageModel.
func (m *AlpacaModel) CanExecuteOrder(t time.Time, order *domain.Order) (bool, error) {
	return m.rules.CanExecuteOrder(t, order)
}

// GetTransactionModel implements BrokerageModel.
func (m *AlpacaModel) GetTransactionModel(symbol string, st domain.SecurityType) (txmodel.TransactionModel, error) {
	return m.rules.GetTransactionModel(symbol, st)
}

// ---------------------------------------------------------------------------
// Order translation
// ---------------------------------------------------------------------------

// AlpacaOrderRequest translates order into the request Alpaca would receive,
// or returns an error describing why Alpaca would refuse it.
func AlpacaOrderRequest(order *domain.Order) (alpaca.PlaceOrderRequest, error) {
	if order == nil {
		return alpaca.PlaceOrderRequest{}, ErrNilOrder
	}

	side, err := alpacaSide(order.Side)
	if err != nil {
		return alpaca.PlaceOrderRequest{}, err
	}

	typ, tif, err := alpacaTypeAndTIF(order)
	if err != nil {
		return alpaca.PlaceOrderRequest{}, err
	}

	if order.ExtendedHours && (typ != alpaca.Limit || tif != alpaca.Day) {
		return alpaca.PlaceOrderRequest{}, fmt.Errorf("extended hours orders must be day limit orders, got %s %s", tif, typ)
	}

	qty := order.Qty.Abs()
	req := alpaca.PlaceOrderRequest{
		Symbol:        order.Symbol,
		Qty:           &qty,
		Side:          side,
		Type:          typ,
		TimeInForce:   tif,
		ExtendedHours: order.ExtendedHours,
		ClientOrderID: order.ID,
	}
	if typ == alpaca.Limit || typ == alpaca.StopLimit {
		limit := order.LimitPrice
		req.LimitPrice = &limit
	}
	if typ == alpaca.Stop || typ == alpaca.StopLimit {
		stop := order.StopPrice
		req.StopPrice = &stop
	}
	return req, nil
}

func alpacaSide(s domain.OrderSide) (alpaca.Side, error) {
	switch s {
	case domain.OrderSideBuy:
		return alpaca.Buy, nil
	case domain.OrderSideSell:
		return alpaca.Sell, nil
	}
	return "", fmt.Errorf("unknown order side %q", s)
}

func alpacaTypeAndTIF(order *domain.Order) (alpaca.OrderType, alpaca.TimeInForce, error) {
	tif, err := alpacaTIF(order.TimeInForce)
	if err != nil {
		return "", "", err
	}

	var typ alpaca.OrderType
	switch order.Type {
	case domain.OrderTypeMarket:
		typ = alpaca.Market
	case domain.OrderTypeLimit:
		typ = alpaca.Limit
	case domain.OrderTypeStop:
		typ = alpaca.Stop
	case domain.OrderTypeStopLimit:
		typ = alpaca.StopLimit
	case domain.OrderTypeMarketOnOpen:
		typ, tif = alpaca.Market, alpaca.OPG
	case domain.OrderTypeMarketOnClose:
		typ, tif = alpaca.Market, alpaca.CLS
	default:
		return "", "", fmt.Errorf("order type %q has no Alpaca equivalent", order.Type)
	}

	if order.SecurityType == domain.SecurityTypeCrypto {
		if typ == alpaca.Stop || tif == alpaca.OPG || tif == alpaca.CLS {
			return "", "", fmt.Errorf("order type %q is not available for crypto", order.Type)
		}
		if tif != alpaca.GTC && tif != alpaca.IOC {
			return "", "", fmt.Errorf("crypto orders require gtc or ioc time in force, got %s", tif)
		}
	}
	return typ, tif, nil
}

func alpacaTIF(tif domain.TimeInForce) (alpaca.TimeInForce, error) {
	switch tif {
	case domain.TimeInForceDay, "":
		return alpaca.Day, nil
	case domain.TimeInForceGTC:
		return alpaca.GTC, nil
	case domain.TimeInForceIOC:
		return alpaca.IOC, nil
	case domain.TimeInForceFOK:
		return alpaca.FOK, nil
	}
	return "", fmt.Errorf("unknown time in force %q", tif)
}

// alpacaOrderRule rejects orders that cannot be expressed as an Alpaca
// order request.
type alpacaOrderRule struct{}

func (alpacaOrderRule) CheckSubmit(_ time.Time, order *domain.Order) *Message {
	if _, err := AlpacaOrderRequest(order); err != nil {
		return newWarning(CodeUnsupportedOrderType, "%v", err)
	}
	return nil
}
