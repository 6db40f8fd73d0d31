package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTypesExist(t *testing.T) {
	// Verify Order can be instantiated with zero values.
	order := Order{}
	if order.ID != "" {
		t.Error("expected empty ID for zero-value Order")
	}
	if order.Side != "" || order.Type != "" || order.Status != "" {
		t.Error("expected empty Side/Type/Status for zero-value Order")
	}
	if !order.Qty.IsZero() || !order.LimitPrice.IsZero() || !order.StopPrice.IsZero() {
		t.Error("expected zero Qty/LimitPrice/StopPrice for zero-value Order")
	}
	if order.SecurityType != SecurityTypeBase {
		t.Errorf("zero-value SecurityType = %v, want %v", order.SecurityType, SecurityTypeBase)
	}

	// Verify enum constants are defined correctly.
	if OrderSideBuy != "buy" {
		t.Errorf("OrderSideBuy = %q, want %q", OrderSideBuy, "buy")
	}
	if OrderTypeStopLimit != "stop_limit" {
		t.Errorf("OrderTypeStopLimit = %q, want %q", OrderTypeStopLimit, "stop_limit")
	}
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	o := NewOrder("AAPL", SecurityTypeEquity, OrderSideSell, OrderTypeMarket, decimal.NewFromInt(-25), now)

	if o.ID == "" {
		t.Error("NewOrder did not assign an ID")
	}
	if o.Status != OrderStatusNew {
		t.Errorf("Status = %q, want %q", o.Status, OrderStatusNew)
	}
	if !o.Qty.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Qty = %s, want 25", o.Qty)
	}
	if !o.SignedQty().Equal(decimal.NewFromInt(-25)) {
		t.Errorf("SignedQty() = %s, want -25", o.SignedQty())
	}
	if o.TimeInForce != TimeInForceDay {
		t.Errorf("TimeInForce = %q, want %q", o.TimeInForce, TimeInForceDay)
	}

	other := NewOrder("AAPL", SecurityTypeEquity, OrderSideBuy, OrderTypeMarket, decimal.NewFromInt(1), now)
	if other.ID == o.ID {
		t.Error("NewOrder returned duplicate IDs")
	}
}

func TestOrderStatusOpen(t *testing.T) {
	open := map[OrderStatus]bool{
		OrderStatusNew:             false,
		OrderStatusSubmitted:       true,
		OrderStatusPartiallyFilled: true,
		OrderStatusFilled:          false,
		OrderStatusCancelled:       false,
		OrderStatusInvalid:         false,
	}
	for s, want := range open {
		if got := s.Open(); got != want {
			t.Errorf("%q.Open() = %v, want %v", s, got, want)
		}
	}
}

func TestOrderTypeValid(t *testing.T) {
	for _, ot := range AllOrderTypes() {
		if !ot.Valid() {
			t.Errorf("%q.Valid() = false, want true", ot)
		}
	}
	if OrderType("trailing_stop").Valid() {
		t.Error(`"trailing_stop".Valid() = true, want false`)
	}
}

func TestSecurityTypeRoundTrip(t *testing.T) {
	all := AllSecurityTypes()
	if len(all) != SecurityTypeCount {
		t.Fatalf("AllSecurityTypes() returned %d values, want %d", len(all), SecurityTypeCount)
	}
	for _, st := range all {
		got, err := ParseSecurityType(st.String())
		if err != nil {
			t.Fatalf("ParseSecurityType(%q): %v", st.String(), err)
		}
		if got != st {
			t.Errorf("ParseSecurityType(%q) = %v, want %v", st.String(), got, st)
		}
	}
}

func TestParseSecurityTypeAliases(t *testing.T) {
	cases := map[string]SecurityType{
		"FX":        SecurityTypeForex,
		" Equity ":  SecurityTypeEquity,
		"us_equity": SecurityTypeEquity,
		"CRYPTO":    SecurityTypeCrypto,
	}
	for in, want := range cases {
		got, err := ParseSecurityType(in)
		if err != nil {
			t.Fatalf("ParseSecurityType(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseSecurityType(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseSecurityType("bond"); err == nil {
		t.Error(`ParseSecurityType("bond") returned nil error`)
	}
}

func TestSecurityTypeInvalid(t *testing.T) {
	st := SecurityType(SecurityTypeCount)
	if st.Valid() {
		t.Error("out-of-range SecurityType reported Valid")
	}
	if got := st.String(); got != "SecurityType(8)" {
		t.Errorf("String() = %q, want %q", got, "SecurityType(8)")
	}
	if _, err := st.MarshalText(); err == nil {
		t.Error("MarshalText on invalid SecurityType returned nil error")
	}
}
