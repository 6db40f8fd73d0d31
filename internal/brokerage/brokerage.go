// Package brokerage defines the BrokerageModel interface, the policy that
// decides whether a brokerage would accept and execute an order and which
// transaction model applies to an instrument, and provides the default,
// rule-based, and Alpaca-style implementations.
package brokerage

import (
	"fmt"
	"time"

	"lean/internal/domain"
	"lean/internal/txmodel"
)

// BrokerageModel models a brokerage's order admission rules, execution
// rules, and fee/fill behaviour. Implementations are immutable after
// construction and safe for concurrent use. Every method is a pure function
// of its arguments and the model's configuration, with one exception: a
// model carrying a RateLimitRule also reads the SubmissionHistory supplied
// by the order pipeline, so CanSubmitOrder answers can change as the
// pipeline records submissions. No method reads the wall clock.
type BrokerageModel interface {
	// Name returns the model identifier (e.g. "default", "alpaca").
	Name() string

	// CanSubmitOrder reports whether the brokerage would accept order at
	// time t. When it returns false the message explains why; when it
	// returns true the message is nil. A rejection is not an error: err is
	// only non-nil for contract violations such as a nil order.
	CanSubmitOrder(t time.Time, order *domain.Order) (bool, *Message, error)

	// CanExecuteOrder reports whether the brokerage would execute order at
	// time t, assuming prices allow a fill. It does not consider whether the
	// exchange itself is open.
	CanExecuteOrder(t time.Time, order *domain.Order) (bool, error)

	// GetTransactionModel returns the fee and fill model for symbol. The
	// same arguments always yield the same model. Security types the
	// brokerage has no model for produce a *ResolutionError.
	GetTransactionModel(symbol string, st domain.SecurityType) (txmodel.TransactionModel, error)
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// MessageType is the severity of a brokerage message.
type MessageType string

const (
	MessageTypeInformation MessageType = "information"
	MessageTypeWarning     MessageType = "warning"
	MessageTypeError       MessageType = "error"
)

// Message codes produced by the built-in rules.
const (
	CodeBlackout                = "Blackout"
	CodeOrderSizeLimit          = "OrderSizeLimit"
	CodeUnsupportedSecurityType = "UnsupportedSecurityType"
	CodeUnsupportedOrderType    = "UnsupportedOrderType"
	CodeRateLimit               = "RateLimit"
	CodeInvalidOrder            = "InvalidOrder"
)

// Message explains why a brokerage rejected an order. Treat it as
// immutable.
type Message struct {
	Type MessageType
	Code string
	Text string
}

// newWarning returns a warning-level message.
func newWarning(code, format string, args ...any) *Message {
	return &Message{
		Type: MessageTypeWarning,
		Code: code,
		Text: fmt.Sprintf(format, args...),
	}
}

func (m Message) String() string {
	return fmt.Sprintf("%s [%s]: %s", m.Type, m.Code, m.Text)
}
