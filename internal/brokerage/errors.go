package brokerage

import (
	"errors"
	"fmt"

	"lean/internal/domain"
)

var (
	// ErrNilOrder is returned when a policy check is given a nil order.
	ErrNilOrder = errors.New("brokerage: nil order")

	// ErrUnsupportedSecurityType matches every *ResolutionError caused by a
	// security type the model cannot serve, including unknown values.
	ErrUnsupportedSecurityType = errors.New("brokerage: unsupported security type")

	// ErrUnknownSecurityType matches resolution errors for values outside
	// the SecurityType enumeration.
	ErrUnknownSecurityType = errors.New("brokerage: unknown security type")

	// ErrInvalidSymbol matches resolution errors for an empty symbol.
	ErrInvalidSymbol = errors.New("brokerage: invalid symbol")

	// ErrUnknownModel is wrapped by *ConfigurationError when a model name is
	// not registered.
	ErrUnknownModel = errors.New("brokerage: unknown model")
)

// ResolutionKind classifies a transaction-model resolution failure.
type ResolutionKind string

const (
	KindUnsupportedSecurityType ResolutionKind = "UnsupportedSecurityType"
	KindUnknownSecurityType     ResolutionKind = "UnknownSecurityType"
	KindInvalidSymbol           ResolutionKind = "InvalidSymbol"
)

// ResolutionError reports that a model has no transaction model for the
// requested instrument.
type ResolutionError struct {
	Model        string
	Symbol       string
	SecurityType domain.SecurityType
	Kind         ResolutionKind
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case KindInvalidSymbol:
		return fmt.Sprintf("brokerage %s: empty symbol", e.Model)
	case KindUnknownSecurityType:
		return fmt.Sprintf("brokerage %s: unknown security type %s for %s", e.Model, e.SecurityType, e.Symbol)
	default:
		return fmt.Sprintf("brokerage %s: no transaction model for %s security %s", e.Model, e.SecurityType, e.Symbol)
	}
}

// Is lets errors.Is match a ResolutionError against the package sentinels.
func (e *ResolutionError) Is(target error) bool {
	switch target {
	case ErrUnsupportedSecurityType:
		return e.Kind == KindUnsupportedSecurityType || e.Kind == KindUnknownSecurityType
	case ErrUnknownSecurityType:
		return e.Kind == KindUnknownSecurityType
	case ErrInvalidSymbol:
		return e.Kind == KindInvalidSymbol
	}
	return false
}

// ConfigurationError reports an invalid brokerage configuration value.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("brokerage config %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
