// Package broker defines the Broker interface and provides a simulated
// brokerage account for backtesting and paper trading.
package broker

import (
	"context"

	"lean/internal/domain"
)

// Broker abstracts brokerage operations for order execution and account management.
type Broker interface {
	// Name returns the broker identifier (e.g. "simulator").
	Name() string

	// SubmitOrder sends an order to the brokerage for execution.
	SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// CancelOrder requests cancellation of an open order by its ID.
	CancelOrder(ctx context.Context, orderID string) error

	// GetPositions returns all current positions held at the brokerage.
	GetPositions(ctx context.Context) ([]domain.Position, error)

	// GetAccount returns a snapshot of the account's financial metrics.
	GetAccount(ctx context.Context) (*domain.AccountInfo, error)
}

// Simulated is a Broker whose executions are driven by the caller.
type Simulated interface {
	Broker

	// ApplyFill books an execution against the account.
	ApplyFill(ctx context.Context, fill domain.Fill) error
}
