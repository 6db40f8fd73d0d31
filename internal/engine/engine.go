// Package engine coordinates order admission, execution, and account
// tracking: every order passes the brokerage model before it reaches the
// broker, and every simulated fill is priced by the model's transaction
// model.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lean/internal/broker"
	"lean/internal/brokerage"
	"lean/internal/domain"
	"lean/internal/util"
)

// ErrContractViolation is returned when a brokerage model answers in a way
// the BrokerageModel contract forbids.
var ErrContractViolation = errors.New("engine: brokerage model contract violation")

// RejectionError is returned by SubmitOrder when the brokerage model
// refuses an order.
type RejectionError struct {
	OrderID string
	Message brokerage.Message
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("order %s rejected: %s", e.OrderID, e.Message.Text)
}

// Engine orchestrates the order lifecycle by consulting a brokerage model
// for admission and execution, and a simulated broker for bookkeeping.
type Engine struct {
	broker  broker.Simulated
	model   brokerage.BrokerageModel
	history *util.RollingWindow
	log     *slog.Logger

	mu    sync.Mutex
	open  map[string]*domain.Order
	queue []string // open order IDs in submission order
}

// NewEngine creates a new Engine wired with the given dependencies. history
// receives accepted submissions and should be the same window the model's
// rate limit reads; it may be nil. Its horizon should cover the rate-limit
// window, and submission times should not go backwards by more than the
// difference (see util.RollingWindow).
func NewEngine(
	b broker.Simulated,
	model brokerage.BrokerageModel,
	history *util.RollingWindow,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		broker:  b,
		model:   model,
		history: history,
		log:     log,
		open:    make(map[string]*domain.Order),
	}
}

// Model returns the brokerage model the engine consults.
func (e *Engine) Model() brokerage.BrokerageModel {
	return e.model
}

// SubmitOrder asks the brokerage model whether order may be submitted at t
// and, if so, forwards it to the broker. A policy rejection marks the order
// invalid and returns a *RejectionError.
func (e *Engine) SubmitOrder(ctx context.Context, t time.Time, order *domain.Order) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, msg, err := e.model.CanSubmitOrder(t, order)
	if err != nil {
		return nil, fmt.Errorf("checking order: %w", err)
	}
	if !ok {
		if msg == nil {
			return nil, fmt.Errorf("%w: model %s rejected order %s without a message", ErrContractViolation, e.model.Name(), order.ID)
		}
		order.Status = domain.OrderStatusInvalid
		order.UpdatedAt = t
		e.log.Warn("order rejected",
			"order_id", order.ID,
			"symbol", order.Symbol,
			"model", e.model.Name(),
			"code", msg.Code,
			"reason", msg.Text,
		)
		return order, &RejectionError{OrderID: order.ID, Message: *msg}
	}

	if _, err := e.broker.SubmitOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("submitting order %s to %s: %w", order.ID, e.broker.Name(), err)
	}
	if e.history != nil {
		e.history.Record(t)
	}

	order.Status = domain.OrderStatusSubmitted
	order.UpdatedAt = t
	e.open[order.ID] = order
	e.queue = append(e.queue, order.ID)

	e.log.Info("order submitted",
		"order_id", order.ID,
		"symbol", order.Symbol,
		"security_type", order.SecurityType.String(),
		"type", string(order.Type),
		"qty", order.Qty.String(),
	)
	return order, nil
}

// OnBar advances the simulation by one bar: every open order on the bar's
// symbol that the brokerage would execute now is filled through the
// transaction model for its security type. Immediate-or-cancel and
// fill-or-kill orders that are eligible but do not fill are cancelled.
func (e *Engine) OnBar(ctx context.Context, bar domain.Bar) ([]domain.Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		fills []domain.Fill
		done  []string
	)
	defer func() { e.remove(done) }()

	for _, id := range e.queue {
		order := e.open[id]
		if order.Symbol != bar.Symbol {
			continue
		}

		ok, err := e.model.CanExecuteOrder(bar.Timestamp, order)
		if err != nil {
			return fills, fmt.Errorf("checking execution of order %s: %w", id, err)
		}
		if !ok {
			continue
		}

		tm, err := e.model.GetTransactionModel(order.Symbol, order.SecurityType)
		if err != nil {
			return fills, fmt.Errorf("resolving transaction model for order %s: %w", id, err)
		}

		fill, filled := tm.Fill(order, bar)
		if !filled {
			if order.TimeInForce == domain.TimeInForceIOC || order.TimeInForce == domain.TimeInForceFOK {
				if err := e.broker.CancelOrder(ctx, id); err != nil {
					return fills, fmt.Errorf("cancelling order %s: %w", id, err)
				}
				order.Status = domain.OrderStatusCancelled
				order.UpdatedAt = bar.Timestamp
				done = append(done, id)
				e.log.Info("order expired unfilled", "order_id", id, "time_in_force", string(order.TimeInForce))
			}
			continue
		}

		if err := e.broker.ApplyFill(ctx, fill); err != nil {
			return fills, fmt.Errorf("applying fill for order %s: %w", id, err)
		}
		order.Status = domain.OrderStatusFilled
		order.UpdatedAt = bar.Timestamp
		done = append(done, id)
		fills = append(fills, fill)

		e.log.Info("order filled",
			"order_id", id,
			"symbol", fill.Symbol,
			"qty", fill.Qty.String(),
			"price", fill.Price.String(),
			"fee", fill.Fee.String(),
			"model", fill.Model,
		)
	}

	return fills, nil
}

// CancelOrder requests cancellation of an open order.
func (e *Engine) CancelOrder(ctx context.Context, t time.Time, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.open[orderID]
	if !ok {
		return fmt.Errorf("%w: %s", broker.ErrOrderNotFound, orderID)
	}
	if err := e.broker.CancelOrder(ctx, orderID); err != nil {
		return err
	}
	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = t
	e.remove([]string{orderID})
	return nil
}

// OpenOrders returns copies of the working orders in submission order.
func (e *Engine) OpenOrders() []domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Order, 0, len(e.queue))
	for _, id := range e.queue {
		out = append(out, *e.open[id])
	}
	return out
}

// GetPositions returns all currently open positions.
func (e *Engine) GetPositions(ctx context.Context) ([]domain.Position, error) {
	return e.broker.GetPositions(ctx)
}

// GetAccount returns the current account snapshot.
func (e *Engine) GetAccount(ctx context.Context) (*domain.AccountInfo, error) {
	return e.broker.GetAccount(ctx)
}

// remove drops ids from the open set. Must be called with mu held.
func (e *Engine) remove(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(e.open, id)
	}
	kept := e.queue[:0]
	for _, id := range e.queue {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	e.queue = kept
}
