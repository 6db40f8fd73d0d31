package brokerage

import (
	"time"

	"lean/internal/domain"
	"lean/internal/txmodel"
)

// Compile-time interface check.
var _ BrokerageModel = (*DefaultModel)(nil)

// DefaultModel places no restrictions on submission or execution and binds
// every security type to its standard transaction model.
type DefaultModel struct {
	table TransactionTable
}

// NewDefaultModel creates a DefaultModel charging the given fees.
func NewDefaultModel(fees Fees) *DefaultModel {
	return &DefaultModel{table: StandardTransactions(fees)}
}

// Name returns "default".
func (m *DefaultModel) Name() string {
	return "default"
}

// CanSubmitOrder accepts every order.
func (m *DefaultModel) CanSubmitOrder(_ time.Time, order *domain.Order) (bool, *Message, error) {
	if order == nil {
		return false, nil, ErrNilOrder
	}
	return true, nil, nil
}

// CanExecuteOrder allows every execution.
func (m *DefaultModel) CanExecuteOrder(_ time.Time, order *domain.Order) (bool, error) {
	if order == nil {
		return false, ErrNilOrder
	}
	return true, nil
}

// GetTransactionModel returns the standard model for st.
func (m *DefaultModel) GetTransactionModel(symbol string, st domain.SecurityType) (txmodel.TransactionModel, error) {
	return resolve(m.Name(), &m.table, symbol, st)
}
