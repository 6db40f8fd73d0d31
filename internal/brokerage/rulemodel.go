package brokerage

import (
	"errors"
	"fmt"
	"time"

	"lean/internal/domain"
	"lean/internal/txmodel"
)

// Compile-time interface check.
var _ BrokerageModel = (*RuleModel)(nil)

// RuleModel is a configurable brokerage model: an ordered list of
// submission rules, a list of execution rules, and a transaction table. The
// first failing submission rule decides the rejection message.
type RuleModel struct {
	name    string
	submit  []SubmitRule
	execute []ExecuteRule
	table   TransactionTable
}

// Option configures a RuleModel during construction.
type Option func(*RuleModel) error

// WithSubmitRules appends submission rules.
func WithSubmitRules(rules ...SubmitRule) Option {
	return func(m *RuleModel) error {
		for _, r := range rules {
			if r == nil {
				return errors.New("nil submit rule")
			}
		}
		m.submit = append(m.submit, rules...)
		return nil
	}
}

// WithExecuteRules appends execution rules.
func WithExecuteRules(rules ...ExecuteRule) Option {
	return func(m *RuleModel) error {
		for _, r := range rules {
			if r == nil {
				return errors.New("nil execute rule")
			}
		}
		m.execute = append(m.execute, rules...)
		return nil
	}
}

// WithTransactions replaces the transaction table.
func WithTransactions(table TransactionTable) Option {
	return func(m *RuleModel) error {
		m.table = table
		return nil
	}
}

// WithTransactionModel binds st to tm, overriding any earlier binding.
func WithTransactionModel(st domain.SecurityType, tm txmodel.TransactionModel) Option {
	return func(m *RuleModel) error {
		if !st.Valid() {
			return fmt.Errorf("invalid security type %s", st)
		}
		if tm == nil {
			return fmt.Errorf("nil transaction model for %s", st)
		}
		m.table[st] = tm
		return nil
	}
}

// NewRuleModel builds a RuleModel. With no transaction options the model
// supports no security types.
func NewRuleModel(name string, opts ...Option) (*RuleModel, error) {
	m := &RuleModel{name: name}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, &ConfigurationError{Field: name, Err: err}
		}
	}
	return m, nil
}

// Name returns the model name given at construction.
func (m *RuleModel) Name() string {
	return m.name
}

// CanSubmitOrder runs the submission rules in order.
func (m *RuleModel) CanSubmitOrder(t time.Time, order *domain.Order) (bool, *Message, error) {
	if order == nil {
		return false, nil, ErrNilOrder
	}
	for _, r := range m.submit {
		if msg := r.CheckSubmit(t, order); msg != nil {
			return false, msg, nil
		}
	}
	return true, nil, nil
}

// CanExecuteOrder requires every execution rule to allow the order.
func (m *RuleModel) CanExecuteOrder(t time.Time, order *domain.Order) (bool, error) {
	if order == nil {
		return false, ErrNilOrder
	}
	for _, r := range m.execute {
		if !r.AllowExecute(t, order) {
			return false, nil
		}
	}
	return true, nil
}

// GetTransactionModel looks st up in the transaction table.
func (m *RuleModel) GetTransactionModel(symbol string, st domain.SecurityType) (txmodel.TransactionModel, error) {
	return resolve(m.name, &m.table, symbol, st)
}

// SupportedSecurityTypes returns the types with a transaction model.
func (m *RuleModel) SupportedSecurityTypes() []domain.SecurityType {
	var out []domain.SecurityType
	for _, st := range domain.AllSecurityTypes() {
		if m.table[st] != nil {
			out = append(out, st)
		}
	}
	return out
}
