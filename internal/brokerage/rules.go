package brokerage

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lean/internal/domain"
	"lean/internal/util"
)

// SubmitRule is one independently failable admission check. CheckSubmit
// returns nil when the order passes.
type SubmitRule interface {
	CheckSubmit(t time.Time, order *domain.Order) *Message
}

// ExecuteRule is one execution-eligibility check.
type ExecuteRule interface {
	AllowExecute(t time.Time, order *domain.Order) bool
}

// SubmissionHistory is a read-only view of past accepted submissions, kept
// by the order pipeline. CountBetween counts submissions in (since, until].
type SubmissionHistory interface {
	CountBetween(since, until time.Time) int
}

// Compile-time interface checks.
var (
	_ SubmitRule  = BlackoutRule{}
	_ SubmitRule  = MaxOrderSizeRule{}
	_ SubmitRule  = SecurityTypeRule{}
	_ ExecuteRule = SecurityTypeRule{}
	_ SubmitRule  = OrderTypeRule{}
	_ SubmitRule  = RateLimitRule{}
	_ ExecuteRule = SessionRule{}
	_ ExecuteRule = MaintenanceRule{}
)

// ---------------------------------------------------------------------------
// Submission rules
// ---------------------------------------------------------------------------

// BlackoutRule rejects submissions while the brokerage has no connectivity.
type BlackoutRule struct {
	Windows []util.Window
}

// CheckSubmit implements SubmitRule.
func (r BlackoutRule) CheckSubmit(t time.Time, _ *domain.Order) *Message {
	if w, ok := util.AnyContains(r.Windows, t); ok {
		return newWarning(CodeBlackout, "brokerage is unavailable during the %s blackout window", w)
	}
	return nil
}

// MaxOrderSizeRule rejects orders whose absolute quantity exceeds Max. A
// non-positive Max disables the rule.
type MaxOrderSizeRule struct {
	Max decimal.Decimal
}

// CheckSubmit implements SubmitRule.
func (r MaxOrderSizeRule) CheckSubmit(_ time.Time, order *domain.Order) *Message {
	if !r.Max.IsPositive() {
		return nil
	}
	if qty := order.Qty.Abs(); qty.GreaterThan(r.Max) {
		return newWarning(CodeOrderSizeLimit, "order quantity %s exceeds maximum order size %s", qty, r.Max)
	}
	return nil
}

// SecurityTypeRule admits and executes only the listed security types.
type SecurityTypeRule struct {
	allowed [domain.SecurityTypeCount]bool
}

// NewSecurityTypeRule returns a rule allowing exactly types.
func NewSecurityTypeRule(types ...domain.SecurityType) SecurityTypeRule {
	var r SecurityTypeRule
	for _, st := range types {
		if st.Valid() {
			r.allowed[st] = true
		}
	}
	return r
}

// Allows reports whether st is permitted.
func (r SecurityTypeRule) Allows(st domain.SecurityType) bool {
	return st.Valid() && r.allowed[st]
}

// CheckSubmit implements SubmitRule.
func (r SecurityTypeRule) CheckSubmit(_ time.Time, order *domain.Order) *Message {
	if !r.Allows(order.SecurityType) {
		return newWarning(CodeUnsupportedSecurityType,
			"security type %s is not supported by this brokerage", order.SecurityType)
	}
	return nil
}

// AllowExecute implements ExecuteRule.
func (r SecurityTypeRule) AllowExecute(_ time.Time, order *domain.Order) bool {
	return r.Allows(order.SecurityType)
}

// OrderTypeRule admits only the listed order types. The map is never
// written after construction.
type OrderTypeRule struct {
	allowed map[domain.OrderType]bool
}

// NewOrderTypeRule returns a rule allowing exactly types.
func NewOrderTypeRule(types ...domain.OrderType) OrderTypeRule {
	allowed := make(map[domain.OrderType]bool, len(types))
	for _, ot := range types {
		allowed[ot] = true
	}
	return OrderTypeRule{allowed: allowed}
}

// CheckSubmit implements SubmitRule.
func (r OrderTypeRule) CheckSubmit(_ time.Time, order *domain.Order) *Message {
	if r.allowed[order.Type] {
		return nil
	}
	names := make([]string, 0, len(r.allowed))
	for _, ot := range domain.AllOrderTypes() {
		if r.allowed[ot] {
			names = append(names, string(ot))
		}
	}
	return newWarning(CodeUnsupportedOrderType,
		"order type %q is not supported by this brokerage (supported: %s)", order.Type, strings.Join(names, ", "))
}

// RateLimitRule rejects a submission when Max or more submissions were
// accepted in the trailing Window ending at the submission time.
type RateLimitRule struct {
	Max     int
	Window  time.Duration
	History SubmissionHistory
}

// CheckSubmit implements SubmitRule.
func (r RateLimitRule) CheckSubmit(t time.Time, _ *domain.Order) *Message {
	if r.Max <= 0 || r.Window <= 0 || r.History == nil {
		return nil
	}
	if n := r.History.CountBetween(t.Add(-r.Window), t); n >= r.Max {
		return newWarning(CodeRateLimit,
			"rate limit of %d orders per %s reached", r.Max, r.Window)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Execution rules
// ---------------------------------------------------------------------------

// SessionRule restricts execution to the regular session. Outside it, an
// order may execute only if AllowExtended is set, t falls inside the
// Extended session, the order opted in to extended hours, and, when
// ExtendedLimitOnly is set, it is a limit order. A zero Extended window is
// empty. Security types marked around-the-clock are never restricted.
type SessionRule struct {
	Session           util.Window
	Extended          util.Window
	AllowExtended     bool
	ExtendedLimitOnly bool
	aroundTheClock    [domain.SecurityTypeCount]bool
}

// WithAroundTheClock returns a copy of r that never restricts types.
func (r SessionRule) WithAroundTheClock(types ...domain.SecurityType) SessionRule {
	for _, st := range types {
		if st.Valid() {
			r.aroundTheClock[st] = true
		}
	}
	return r
}

// AllowExecute implements ExecuteRule.
func (r SessionRule) AllowExecute(t time.Time, order *domain.Order) bool {
	if order.SecurityType.Valid() && r.aroundTheClock[order.SecurityType] {
		return true
	}
	if r.Session.Contains(t) {
		return true
	}
	if !r.AllowExtended || !order.ExtendedHours || !r.Extended.Contains(t) {
		return false
	}
	return !r.ExtendedLimitOnly || order.Type == domain.OrderTypeLimit
}

// MaintenanceRule blocks execution inside maintenance windows.
type MaintenanceRule struct {
	Windows []util.Window
}

// AllowExecute implements ExecuteRule.
func (r MaintenanceRule) AllowExecute(t time.Time, _ *domain.Order) bool {
	_, inside := util.AnyContains(r.Windows, t)
	return !inside
}
