package brokerage

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"lean/internal/config"
	"lean/internal/domain"
	"lean/internal/txmodel"
	"lean/internal/util"
)

// alpacaTimezone is the location of Alpaca's equity session.
const alpacaTimezone = "America/New_York"

// alpacaWeekdays are the days both Alpaca equity sessions run.
var alpacaWeekdays = []string{"mon", "tue", "wed", "thu", "fri"}

func newDefaultFromConfig(cfg config.Brokerage, _ SubmissionHistory) (BrokerageModel, error) {
	fees, err := parseFees(cfg.Fees)
	if err != nil {
		return nil, err
	}
	return NewDefaultModel(fees), nil
}

func newRulesFromConfig(cfg config.Brokerage, history SubmissionHistory) (BrokerageModel, error) {
	loc, err := parseLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	fees, err := parseFees(cfg.Fees)
	if err != nil {
		return nil, err
	}
	blackouts, err := parseWindows("blackout_windows", cfg.BlackoutWindows, loc)
	if err != nil {
		return nil, err
	}
	maintenance, err := parseWindows("maintenance_windows", cfg.MaintenanceWindows, loc)
	if err != nil {
		return nil, err
	}

	types := domain.AllSecurityTypes()
	if len(cfg.SecurityTypes) > 0 {
		if types, err = parseSecurityTypes("security_types", cfg.SecurityTypes); err != nil {
			return nil, err
		}
	}

	submit := []SubmitRule{
		BlackoutRule{Windows: blackouts},
		NewSecurityTypeRule(types...),
	}
	if len(cfg.OrderTypes) > 0 {
		orderTypes, err := parseOrderTypes(cfg.OrderTypes)
		if err != nil {
			return nil, err
		}
		submit = append(submit, NewOrderTypeRule(orderTypes...))
	}
	submit = append(submit,
		MaxOrderSizeRule{Max: decimal.NewFromFloat(cfg.MaxOrderSize)},
		rateLimitRule(cfg.RateLimit, history),
	)

	execute := []ExecuteRule{
		NewSecurityTypeRule(types...),
		MaintenanceRule{Windows: maintenance},
	}
	if !cfg.RegularSession.IsZero() {
		session, err := parseWindow("regular_session", cfg.RegularSession, loc)
		if err != nil {
			return nil, err
		}
		atc, err := parseSecurityTypes("around_the_clock", cfg.AroundTheClock)
		if err != nil {
			return nil, err
		}
		var extended util.Window
		if cfg.ExtendedHours {
			if cfg.ExtendedSession.IsZero() {
				return nil, &ConfigurationError{Field: "extended_session", Err: errors.New("required when extended_hours is set")}
			}
			if extended, err = parseWindow("extended_session", cfg.ExtendedSession, loc); err != nil {
				return nil, err
			}
		}
		execute = append(execute, SessionRule{
			Session:           session,
			Extended:          extended,
			AllowExtended:     cfg.ExtendedHours,
			ExtendedLimitOnly: cfg.ExtendedLimitOnly,
		}.WithAroundTheClock(atc...))
	}

	return NewRuleModel("rules",
		WithSubmitRules(submit...),
		WithExecuteRules(execute...),
		WithTransactions(StandardTransactions(fees, types...)),
	)
}

func newAlpacaFromConfig(cfg config.Brokerage, history SubmissionHistory) (BrokerageModel, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = alpacaTimezone
	}
	loc, err := parseLocation(tz)
	if err != nil {
		return nil, err
	}
	fees, err := parseFees(cfg.Fees)
	if err != nil {
		return nil, err
	}

	sessionCfg := cfg.RegularSession
	if sessionCfg.IsZero() {
		sessionCfg = config.Window{Start: "09:30", End: "16:00", Weekdays: alpacaWeekdays}
	}
	session, err := parseWindow("regular_session", sessionCfg, loc)
	if err != nil {
		return nil, err
	}
	extendedCfg := cfg.ExtendedSession
	if extendedCfg.IsZero() {
		extendedCfg = config.Window{Start: "04:00", End: "20:00", Weekdays: alpacaWeekdays}
	}
	extended, err := parseWindow("extended_session", extendedCfg, loc)
	if err != nil {
		return nil, err
	}
	blackouts, err := parseWindows("blackout_windows", cfg.BlackoutWindows, loc)
	if err != nil {
		return nil, err
	}
	maintenance, err := parseWindows("maintenance_windows", cfg.MaintenanceWindows, loc)
	if err != nil {
		return nil, err
	}

	return NewAlpacaModel(AlpacaOptions{
		Session:      session,
		Extended:     extended,
		Blackouts:    blackouts,
		Maintenance:  maintenance,
		Fees:         fees,
		RateLimit:    rateLimitRule(cfg.RateLimit, history),
		MaxOrderSize: MaxOrderSizeRule{Max: decimal.NewFromFloat(cfg.MaxOrderSize)},
	})
}

// ---------------------------------------------------------------------------
// Config parsing
// ---------------------------------------------------------------------------

func rateLimitRule(rl config.RateLimit, history SubmissionHistory) RateLimitRule {
	return RateLimitRule{Max: rl.MaxOrders, Window: rl.Window, History: history}
}

func parseLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &ConfigurationError{Field: "timezone", Err: err}
	}
	return loc, nil
}

func parseWindow(field string, w config.Window, loc *time.Location) (util.Window, error) {
	start, err := util.ParseClock(w.Start)
	if err != nil {
		return util.Window{}, &ConfigurationError{Field: field + ".start", Err: err}
	}
	end, err := util.ParseClock(w.End)
	if err != nil {
		return util.Window{}, &ConfigurationError{Field: field + ".end", Err: err}
	}
	days := make([]time.Weekday, 0, len(w.Weekdays))
	for _, s := range w.Weekdays {
		d, err := util.ParseWeekday(s)
		if err != nil {
			return util.Window{}, &ConfigurationError{Field: field + ".weekdays", Err: err}
		}
		days = append(days, d)
	}
	return util.Window{Start: start, End: end, Weekdays: days, Location: loc}, nil
}

func parseWindows(field string, ws []config.Window, loc *time.Location) ([]util.Window, error) {
	out := make([]util.Window, 0, len(ws))
	for i, w := range ws {
		pw, err := parseWindow(fmt.Sprintf("%s[%d]", field, i), w, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, pw)
	}
	return out, nil
}

func parseSecurityTypes(field string, names []string) ([]domain.SecurityType, error) {
	out := make([]domain.SecurityType, 0, len(names))
	for _, n := range names {
		st, err := domain.ParseSecurityType(n)
		if err != nil {
			return nil, &ConfigurationError{Field: field, Err: err}
		}
		out = append(out, st)
	}
	return out, nil
}

func parseOrderTypes(names []string) ([]domain.OrderType, error) {
	out := make([]domain.OrderType, 0, len(names))
	for _, n := range names {
		ot := domain.OrderType(n)
		if !ot.Valid() {
			return nil, &ConfigurationError{Field: "order_types", Err: fmt.Errorf("unknown order type %q", n)}
		}
		out = append(out, ot)
	}
	return out, nil
}

func parseFees(in map[string]config.Fee) (Fees, error) {
	fees := make(Fees, len(in))
	for name, f := range in {
		st, err := domain.ParseSecurityType(name)
		if err != nil {
			return nil, &ConfigurationError{Field: "fees", Err: err}
		}
		fees[st] = txmodel.Schedule{
			PerUnit: decimal.NewFromFloat(f.PerUnit),
			Percent: decimal.NewFromFloat(f.Percent),
			Minimum: decimal.NewFromFloat(f.Minimum),
		}
	}
	return fees, nil
}
