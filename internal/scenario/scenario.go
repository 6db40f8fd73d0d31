// Package scenario loads YAML order and bar fixtures and replays them
// through the engine.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"lean/internal/domain"
	"lean/internal/engine"
)

// ---------------------------------------------------------------------------
// File format
// ---------------------------------------------------------------------------

type file struct {
	Orders []orderRecord `yaml:"orders"`
	Bars   []barRecord   `yaml:"bars"`
}

type orderRecord struct {
	ID            string    `yaml:"id"`
	Time          time.Time `yaml:"time"`
	Symbol        string    `yaml:"symbol"`
	SecurityType  string    `yaml:"security_type"`
	Side          string    `yaml:"side"`
	Type          string    `yaml:"type"`
	TimeInForce   string    `yaml:"time_in_force"`
	Qty           string    `yaml:"qty"`
	LimitPrice    string    `yaml:"limit_price"`
	StopPrice     string    `yaml:"stop_price"`
	ExtendedHours bool      `yaml:"extended_hours"`
}

type barRecord struct {
	Symbol string    `yaml:"symbol"`
	Time   time.Time `yaml:"time"`
	Open   string    `yaml:"open"`
	High   string    `yaml:"high"`
	Low    string    `yaml:"low"`
	Close  string    `yaml:"close"`
	Volume int64     `yaml:"volume"`
}

// Submission is an order proposed at a point in time.
type Submission struct {
	Time  time.Time
	Order *domain.Order
}

// Scenario is a parsed fixture: submissions and bars, each sorted by time.
type Scenario struct {
	Submissions []Submission
	Bars        []domain.Bar
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario from YAML.
func Parse(data []byte) (*Scenario, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	s := &Scenario{}
	for i, rec := range f.Orders {
		o, err := rec.order()
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		s.Submissions = append(s.Submissions, Submission{Time: rec.Time, Order: o})
	}
	for i, rec := range f.Bars {
		b, err := rec.bar()
		if err != nil {
			return nil, fmt.Errorf("bars[%d]: %w", i, err)
		}
		s.Bars = append(s.Bars, b)
	}

	sort.SliceStable(s.Submissions, func(i, j int) bool { return s.Submissions[i].Time.Before(s.Submissions[j].Time) })
	sort.SliceStable(s.Bars, func(i, j int) bool { return s.Bars[i].Timestamp.Before(s.Bars[j].Timestamp) })
	return s, nil
}

func (r orderRecord) order() (*domain.Order, error) {
	if r.Symbol == "" {
		return nil, errors.New("missing symbol")
	}
	if r.Time.IsZero() {
		return nil, errors.New("missing time")
	}
	st := domain.SecurityTypeEquity
	if r.SecurityType != "" {
		var err error
		if st, err = domain.ParseSecurityType(r.SecurityType); err != nil {
			return nil, err
		}
	}
	qty, err := parseDecimal("qty", r.Qty)
	if err != nil {
		return nil, err
	}
	limit, err := parseDecimal("limit_price", r.LimitPrice)
	if err != nil {
		return nil, err
	}
	stop, err := parseDecimal("stop_price", r.StopPrice)
	if err != nil {
		return nil, err
	}

	side := domain.OrderSide(r.Side)
	if side == "" {
		side = domain.OrderSideBuy
	}
	typ := domain.OrderType(r.Type)
	if typ == "" {
		typ = domain.OrderTypeMarket
	}

	o := domain.NewOrder(r.Symbol, st, side, typ, qty, r.Time)
	if r.ID != "" {
		o.ID = r.ID
	}
	if r.TimeInForce != "" {
		o.TimeInForce = domain.TimeInForce(r.TimeInForce)
	}
	o.LimitPrice = limit
	o.StopPrice = stop
	o.ExtendedHours = r.ExtendedHours
	return o, nil
}

func (r barRecord) bar() (domain.Bar, error) {
	if r.Symbol == "" {
		return domain.Bar{}, errors.New("missing symbol")
	}
	b := domain.Bar{Symbol: r.Symbol, Timestamp: r.Time, Volume: r.Volume}
	for _, f := range []struct {
		name string
		in   string
		out  *decimal.Decimal
	}{
		{"open", r.Open, &b.Open},
		{"high", r.High, &b.High},
		{"low", r.Low, &b.Low},
		{"close", r.Close, &b.Close},
	} {
		v, err := parseDecimal(f.name, f.in)
		if err != nil {
			return domain.Bar{}, err
		}
		*f.out = v
	}
	return b, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Replay
// ---------------------------------------------------------------------------

// Result summarises a replay.
type Result struct {
	Accepted   []*domain.Order
	Rejections []engine.RejectionError
	Fills      []domain.Fill
}

// Run replays s through e in time order. Submissions at the same instant as
// a bar are processed before it. Policy rejections are collected in the
// result; any other error aborts the replay.
func Run(ctx context.Context, e *engine.Engine, s *Scenario) (*Result, error) {
	res := &Result{}
	i, j := 0, 0
	for i < len(s.Submissions) || j < len(s.Bars) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if i < len(s.Submissions) && (j >= len(s.Bars) || !s.Submissions[i].Time.After(s.Bars[j].Timestamp)) {
			sub := s.Submissions[i]
			i++
			order, err := e.SubmitOrder(ctx, sub.Time, sub.Order)
			var rej *engine.RejectionError
			switch {
			case errors.As(err, &rej):
				res.Rejections = append(res.Rejections, *rej)
			case err != nil:
				return res, err
			default:
				res.Accepted = append(res.Accepted, order)
			}
			continue
		}

		fills, err := e.OnBar(ctx, s.Bars[j])
		j++
		res.Fills = append(res.Fills, fills...)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
