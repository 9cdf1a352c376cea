// Package ledger tracks cash and long-only positions for a single simulation run.
//
// A Ledger is not safe for concurrent use. Each run must own its ledger;
// parallel runs (parameter sweeps) each create their own.
package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/backtester/pkg/id"
)

// Epsilon is the quantity at or below which a position counts as flat.
const Epsilon = 1e-9

var (
	ErrInvalidOrder         = errors.New("ledger: quantity and price must be positive")
	ErrInsufficientCapital  = errors.New("ledger: insufficient capital")
	ErrInsufficientPosition = errors.New("ledger: insufficient position")
)

type Ledger struct {
	initial   float64
	cash      float64
	positions map[string]*Position
	trades    []TradeRecord
	realized  float64

	policy CostPolicy
	newID  func() string
}

type Option func(*Ledger)

// WithCostPolicy replaces the default AverageCost policy.
func WithCostPolicy(p CostPolicy) Option {
	return func(l *Ledger) {
		if p != nil {
			l.policy = p
		}
	}
}

// WithIDs sets the trade ID source. Tests use it for deterministic IDs.
func WithIDs(fn func() string) Option {
	return func(l *Ledger) {
		if fn != nil {
			l.newID = fn
		}
	}
}

func New(initialCapital float64, opts ...Option) *Ledger {
	l := &Ledger{
		initial:   initialCapital,
		cash:      initialCapital,
		positions: make(map[string]*Position),
		policy:    AverageCost{},
		newID:     id.New,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// UpdateMark revalues an open position at price. Unknown instruments are ignored.
func (l *Ledger) UpdateMark(instrument string, price float64) {
	if p, ok := l.positions[instrument]; ok {
		p.mark(price)
	}
}

// ExecuteTrade is Execute without a timestamp.
func (l *Ledger) ExecuteTrade(instrument string, quantity, price float64, side Side) (TradeRecord, error) {
	return l.Execute(Order{
		Instrument: instrument,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
	})
}

// Execute fills o at o.Price in full or not at all. A rejected order returns
// one of the package errors and leaves the ledger untouched.
func (l *Ledger) Execute(o Order) (TradeRecord, error) {
	if !(o.Quantity > 0) || !(o.Price > 0) || math.IsInf(o.Quantity, 0) || math.IsInf(o.Price, 0) {
		return TradeRecord{}, fmt.Errorf("%s %v %s @ %v: %w", o.Side, o.Quantity, o.Instrument, o.Price, ErrInvalidOrder)
	}

	var realized float64
	switch o.Side {
	case Buy:
		required := o.Quantity * o.Price
		if required > l.cash {
			return TradeRecord{}, fmt.Errorf("buy %v %s @ %v: need %.6f, have %.6f: %w",
				o.Quantity, o.Instrument, o.Price, required, l.cash, ErrInsufficientCapital)
		}
		l.cash -= required

		p, ok := l.positions[o.Instrument]
		if !ok {
			p = &Position{
				Instrument: o.Instrument,
				Quantity:   o.Quantity,
				AvgCost:    o.Price,
			}
			l.positions[o.Instrument] = p
		} else {
			p.AvgCost = (p.Quantity*p.AvgCost + o.Quantity*o.Price) / (p.Quantity + o.Quantity)
			p.Quantity += o.Quantity
		}
		p.mark(o.Price)

	case Sell:
		p, ok := l.positions[o.Instrument]
		if !ok || p.Quantity < o.Quantity {
			held := 0.0
			if ok {
				held = p.Quantity
			}
			return TradeRecord{}, fmt.Errorf("sell %v %s: holding %v: %w",
				o.Quantity, o.Instrument, held, ErrInsufficientPosition)
		}

		realized = l.policy.Realize(*p, o.Quantity, o.Price)
		l.cash += o.Quantity * o.Price
		l.realized += realized
		p.RealizedPL += realized
		p.Quantity -= o.Quantity
		if p.Quantity <= Epsilon {
			delete(l.positions, o.Instrument)
		} else {
			p.mark(o.Price)
		}

	default:
		return TradeRecord{}, fmt.Errorf("side %d: %w", int8(o.Side), ErrInvalidOrder)
	}

	rec := TradeRecord{
		ID:         l.newID(),
		Instrument: o.Instrument,
		Side:       o.Side,
		Kind:       Market,
		Quantity:   o.Quantity,
		Price:      o.Price,
		Time:       o.Time,
		RealizedPL: realized,
	}
	l.trades = append(l.trades, rec)
	return rec, nil
}

// TotalValue is cash plus every open position at its mark price.
func (l *Ledger) TotalValue() float64 {
	v := l.cash
	for _, p := range l.positions {
		v += p.MarketValue()
	}
	return v
}

func (l *Ledger) Cash() float64 { return l.cash }

func (l *Ledger) InitialCapital() float64 { return l.initial }

// RealizedPnL is the running total across all sells, including positions
// that have since been closed and removed.
func (l *Ledger) RealizedPnL() float64 { return l.realized }

// CostPolicy reports the active realized-PnL policy.
func (l *Ledger) CostPolicy() CostPolicy { return l.policy }

// Position returns a copy of the open position for instrument.
func (l *Ledger) Position(instrument string) (Position, bool) {
	p, ok := l.positions[instrument]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Positions returns a copy of every open position keyed by instrument.
func (l *Ledger) Positions() map[string]Position {
	out := make(map[string]Position, len(l.positions))
	for k, p := range l.positions {
		out[k] = *p
	}
	return out
}

// Trades returns a copy of the trade history in execution order.
func (l *Ledger) Trades() []TradeRecord {
	out := make([]TradeRecord, len(l.trades))
	copy(out, l.trades)
	return out
}
