package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Side: +1 buy, -1 sell
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int8(s))
	}
}

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// OrderKind describes how an order was filled. Only market fills exist here.
type OrderKind string

const Market OrderKind = "market"

// Order is a single trade instruction. Time is optional and is copied
// into the resulting TradeRecord.
type Order struct {
	Instrument string
	Side       Side
	Quantity   float64
	Price      float64
	Time       time.Time
}

// TradeRecord is an accepted fill. Records are appended once and never changed.
type TradeRecord struct {
	ID         string
	Instrument string
	Side       Side
	Kind       OrderKind
	Quantity   float64
	Price      float64
	Time       time.Time

	// RealizedPL is the profit locked in by a sell; always 0 for buys.
	RealizedPL float64
}

// Notional is quantity * price.
func (t TradeRecord) Notional() float64 {
	return t.Quantity * t.Price
}
