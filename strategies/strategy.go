// Package strategies turns a price series into the -1/0/+1 signal array the
// backtest engine consumes.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/backtester/market"
)

// Signal values, mirrored from the engine.
const (
	Sell = -1
	Hold = 0
	Buy  = +1
)

// SignalGenerator emits one signal per bar of s.
type SignalGenerator interface {
	Name() string
	Signals(s *market.Series) ([]int, error)
}

// Params carries every tunable any built-in generator understands.
// Zero values fall back to each generator's default.
type Params struct {
	Fast       int
	Slow       int
	Period     int
	Oversold   float64
	Overbought float64
	Width      float64
}

// Names lists the generators ByName knows.
func Names() []string {
	return []string{"noop", "buy-hold", "sma-cross", "ema-cross", "rsi", "bollinger", "vwap-cross"}
}

func ByName(name string, p Params) (SignalGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "buy-hold", "open-once":
		return BuyAndHold{}, nil

	case "sma-cross", "smacross":
		return NewMACross(p.Fast, p.Slow, false)

	case "ema-cross", "emacross":
		return NewMACross(p.Fast, p.Slow, true)

	case "rsi", "rsi-threshold":
		return NewRSIThreshold(p.Period, p.Oversold, p.Overbought)

	case "bollinger":
		return NewBollingerReversion(p.Period, p.Width)

	case "vwap-cross", "vwap":
		return VWAPCross{}, nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
}

func holds(n int) []int {
	return make([]int, n)
}
