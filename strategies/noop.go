package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/market"
)

// Noop holds on every bar.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Signals(s *market.Series) ([]int, error) {
	return holds(s.Len()), nil
}

// BuyAndHold buys on the first bar and never sells.
type BuyAndHold struct{}

func (BuyAndHold) Name() string { return "buy-hold" }

func (BuyAndHold) Signals(s *market.Series) ([]int, error) {
	out := holds(s.Len())
	if len(out) > 0 {
		out[0] = Buy
	}
	return out, nil
}

// Fixed replays a precomputed signal array, e.g. the signal column of a CSV.
type Fixed struct {
	Values []int
}

func (Fixed) Name() string { return "fixed" }

func (f Fixed) Signals(s *market.Series) ([]int, error) {
	if len(f.Values) != s.Len() {
		return nil, fmt.Errorf("fixed: %d signals for %d bars", len(f.Values), s.Len())
	}
	return append([]int(nil), f.Values...), nil
}
