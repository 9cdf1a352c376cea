package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// MACross buys when the fast average crosses above the slow one and sells on
// the opposite cross. Bars before both averages are warm hold.
type MACross struct {
	Fast        int
	Slow        int
	Exponential bool
}

func NewMACross(fast, slow int, exponential bool) (*MACross, error) {
	if fast == 0 {
		fast = 10
	}
	if slow == 0 {
		slow = 30
	}
	if fast < 0 || slow < 0 {
		return nil, fmt.Errorf("ma-cross: periods must be positive (fast=%d slow=%d)", fast, slow)
	}
	if fast >= slow {
		return nil, fmt.Errorf("ma-cross: fast period %d must be below slow period %d", fast, slow)
	}
	return &MACross{Fast: fast, Slow: slow, Exponential: exponential}, nil
}

func (m *MACross) Name() string {
	kind := "sma"
	if m.Exponential {
		kind = "ema"
	}
	return fmt.Sprintf("%s-cross(%d,%d)", kind, m.Fast, m.Slow)
}

func (m *MACross) average(period int) indicators.Indicator {
	if m.Exponential {
		return indicators.NewEMA(period)
	}
	return indicators.NewMA(period)
}

func (m *MACross) Signals(s *market.Series) ([]int, error) {
	fast, slow := m.average(m.Fast), m.average(m.Slow)
	out := holds(s.Len())

	var (
		lastDiff     float64
		haveLastDiff bool
	)
	for i, p := range s.Prices {
		fast.Update(p)
		slow.Update(p)
		if !fast.Ready() || !slow.Ready() {
			continue
		}

		diff := fast.Value() - slow.Value()
		if haveLastDiff {
			switch {
			case lastDiff <= 0 && diff > 0:
				out[i] = Buy
			case lastDiff >= 0 && diff < 0:
				out[i] = Sell
			}
		}
		lastDiff, haveLastDiff = diff, true
	}
	return out, nil
}
