package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// BollingerReversion buys below the lower band and sells above the upper band.
type BollingerReversion struct {
	Period int
	Width  float64
}

func NewBollingerReversion(period int, width float64) (*BollingerReversion, error) {
	if period == 0 {
		period = 20
	}
	if width == 0 {
		width = 2
	}
	if period < 0 || width < 0 {
		return nil, fmt.Errorf("bollinger: bad parameters period=%d width=%v", period, width)
	}
	return &BollingerReversion{Period: period, Width: width}, nil
}

func (b *BollingerReversion) Name() string {
	return fmt.Sprintf("bollinger(%d,%g)", b.Period, b.Width)
}

func (b *BollingerReversion) Signals(s *market.Series) ([]int, error) {
	upper, _, lower, err := indicators.Bollinger(s.Prices, b.Period, b.Width)
	if err != nil {
		return nil, err
	}
	out := holds(s.Len())
	for i, p := range s.Prices {
		switch {
		case math.IsNaN(upper[i]):
		case p < lower[i]:
			out[i] = Buy
		case p > upper[i]:
			out[i] = Sell
		}
	}
	return out, nil
}

// VWAPCross buys when price crosses above the running VWAP and sells when it
// crosses below. It needs volumes.
type VWAPCross struct{}

func (VWAPCross) Name() string { return "vwap-cross" }

func (VWAPCross) Signals(s *market.Series) ([]int, error) {
	if s.Volumes == nil {
		return nil, fmt.Errorf("vwap-cross: series %q has no volumes", s.Instrument)
	}
	vwap, err := indicators.VWAP(s.Prices, s.Volumes)
	if err != nil {
		return nil, err
	}
	out := holds(s.Len())
	for i := 1; i < len(vwap); i++ {
		if vwap[i-1] == 0 || vwap[i] == 0 {
			continue
		}
		prev := s.Prices[i-1] - vwap[i-1]
		cur := s.Prices[i] - vwap[i]
		switch {
		case prev <= 0 && cur > 0:
			out[i] = Buy
		case prev >= 0 && cur < 0:
			out[i] = Sell
		}
	}
	return out, nil
}
