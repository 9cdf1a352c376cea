package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// RSIThreshold buys while RSI is below Oversold and sells while it is above Overbought.
type RSIThreshold struct {
	Period     int
	Oversold   float64
	Overbought float64
}

func NewRSIThreshold(period int, oversold, overbought float64) (*RSIThreshold, error) {
	if period == 0 {
		period = 14
	}
	if oversold == 0 {
		oversold = 30
	}
	if overbought == 0 {
		overbought = 70
	}
	if period < 0 || oversold < 0 || overbought > 100 || oversold >= overbought {
		return nil, fmt.Errorf("rsi: bad parameters period=%d oversold=%v overbought=%v", period, oversold, overbought)
	}
	return &RSIThreshold{Period: period, Oversold: oversold, Overbought: overbought}, nil
}

func (r *RSIThreshold) Name() string {
	return fmt.Sprintf("rsi(%d,%g,%g)", r.Period, r.Oversold, r.Overbought)
}

func (r *RSIThreshold) Signals(s *market.Series) ([]int, error) {
	vals, err := indicators.RSI(s.Prices, r.Period)
	if err != nil {
		return nil, err
	}
	out := holds(len(vals))
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
		case v < r.Oversold:
			out[i] = Buy
		case v > r.Overbought:
			out[i] = Sell
		}
	}
	return out, nil
}
