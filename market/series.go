// Package market shapes raw price history into aligned series for a backtest.
package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrEmptySeries = errors.New("market: empty series")

// Series is one instrument's price history. Times and Volumes are optional
// but, when present, must be as long as Prices.
type Series struct {
	Instrument string
	Times      []time.Time
	Prices     []float64
	Volumes    []float64
}

func (s *Series) Len() int { return len(s.Prices) }

// Validate checks lengths, positive finite prices and strictly increasing times.
func (s *Series) Validate() error {
	if len(s.Prices) == 0 {
		return ErrEmptySeries
	}
	if s.Times != nil && len(s.Times) != len(s.Prices) {
		return fmt.Errorf("market: %d times for %d prices", len(s.Times), len(s.Prices))
	}
	if s.Volumes != nil && len(s.Volumes) != len(s.Prices) {
		return fmt.Errorf("market: %d volumes for %d prices", len(s.Volumes), len(s.Prices))
	}
	for i, p := range s.Prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("market: bar %d: bad price %v", i, p)
		}
	}
	for i := 1; i < len(s.Times); i++ {
		if !s.Times[i].After(s.Times[i-1]) {
			return fmt.Errorf("market: bar %d: time %s not after %s", i,
				s.Times[i].Format(time.RFC3339), s.Times[i-1].Format(time.RFC3339))
		}
	}
	return nil
}

// Bounds returns the index window [lo, hi) of bars with from <= time < to.
// A zero bound is open. Series without times span every bar.
func (s *Series) Bounds(from, to time.Time) (lo, hi int) {
	if s.Times == nil {
		return 0, len(s.Prices)
	}
	lo, hi = -1, -1
	for i, t := range s.Times {
		if !inRange(t, from, to) {
			continue
		}
		if lo < 0 {
			lo = i
		}
		hi = i + 1
	}
	if lo < 0 {
		return 0, 0
	}
	return lo, hi
}

// Range returns the bars with from <= time < to as a new Series.
// It assumes Validate has passed (times ascending).
func (s *Series) Range(from, to time.Time) *Series {
	lo, hi := s.Bounds(from, to)
	out := &Series{Instrument: s.Instrument}
	out.Prices = append([]float64(nil), s.Prices[lo:hi]...)
	if s.Times != nil {
		out.Times = append([]time.Time(nil), s.Times[lo:hi]...)
	}
	if s.Volumes != nil {
		out.Volumes = append([]float64(nil), s.Volumes[lo:hi]...)
	}
	return out
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
