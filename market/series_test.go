package market

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       Series
		wantErr bool
	}{
		{"ok", Series{Prices: []float64{1, 2}, Times: []time.Time{day(1), day(2)}}, false},
		{"no times", Series{Prices: []float64{1, 2}}, false},
		{"empty", Series{}, true},
		{"times length", Series{Prices: []float64{1, 2}, Times: []time.Time{day(1)}}, true},
		{"volumes length", Series{Prices: []float64{1}, Volumes: []float64{1, 2}}, true},
		{"zero price", Series{Prices: []float64{1, 0}}, true},
		{"nan price", Series{Prices: []float64{math.NaN()}}, true},
		{"unordered times", Series{Prices: []float64{1, 2}, Times: []time.Time{day(2), day(1)}}, true},
		{"duplicate times", Series{Prices: []float64{1, 2}, Times: []time.Time{day(2), day(2)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.True(t, errors.Is((&Series{}).Validate(), ErrEmptySeries))
}

func TestSeriesRange(t *testing.T) {
	t.Parallel()

	s := &Series{
		Instrument: "SPY",
		Times:      []time.Time{day(1), day(2), day(3), day(4)},
		Prices:     []float64{10, 11, 12, 13},
		Volumes:    []float64{100, 110, 120, 130},
	}

	tests := []struct {
		name     string
		from, to time.Time
		want     []float64
	}{
		{"open", time.Time{}, time.Time{}, []float64{10, 11, 12, 13}},
		{"from", day(3), time.Time{}, []float64{12, 13}},
		{"to exclusive", time.Time{}, day(3), []float64{10, 11}},
		{"window", day(2), day(4), []float64{11, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Range(tt.from, tt.to)
			assert.Equal(t, "SPY", got.Instrument)
			assert.Equal(t, tt.want, got.Prices)
			assert.Len(t, got.Times, len(tt.want))
			assert.Len(t, got.Volumes, len(tt.want))
		})
	}

	sub := s.Range(time.Time{}, time.Time{})
	sub.Prices[0] = 99
	require.Equal(t, 10.0, s.Prices[0])
}

func TestSeriesBounds(t *testing.T) {
	t.Parallel()

	s := &Series{Times: []time.Time{day(1), day(2), day(3)}, Prices: []float64{1, 2, 3}}

	lo, hi := s.Bounds(day(2), time.Time{})
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)

	lo, hi = s.Bounds(day(5), time.Time{})
	assert.Equal(t, lo, hi)

	untimed := &Series{Prices: []float64{1, 2}}
	lo, hi = untimed.Bounds(day(5), day(6))
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)

	empty := s.Range(day(5), time.Time{})
	assert.Equal(t, 0, empty.Len())
}
