package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepInputs(n int) []Input {
	prices := []float64{100, 104, 98, 107, 111, 103, 115}
	inputs := make([]Input, n)
	for i := range inputs {
		signals := make([]int, len(prices))
		// enter on bar i, exit on the last bar
		if i < len(prices)-1 {
			signals[i] = SignalBuy
		}
		signals[len(prices)-1] = SignalSell
		inputs[i] = Input{Label: fmt.Sprintf("enter=%d", i), Instrument: "SPY", Prices: prices, Signals: signals}
	}
	return inputs
}

func TestSweepMatchesSequentialRuns(t *testing.T) {
	t.Parallel()

	e := NewEngine(10000)
	inputs := sweepInputs(6)

	for _, limit := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			got, err := Sweep(context.Background(), e, inputs, limit)
			require.NoError(t, err)
			require.Len(t, got, len(inputs))

			for i, in := range inputs {
				want, err := e.Run(in)
				require.NoError(t, err)
				assert.Equal(t, in.Label, got[i].Label)
				assert.Equal(t, want.EquityCurve, got[i].EquityCurve)
				assert.Equal(t, want.Metrics, got[i].Metrics)
			}
		})
	}
}

func TestSweepStopsOnError(t *testing.T) {
	t.Parallel()

	inputs := sweepInputs(3)
	inputs[1].Signals = inputs[1].Signals[:2]

	_, err := Sweep(context.Background(), NewEngine(10000), inputs, 1)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	assert.Contains(t, err.Error(), "enter=1")
}

func TestSweepCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, NewEngine(10000), sweepInputs(2), 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBest(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, Best(nil))

	rs := make([]Result, 3)
	rs[0].Metrics.SharpeRatio = 0.4
	rs[1].Metrics.SharpeRatio = 1.2
	rs[2].Metrics.SharpeRatio = -0.3
	assert.Equal(t, 1, Best(rs))
}
