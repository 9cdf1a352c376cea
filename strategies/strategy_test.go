package strategies

import (
	"testing"

	"github.com/rustyeddy/backtester/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(prices ...float64) *market.Series {
	return &market.Series{Instrument: "SPY", Prices: prices}
}

func TestByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   Params
		wantName string
		wantErr  bool
	}{
		{name: "noop", wantName: "noop"},
		{name: "None", wantName: "noop"},
		{name: "buy-hold", wantName: "buy-hold"},
		{name: "open-once", wantName: "buy-hold"},
		{name: "sma-cross", params: Params{Fast: 5, Slow: 20}, wantName: "sma-cross(5,20)"},
		{name: " EMA-Cross ", wantName: "ema-cross(10,30)"},
		{name: "sma-cross", params: Params{Fast: 20, Slow: 5}, wantErr: true},
		{name: "rsi", wantName: "rsi(14,30,70)"},
		{name: "rsi", params: Params{Oversold: 80, Overbought: 70}, wantErr: true},
		{name: "bollinger", params: Params{Period: 10, Width: 1.5}, wantName: "bollinger(10,1.5)"},
		{name: "vwap-cross", wantName: "vwap-cross"},
		{name: "martingale", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ByName(tt.name, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, g.Name())
		})
	}
}

func TestNamesResolve(t *testing.T) {
	t.Parallel()

	for _, n := range Names() {
		_, err := ByName(n, Params{})
		assert.NoError(t, err, n)
	}
}

func TestNoopAndBuyAndHold(t *testing.T) {
	t.Parallel()

	s := series(1, 2, 3)

	sig, err := Noop{}.Signals(s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, sig)

	sig, err = BuyAndHold{}.Signals(s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0}, sig)

	sig, err = BuyAndHold{}.Signals(series())
	require.NoError(t, err)
	assert.Empty(t, sig)
}

func TestFixed(t *testing.T) {
	t.Parallel()

	f := Fixed{Values: []int{1, 0, -1}}
	sig, err := f.Signals(series(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, -1}, sig)

	sig[0] = 0
	assert.Equal(t, 1, f.Values[0])

	_, err = f.Signals(series(1, 2))
	assert.Error(t, err)
}

func TestMACross(t *testing.T) {
	t.Parallel()

	m, err := NewMACross(2, 3, false)
	require.NoError(t, err)

	prices := []float64{3, 4, 5, 2, 3, 6, 7}
	sig, err := m.Signals(series(prices...))
	require.NoError(t, err)
	require.Len(t, sig, len(prices))

	// bar2 is the first comparable bar and never signals
	// slow(3): bar2 4, bar3 3.667, bar4 3.333, bar5 3.667, bar6 5.333
	// fast(2): bar2 4.5, bar3 3.5, bar4 2.5, bar5 4.5, bar6 6.5
	assert.Equal(t, []int{0, 0, 0, -1, 0, 1, 0}, sig)
}

func TestMACrossExponentialWarmup(t *testing.T) {
	t.Parallel()

	m, err := NewMACross(3, 5, true)
	require.NoError(t, err)

	sig, err := m.Signals(series(1, 2, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, sig)
}

func TestRSIThreshold(t *testing.T) {
	t.Parallel()

	r, err := NewRSIThreshold(2, 30, 70)
	require.NoError(t, err)

	// rising then falling hard
	prices := []float64{10, 11, 12, 13, 9, 5, 4}
	sig, err := r.Signals(series(prices...))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, -1, -1}, sig[:4])
	assert.Equal(t, 1, sig[5])
	assert.Equal(t, 1, sig[6])
}

func TestBollingerReversion(t *testing.T) {
	t.Parallel()

	b, err := NewBollingerReversion(3, 1)
	require.NoError(t, err)

	sig, err := b.Signals(series(10, 10, 10, 10, 20, 10, 0.5))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, sig[:4])
	assert.Equal(t, Sell, sig[4])
	assert.Equal(t, Buy, sig[6])
}

func TestVWAPCross(t *testing.T) {
	t.Parallel()

	s := &market.Series{
		Instrument: "SPY",
		Prices:     []float64{10, 9, 12, 8},
		Volumes:    []float64{1, 1, 1, 1},
	}
	// vwap: 10, 9.5, 10.333, 9.75
	sig, err := VWAPCross{}.Signals(s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, -1, 1, -1}, sig)

	_, err = VWAPCross{}.Signals(series(1, 2))
	assert.Error(t, err)
}
