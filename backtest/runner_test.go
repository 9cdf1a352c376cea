package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memJournal is an in-memory journal.Journal and journal.RunRecorder.
type memJournal struct {
	trades []journal.TradeRecord
	equity []journal.EquityPoint
	runs   []journal.BacktestRun
	failOn string
	closed bool
}

func (m *memJournal) RecordTrade(t journal.TradeRecord) error {
	if m.failOn == "trade" {
		return errors.New("disk full")
	}
	m.trades = append(m.trades, t)
	return nil
}

func (m *memJournal) RecordEquity(e journal.EquityPoint) error {
	if m.failOn == "equity" {
		return errors.New("disk full")
	}
	m.equity = append(m.equity, e)
	return nil
}

func (m *memJournal) RecordBacktest(_ context.Context, r journal.BacktestRun) error {
	m.runs = append(m.runs, r)
	return nil
}

func (m *memJournal) Close() error {
	m.closed = true
	return nil
}

func fixedID(id string) func() string { return func() string { return id } }

func TestRunnerJournalsRun(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	j := &memJournal{}
	r := &Runner{
		Engine:   NewEngine(10000),
		Journal:  j,
		Strategy: "fixed",
		Dataset:  "SPY.csv",
		NewID:    fixedID("RUN1"),
	}

	res, err := r.Run(context.Background(), Input{
		Label:      "scenario-a",
		Instrument: "SPY",
		Prices:     []float64{100, 110, 105},
		Signals:    []int{1, 0, -1},
		Times:      []time.Time{day(2), day(3), day(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, "RUN1", res.RunID)

	require.Len(t, j.trades, 2)
	assert.Equal(t, "RUN1", j.trades[0].RunID)
	assert.Equal(t, res.Trades[0].ID, j.trades[0].TradeID)
	assert.Equal(t, "buy", j.trades[0].Side)
	assert.Equal(t, "sell", j.trades[1].Side)
	assert.Equal(t, "market", j.trades[1].Kind)
	assert.InDelta(t, 500, j.trades[1].RealizedPL, 1e-9)

	require.Len(t, j.equity, 3)
	for i, p := range j.equity {
		assert.Equal(t, i, p.Bar)
		assert.True(t, p.Time.Equal(day(2+i)))
		assert.InDelta(t, res.EquityCurve[i], p.Equity, 1e-9)
	}

	require.Len(t, j.runs, 1)
	run := j.runs[0]
	assert.Equal(t, "RUN1", run.RunID)
	assert.Equal(t, "fixed", run.Strategy)
	assert.Equal(t, "scenario-a", run.Label)
	assert.Equal(t, "SPY.csv", run.Dataset)
	assert.Empty(t, run.Notes)
	assert.Equal(t, 3, run.Bars)
	assert.Equal(t, 2, run.Trades)
	assert.InDelta(t, 10500, run.FinalValue, 1e-9)
	assert.InDelta(t, 5, run.ReturnPct, 1e-9)
	assert.InDelta(t, 500, run.NetPL(), 1e-9)
	assert.False(t, j.closed)
}

func TestRunnerJournalsRejectionNotes(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	r := &Runner{Engine: NewEngine(1000), Journal: j, Dataset: "prices.csv"}

	_, err := r.Run(context.Background(), Input{
		Instrument: "SPY",
		Prices:     []float64{100, 101},
		Signals:    []int{0, 5},
	})
	require.NoError(t, err)

	require.Len(t, j.runs, 1)
	assert.Equal(t, "prices.csv", j.runs[0].Dataset)
	require.Len(t, j.runs[0].Notes, 1)
	assert.Contains(t, j.runs[0].Notes[0], "bar 1: signal 5 rejected")
}

func TestRunnerWithoutRunRecorder(t *testing.T) {
	t.Parallel()

	// hide RecordBacktest behind the plain Journal interface
	j := &memJournal{}
	r := &Runner{Engine: NewEngine(10000), Journal: struct {
		journal.Journal
	}{j}}

	_, err := r.Run(context.Background(), Input{Instrument: "SPY", Prices: []float64{100, 101}, Signals: []int{1, 0}})
	require.NoError(t, err)
	assert.Len(t, j.trades, 1)
	assert.Len(t, j.equity, 2)
	assert.Empty(t, j.runs)
}

func TestRunnerNoJournal(t *testing.T) {
	t.Parallel()

	r := &Runner{Engine: NewEngine(10000)}
	res, err := r.Run(context.Background(), Input{Instrument: "SPY", Prices: []float64{100}, Signals: []int{0}})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
}

func TestRunnerErrors(t *testing.T) {
	t.Parallel()

	in := Input{Instrument: "SPY", Prices: []float64{100, 101}, Signals: []int{1, -1}}

	tests := []struct {
		name    string
		runner  *Runner
		ctx     func() context.Context
		wantErr string
	}{
		{
			name:    "missing engine",
			runner:  &Runner{},
			ctx:     context.Background,
			wantErr: "Engine is required",
		},
		{
			name:    "trade write fails",
			runner:  &Runner{Engine: NewEngine(10000), Journal: &memJournal{failOn: "trade"}},
			ctx:     context.Background,
			wantErr: "journal trade",
		},
		{
			name:    "equity write fails",
			runner:  &Runner{Engine: NewEngine(10000), Journal: &memJournal{failOn: "equity"}},
			ctx:     context.Background,
			wantErr: "journal equity bar 0",
		},
		{
			name:   "cancelled",
			runner: &Runner{Engine: NewEngine(10000), Journal: &memJournal{}},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.runner.Run(tt.ctx(), in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunnerLengthMismatch(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	r := &Runner{Engine: NewEngine(10000), Journal: j}

	_, err := r.Run(context.Background(), Input{Prices: []float64{1, 2}, Signals: []int{0}})
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	assert.Empty(t, j.equity)
	assert.Empty(t, j.runs)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	res := Result{
		RunID:          "R",
		Instrument:     "SPY",
		InitialCapital: 1000,
		EquityCurve:    []float64{1000, 1100},
		Rejections:     []Rejection{{Bar: 1, Signal: 3, Err: fmt.Errorf("x")}},
	}
	s := Summary(res, "sma-cross", "SPY.csv")
	assert.Equal(t, "sma-cross", s.Strategy)
	assert.Equal(t, "SPY.csv", s.Dataset)
	assert.Equal(t, []string{"bar 1: signal 3 rejected: x"}, s.Notes)
	assert.Equal(t, 2, s.Bars)
	assert.Equal(t, 1, s.Rejections)
	assert.InDelta(t, 1100, s.FinalValue, 1e-9)
	assert.False(t, s.Created.IsZero())
}
