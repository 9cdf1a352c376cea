package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/analytics"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/ledger"
)

// Rejection is a signal the ledger refused, or an unknown signal value.
type Rejection struct {
	Bar    int
	Signal int
	Err    error
}

// Result bundles everything one run produced. It is not modified after Run returns.
type Result struct {
	RunID      string
	Label      string
	Instrument string

	Metrics     analytics.Metrics
	EquityCurve []float64
	Times       []time.Time // nil for untimed input
	Trades      []ledger.TradeRecord
	Rejections  []Rejection

	InitialCapital float64
	FinalCash      float64
	RealizedPnL    float64
	Positions      map[string]ledger.Position

	Start time.Time
	End   time.Time
}

// FinalValue is the last equity sample, or the initial capital for an empty run.
func (r Result) FinalValue() float64 {
	if len(r.EquityCurve) == 0 {
		return r.InitialCapital
	}
	return r.EquityCurve[len(r.EquityCurve)-1]
}

// Empty reports a run that processed no bars.
func (r Result) Empty() bool {
	return len(r.EquityCurve) == 0
}

// Summary converts r into the journal's run row. Each rejection becomes a note.
func Summary(r Result, strategy, dataset string) journal.BacktestRun {
	run := journal.BacktestRun{
		RunID:          r.RunID,
		Created:        time.Now().UTC(),
		Instrument:     r.Instrument,
		Strategy:       strategy,
		Dataset:        dataset,
		Label:          r.Label,
		Start:          r.Start,
		End:            r.End,
		Bars:           len(r.EquityCurve),
		Trades:         len(r.Trades),
		Rejections:     len(r.Rejections),
		InitialCapital: r.InitialCapital,
		FinalValue:     r.FinalValue(),
		FinalCash:      r.FinalCash,
		RealizedPL:     r.RealizedPnL,
		ReturnPct:      r.Metrics.TotalReturn,
		Sharpe:         r.Metrics.SharpeRatio,
		Sortino:        r.Metrics.SortinoRatio,
		MaxDDPct:       r.Metrics.MaxDrawdown,
		Volatility:     r.Metrics.Volatility,
	}
	for _, rej := range r.Rejections {
		run.Notes = append(run.Notes, fmt.Sprintf("bar %d: signal %d rejected: %v", rej.Bar, rej.Signal, rej.Err))
	}
	return run
}
