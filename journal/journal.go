// Package journal persists the trades, equity samples and summaries of backtest runs.
package journal

import (
	"context"
	"time"
)

// TradeRecord is one fill as stored in a journal.
type TradeRecord struct {
	RunID      string
	TradeID    string
	Instrument string
	Side       string
	Kind       string
	Quantity   float64
	Price      float64
	Time       time.Time
	RealizedPL float64
}

// EquityPoint is the portfolio value after one bar.
type EquityPoint struct {
	RunID  string
	Bar    int
	Time   time.Time
	Equity float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}

// RunRecorder is implemented by journals that also keep run summaries.
type RunRecorder interface {
	RecordBacktest(ctx context.Context, run BacktestRun) error
}

// BacktestRun mirrors the runs table.
type BacktestRun struct {
	RunID      string
	Created    time.Time
	Instrument string
	Strategy   string
	Label      string
	Dataset    string

	Start time.Time
	End   time.Time

	Bars       int
	Trades     int
	Rejections int

	InitialCapital float64
	FinalValue     float64
	FinalCash      float64
	RealizedPL     float64

	ReturnPct  float64
	Sharpe     float64
	Sortino    float64
	MaxDDPct   float64
	Volatility float64

	// Report outputs, not persisted
	OrgPath   string
	EquityPNG string
	Notes     []string
}

// NetPL is FinalValue - InitialCapital.
func (r BacktestRun) NetPL() float64 {
	return r.FinalValue - r.InitialCapital
}
