package backtest

import (
	"context"
	"fmt"

	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/pkg/id"
)

// Runner executes one run and journals its trades, equity samples and,
// when the journal supports it, a run summary.
type Runner struct {
	Engine   *Engine
	Journal  journal.Journal
	Strategy string
	Dataset  string
	Log      *logger.Logger

	// NewID overrides run ID generation; defaults to id.New.
	NewID func() string
}

// Run simulates in and writes the outcome to r.Journal (if any).
// The simulation itself is not cancellable; ctx is checked between journal writes.
func (r *Runner) Run(ctx context.Context, in Input) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}
	newID := r.NewID
	if newID == nil {
		newID = id.New
	}

	res, err := r.Engine.Run(in)
	if err != nil {
		return res, err
	}
	res.RunID = newID()

	if r.Journal == nil {
		return res, nil
	}
	log = log.With(logger.StringField("run_id", res.RunID))

	for _, tr := range res.Trades {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := r.Journal.RecordTrade(journal.TradeRecord{
			RunID:      res.RunID,
			TradeID:    tr.ID,
			Instrument: tr.Instrument,
			Side:       tr.Side.String(),
			Kind:       string(tr.Kind),
			Quantity:   tr.Quantity,
			Price:      tr.Price,
			Time:       tr.Time,
			RealizedPL: tr.RealizedPL,
		})
		if err != nil {
			return res, fmt.Errorf("journal trade %s: %w", tr.ID, err)
		}
	}

	for i, v := range res.EquityCurve {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		pt := journal.EquityPoint{RunID: res.RunID, Bar: i, Equity: v}
		if res.Times != nil {
			pt.Time = res.Times[i]
		}
		if err := r.Journal.RecordEquity(pt); err != nil {
			return res, fmt.Errorf("journal equity bar %d: %w", i, err)
		}
	}

	if rec, ok := r.Journal.(journal.RunRecorder); ok {
		if err := rec.RecordBacktest(ctx, Summary(res, r.Strategy, r.Dataset)); err != nil {
			return res, fmt.Errorf("journal run: %w", err)
		}
	}

	log.Info("run journaled",
		logger.IntField("trades", len(res.Trades)),
		logger.IntField("bars", len(res.EquityCurve)))
	return res, nil
}
