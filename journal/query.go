package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("journal: not found")

const runColumns = `run_id, created, instrument, strategy, label, dataset, start_time, end_time,
	bars, trades, rejections, initial_capital, final_value, final_cash, realized_pl,
	return_pct, sharpe, sortino, max_dd_pct, volatility`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (BacktestRun, error) {
	var r BacktestRun
	err := s.Scan(
		&r.RunID, &r.Created, &r.Instrument, &r.Strategy, &r.Label, &r.Dataset, &r.Start, &r.End,
		&r.Bars, &r.Trades, &r.Rejections, &r.InitialCapital, &r.FinalValue, &r.FinalCash, &r.RealizedPL,
		&r.ReturnPct, &r.Sharpe, &r.Sortino, &r.MaxDDPct, &r.Volatility,
	)
	return r, err
}

// GetBacktestRun loads one run summary.
func (j *SQLiteJournal) GetBacktestRun(ctx context.Context, runID string) (BacktestRun, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BacktestRun{}, fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	return r, err
}

// ListRuns returns the newest runs first. limit <= 0 returns all.
func (j *SQLiteJournal) ListRuns(ctx context.Context, limit int) ([]BacktestRun, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BacktestRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTrade returns a single trade record by ID.
func (j *SQLiteJournal) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	var rec TradeRecord
	err := j.db.QueryRowContext(ctx, `
		SELECT trade_id, run_id, instrument, side, kind, quantity, price, time, realized_pl
		FROM trades
		WHERE trade_id = ?`, tradeID).Scan(
		&rec.TradeID, &rec.RunID, &rec.Instrument, &rec.Side, &rec.Kind,
		&rec.Quantity, &rec.Price, &rec.Time, &rec.RealizedPL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return rec, err
}

// ListTradesByRunID returns a run's trades in execution order.
func (j *SQLiteJournal) ListTradesByRunID(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, run_id, instrument, side, kind, quantity, price, time, realized_pl
		FROM trades
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID, &rec.RunID, &rec.Instrument, &rec.Side, &rec.Kind,
			&rec.Quantity, &rec.Price, &rec.Time, &rec.RealizedPL,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListEquityByRunID returns a run's equity curve ordered by bar.
func (j *SQLiteJournal) ListEquityByRunID(ctx context.Context, runID string) ([]EquityPoint, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, bar, time, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY bar ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var p EquityPoint
		if err := rows.Scan(&p.RunID, &p.Bar, &p.Time, &p.Equity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
