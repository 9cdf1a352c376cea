package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, instrument, side, kind, quantity, price, time, realized_pl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Instrument, t.Side, t.Kind,
		t.Quantity, t.Price, t.Time, t.RealizedPL,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, bar, time, equity)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Bar, e.Time, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) RecordBacktest(ctx context.Context, r BacktestRun) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, instrument, strategy, label, dataset, start_time, end_time,
		 bars, trades, rejections, initial_capital, final_value, final_cash, realized_pl,
		 return_pct, sharpe, sortino, max_dd_pct, volatility)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Instrument, r.Strategy, r.Label, r.Dataset, r.Start, r.End,
		r.Bars, r.Trades, r.Rejections, r.InitialCapital, r.FinalValue, r.FinalCash, r.RealizedPL,
		r.ReturnPct, r.Sharpe, r.Sortino, r.MaxDDPct, r.Volatility,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
