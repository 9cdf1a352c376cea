package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	tradesHeader = []string{"run_id", "trade_id", "instrument", "side", "kind", "quantity", "price", "time", "realized_pl"}
	equityHeader = []string{"run_id", "bar", "time", "equity"}
)

// CSVJournal appends trades and equity samples to two CSV files.
// It does not keep run summaries.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSVJournal{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.write(j.trades, tradesHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.RunID,
		t.TradeID,
		t.Instrument,
		t.Side,
		t.Kind,
		f(t.Quantity),
		f(t.Price),
		ts(t.Time),
		f(t.RealizedPL),
	})
}

func (j *CSVJournal) RecordEquity(e EquityPoint) error {
	return j.write(j.equity, []string{
		e.RunID,
		strconv.Itoa(e.Bar),
		ts(e.Time),
		f(e.Equity),
	})
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		j.closeFiles()
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		j.closeFiles()
		return err
	}
	return j.closeFiles()
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) closeFiles() error {
	terr := j.tf.Close()
	eerr := j.ef.Close()
	if terr != nil {
		return terr
	}
	return eerr
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// ts leaves untimed rows blank rather than printing year 1.
func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
