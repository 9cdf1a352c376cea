package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func newTestCSV(t *testing.T) (*CSVJournal, string, string) {
	t.Helper()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	return j, tradesPath, equityPath
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	j, tradesPath, equityPath := newTestCSV(t)
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	equity := readCSV(t, equityPath)

	require.Len(t, trades, 1)
	require.Len(t, equity, 1)
	assert.Equal(t, []string{"run_id", "trade_id", "instrument", "side", "kind", "quantity", "price", "time", "realized_pl"}, trades[0])
	assert.Equal(t, []string{"run_id", "bar", "time", "equity"}, equity[0])
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	j, tradesPath, _ := newTestCSV(t)

	require.NoError(t, j.RecordTrade(TradeRecord{
		RunID:      "R1",
		TradeID:    "T1",
		Instrument: "SPY",
		Side:       "sell",
		Kind:       "market",
		Quantity:   95.2380952,
		Price:      110,
		Time:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		RealizedPL: 476.1904762,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"R1", "T1", "SPY", "sell", "market",
		"95.238095", "110.000000", "2024-01-02T03:04:05Z", "476.190476",
	}, rows[1])
}

func TestCSVJournalRecordEquity(t *testing.T) {
	t.Parallel()

	j, _, equityPath := newTestCSV(t)

	require.NoError(t, j.RecordEquity(EquityPoint{RunID: "R1", Bar: 0, Equity: 10000}))
	require.NoError(t, j.RecordEquity(EquityPoint{
		RunID: "R1", Bar: 1, Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Equity: 10476.19,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, equityPath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"R1", "0", "", "10000.000000"}, rows[1])
	assert.Equal(t, []string{"R1", "1", "2024-01-03T00:00:00Z", "10476.190000"}, rows[2])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(filepath.Join(dir, "missing", "trades.csv"), filepath.Join(dir, "equity.csv"))
	assert.Error(t, err)
}
