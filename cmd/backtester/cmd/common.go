package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/strategies"
)

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.Log.Level, cfg.Log.Encoding)
}

// openJournal returns nil for journal type "none".
func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}

// loadSeries reads the configured data file and trims it to the configured window.
func loadSeries(cfg *config.Config) (*market.Series, []int, error) {
	s, fileSignals, err := market.LoadCSV(cfg.Backtest.DataFile, cfg.Backtest.Instrument)
	if err != nil {
		return nil, nil, fmt.Errorf("load data: %w", err)
	}

	from, to, err := cfg.Backtest.Window()
	if err != nil {
		return nil, nil, err
	}
	if from.IsZero() && to.IsZero() {
		return s, fileSignals, nil
	}

	lo, hi := s.Bounds(from, to)
	if lo == hi {
		return nil, nil, fmt.Errorf("no bars in %s between %q and %q", cfg.Backtest.DataFile, cfg.Backtest.From, cfg.Backtest.To)
	}
	s = s.Range(from, to)
	if fileSignals != nil {
		fileSignals = fileSignals[lo:hi]
	}
	return s, fileSignals, nil
}

// generator picks the file's signal column or the named strategy.
func generator(cfg *config.Config, fileSignals []int) (strategies.SignalGenerator, error) {
	if cfg.Strategy.UseFileSignals {
		if fileSignals == nil {
			return nil, fmt.Errorf("%s has no signal column", cfg.Backtest.DataFile)
		}
		return strategies.Fixed{Values: fileSignals}, nil
	}
	return strategies.ByName(cfg.Strategy.Name, cfg.Strategy.Params())
}

func newEngine(cfg *config.Config, log *logger.Logger) *backtest.Engine {
	return backtest.NewEngine(cfg.Account.InitialCapital,
		backtest.WithRiskFreeRate(cfg.Backtest.RiskFreeRate),
		backtest.WithLogger(log))
}

func datasetName(path string) string {
	return filepath.Base(path)
}
