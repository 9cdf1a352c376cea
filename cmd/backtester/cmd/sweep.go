package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/report"
	"github.com/rustyeddy/backtester/strategies"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep moving-average cross parameters",
	Long: `Run a moving-average cross strategy for every fast/slow pair (fast < slow)
over the configured data, concurrently, and rank the runs by Sharpe ratio.

Run summaries are recorded when the configured journal is SQLite.

Example:
  backtester sweep -f backtest.yaml --fast 5,10,20 --slow 50,100 --ema`,
	RunE: runSweep,
}

var (
	sweepConfigPath string
	sweepFast       []int
	sweepSlow       []int
	sweepEMA        bool
	sweepLimit      int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	sweepCmd.Flags().IntSliceVar(&sweepFast, "fast", []int{5, 10, 20}, "fast periods")
	sweepCmd.Flags().IntSliceVar(&sweepSlow, "slow", []int{30, 50, 100}, "slow periods")
	sweepCmd.Flags().BoolVar(&sweepEMA, "ema", false, "use exponential instead of simple averages")
	sweepCmd.Flags().IntVarP(&sweepLimit, "concurrency", "c", 0, "max concurrent runs (default backtest.concurrency)")
	sweepCmd.MarkFlagRequired("file")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(sweepConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	series, _, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	inputs, names, err := crossInputs(series, sweepFast, sweepSlow, sweepEMA)
	if err != nil {
		return err
	}

	limit := sweepLimit
	if limit == 0 {
		limit = cfg.Backtest.Concurrency
	}
	log.Info("sweep starting",
		logger.IntField("runs", len(inputs)),
		logger.IntField("concurrency", limit))

	// per-run logging would interleave; keep the engine quiet
	results, err := backtest.Sweep(context.Background(), newEngine(cfg, logger.Nop()), inputs, limit)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	summaries := make([]journal.BacktestRun, len(results))
	for i := range results {
		results[i].RunID = id.New()
		summaries[i] = backtest.Summary(results[i], names[i], datasetName(cfg.Backtest.DataFile))
	}

	if cfg.Journal.Type == "sqlite" {
		if err := recordSummaries(cfg.Journal.DBPath, summaries); err != nil {
			return err
		}
	}

	report.PrintTable(cmd.OutOrStdout(), summaries)
	if best := backtest.Best(results); best >= 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nBest by Sharpe: %s (%s)\n", results[best].Label, results[best].RunID)
	}
	return nil
}

// crossInputs builds one input per fast/slow pair with fast < slow.
func crossInputs(series *market.Series, fast, slow []int, ema bool) ([]backtest.Input, []string, error) {
	var (
		inputs []backtest.Input
		names  []string
	)
	for _, f := range fast {
		for _, sl := range slow {
			if f >= sl {
				continue
			}
			gen, err := strategies.NewMACross(f, sl, ema)
			if err != nil {
				return nil, nil, err
			}
			signals, err := gen.Signals(series)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", gen.Name(), err)
			}
			inputs = append(inputs, backtest.Input{
				Label:      fmt.Sprintf("fast=%d slow=%d", f, sl),
				Instrument: series.Instrument,
				Prices:     series.Prices,
				Signals:    signals,
				Times:      series.Times,
			})
			names = append(names, gen.Name())
		}
	}
	if len(inputs) == 0 {
		return nil, nil, fmt.Errorf("no fast/slow pairs with fast < slow")
	}
	return inputs, names, nil
}

func recordSummaries(dbPath string, runs []journal.BacktestRun) error {
	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ctx := context.Background()
	for _, r := range runs {
		if err := j.RecordBacktest(ctx, r); err != nil {
			return fmt.Errorf("record run %s: %w", r.RunID, err)
		}
	}
	return nil
}
