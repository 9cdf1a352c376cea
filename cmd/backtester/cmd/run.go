package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/report"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest from a config file",
	Long: `Run one backtest using settings from a configuration file.

The config names the price CSV, the strategy and its parameters, the journal
and optional report outputs.

Example:
  backtester run -f backtest.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	series, fileSignals, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	gen, err := generator(cfg, fileSignals)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	signals, err := gen.Signals(series)
	if err != nil {
		return fmt.Errorf("signals: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	runner := &backtest.Runner{
		Engine:   newEngine(cfg, log),
		Journal:  j,
		Strategy: gen.Name(),
		Dataset:  datasetName(cfg.Backtest.DataFile),
		Log:      log,
	}

	res, err := runner.Run(context.Background(), backtest.Input{
		Label:      gen.Name(),
		Instrument: series.Instrument,
		Prices:     series.Prices,
		Signals:    signals,
		Times:      series.Times,
	})
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	summary := backtest.Summary(res, runner.Strategy, runner.Dataset)

	if err := writeReports(cfg.Report, res, &summary, log); err != nil {
		return err
	}

	report.Print(cmd.OutOrStdout(), summary)
	return nil
}

func writeReports(rc config.ReportConfig, res backtest.Result, summary *journal.BacktestRun, log *logger.Logger) error {
	if rc.EquityPNG != "" {
		title := fmt.Sprintf("%s %s", res.Instrument, summary.Strategy)
		if err := report.WriteEquityChart(rc.EquityPNG, res.EquityCurve, res.Times, title); err != nil {
			return fmt.Errorf("equity chart: %w", err)
		}
		summary.EquityPNG = rc.EquityPNG
		log.Info("equity chart written", logger.StringField("path", rc.EquityPNG))
	}
	if rc.OrgPath != "" {
		summary.OrgPath = rc.OrgPath
		if err := report.WriteOrg(rc.OrgPath, *summary); err != nil {
			return fmt.Errorf("org report: %w", err)
		}
		log.Info("org report written", logger.StringField("path", rc.OrgPath))
	}
	return nil
}
