// Package report renders finished backtest runs for people: a console
// summary, an Org-mode document and an equity curve chart.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/backtester/journal"
)

const rule = "--------------------------------------------------"

func Print(w io.Writer, r journal.BacktestRun) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Instrument:    %s\n", r.Instrument)
	if r.Label != "" {
		fmt.Fprintf(w, "Label:         %s\n", r.Label)
	}
	if r.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", r.Dataset)
	}

	if !r.Start.IsZero() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Period")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Activity")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Bars:          %d\n", r.Bars)
	fmt.Fprintf(w, "Trades:        %d\n", r.Trades)
	fmt.Fprintf(w, "Rejected:      %d\n", r.Rejections)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Start Capital: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "End Value:     %.2f\n", r.FinalValue)
	fmt.Fprintf(w, "End Cash:      %.2f\n", r.FinalCash)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.NetPL())
	fmt.Fprintf(w, "Realized P/L:  %.2f\n", r.RealizedPL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.ReturnPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Sharpe:        %.3f\n", r.Sharpe)
	fmt.Fprintf(w, "Sortino:       %.3f\n", r.Sortino)
	fmt.Fprintf(w, "Volatility:    %.2f%%\n", r.Volatility*100)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDDPct)

	if r.EquityPNG != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Equity Curve:  %s\n", r.EquityPNG)
	}
	if r.OrgPath != "" {
		fmt.Fprintf(w, "Org Report:    %s\n", r.OrgPath)
	}

	if len(r.Notes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Observations")
		fmt.Fprintln(w, rule)
		for _, note := range r.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}

	fmt.Fprintln(w)
}

// PrintTable writes one line per run, e.g. for a sweep or `journal runs`.
func PrintTable(w io.Writer, runs []journal.BacktestRun) {
	fmt.Fprintf(w, "%-26s  %-24s  %8s  %8s  %8s  %7s  %6s\n",
		"RUN", "LABEL", "RETURN%", "SHARPE", "SORTINO", "MAXDD%", "TRADES")
	for _, r := range runs {
		label := r.Label
		if label == "" {
			label = r.Strategy
		}
		fmt.Fprintf(w, "%-26s  %-24s  %8.2f  %8.3f  %8.3f  %7.2f  %6d\n",
			r.RunID, label, r.ReturnPct, r.Sharpe, r.Sortino, r.MaxDDPct, r.Trades)
	}
}
