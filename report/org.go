package report

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/backtester/journal"
)

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTmpl = template.Must(template.New("backtest").Funcs(orgFuncs).Parse(OrgTemplate))

// Org renders r as an Org-mode document.
func Org(r journal.BacktestRun) ([]byte, error) {
	var buf bytes.Buffer
	if err := orgTmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render org: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteOrg writes the Org report for r to path.
func WriteOrg(path string, r journal.BacktestRun) error {
	data, err := Org(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

const OrgTemplate = `* BACKTEST: {{.Strategy}} {{.Instrument}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:INSTRUMENT:  {{.Instrument}}
:LABEL:       {{.Label}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
{{- if not .Start.IsZero}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
{{- end}}
:BARS:        {{.Bars}}
:START_CAP:   {{printf "%.2f" .InitialCapital}}
:END_VALUE:   {{printf "%.2f" .FinalValue}}
:NET_PL:      {{printf "%.2f" .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:SHARPE:      {{printf "%.3f" .Sharpe}}
:SORTINO:     {{printf "%.3f" .Sortino}}
:TRADES:      {{.Trades}}
:REJECTED:    {{.Rejections}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .NetPL}}*
- Realized P/L:     *{{printf "%.2f" .RealizedPL}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .MaxDDPct}}%*
- Volatility:       *{{printf "%.2f" (mul100 .Volatility)}}%*

** Equity Curve
{{- if .EquityPNG }}
[[file:{{.EquityPNG}}]]
{{- else }}
# (optional) insert an exported equity curve image here
{{- end }}

** Activity
| Item     | Count |
|----------+-------|
| Bars     | {{.Bars}} |
| Trades   | {{.Trades}} |
| Rejected | {{.Rejections}} |

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
