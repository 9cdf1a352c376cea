package report

import (
	"errors"
	"os"
	"strconv"
	"time"

	charts "github.com/vicanso/go-charts/v2"
)

var ErrShortCurve = errors.New("report: need at least two equity samples")

// EquityChartPNG draws curve as a line chart. times labels the x axis when it
// matches curve in length; otherwise bars are numbered.
func EquityChartPNG(curve []float64, times []time.Time, title string) ([]byte, error) {
	if len(curve) < 2 {
		return nil, ErrShortCurve
	}

	x := make([]string, len(curve))
	yMin, yMax := curve[0], curve[0]
	for i, v := range curve {
		if len(times) == len(curve) {
			x[i] = times[i].Format("2006-01-02")
		} else {
			x[i] = strconv.Itoa(i)
		}
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}

	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	split := 10
	if len(curve) < split {
		split = len(curve)
	}

	painter, err := charts.LineRender([][]float64{curve},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(500),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// WriteEquityChart renders the chart to path.
func WriteEquityChart(path string, curve []float64, times []time.Time, title string) error {
	data, err := EquityChartPNG(curve, times, title)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
