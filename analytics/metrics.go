// Package analytics reduces an equity curve to risk/return metrics.
//
// Annualization assumes one sample per trading day: every ratio is scaled by
// sqrt(TradingDaysPerYear) and the annual risk-free rate is divided by
// TradingDaysPerYear. Feeding intraday or weekly bars gives mis-scaled ratios.
package analytics

import (
	"math"

	"github.com/rustyeddy/backtester/internal/mathutil"
)

const (
	DefaultRiskFreeRate = 0.02
	TradingDaysPerYear  = 252.0

	// Epsilon is the deviation at or below which a ratio is reported as 0.
	Epsilon = 1e-9
)

// Metrics summarizes one equity curve. Percent fields are in percent (5 == 5%).
type Metrics struct {
	TotalReturn  float64 `json:"total_return" yaml:"total_return"`
	SharpeRatio  float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio" yaml:"sortino_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown" yaml:"max_drawdown"`
	Volatility   float64 `json:"volatility" yaml:"volatility"`
}

// Calculate derives Metrics from equity using an annual riskFreeRate.
// Curves shorter than two samples yield zero Metrics.
func Calculate(equity []float64, riskFreeRate float64) Metrics {
	var m Metrics
	if len(equity) < 2 {
		return m
	}

	m.TotalReturn = mathutil.PctChange(equity[len(equity)-1], equity[0])
	m.MaxDrawdown = MaxDrawdown(equity)

	returns := Returns(equity)
	avg := mathutil.Mean(returns)
	sd := mathutil.StdDev(returns)
	dailyRf := riskFreeRate / TradingDaysPerYear
	annualize := math.Sqrt(TradingDaysPerYear)

	if sd > Epsilon {
		m.SharpeRatio = (avg - dailyRf) / sd * annualize
		m.Volatility = sd * annualize
	}

	// flat curve: Sortino stays 0
	if flat(returns) {
		return m
	}
	if dd := DownsideDeviation(returns, dailyRf); dd > Epsilon {
		m.SortinoRatio = (avg - dailyRf) / dd * annualize
	}

	return m
}

func flat(returns []float64) bool {
	for _, r := range returns {
		if r != 0 {
			return false
		}
	}
	return true
}

// Returns is the simple per-step return series, one shorter than equity.
func Returns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		out = append(out, (equity[i]-equity[i-1])/equity[i-1])
	}
	return out
}

// DownsideDeviation is sqrt(mean(min(r-target, 0)^2)) taken over ALL returns,
// not only those below target.
func DownsideDeviation(returns []float64, target float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sq := make([]float64, len(returns))
	for i, r := range returns {
		if r < target {
			sq[i] = (r - target) * (r - target)
		}
	}
	return math.Sqrt(mathutil.Mean(sq))
}

// SharpeRatio is the per-period (not annualized) Sharpe of a return series.
// riskFree must already be expressed per period.
func SharpeRatio(returns []float64, riskFree float64) float64 {
	sd := mathutil.StdDev(returns)
	if sd < Epsilon {
		return 0
	}
	return (mathutil.Mean(returns) - riskFree) / sd
}
