// Package indicators computes technical indicators over closing prices.
//
// Batch functions return a slice aligned with the input, padded with NaN
// until the indicator has enough history. Streaming indicators implement
// Indicator and consume one price at a time.
package indicators

import (
	"errors"
	"fmt"
	"math"
)

var ErrBadPeriod = errors.New("indicators: period must be positive")

// Indicator computes a single streaming value from prices.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready can be true.
	Warmup() int

	Reset()

	// Update consumes the next closing price.
	Update(price float64)

	// Ready reports whether Value is meaningful.
	Ready() bool

	// Value returns 0 until Ready.
	Value() float64
}

func checkPeriod(period int) error {
	if period <= 0 {
		return fmt.Errorf("%w, got %d", ErrBadPeriod, period)
	}
	return nil
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA is the simple moving average over a trailing window of period prices.
func SMA(prices []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := nans(len(prices))
	if len(prices) < period {
		return out, nil
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	out[period-1] = sum / float64(period)
	for i := period; i < len(prices); i++ {
		sum += prices[i] - prices[i-period]
		out[i] = sum / float64(period)
	}
	return out, nil
}

// EMA seeds with the SMA of the first period prices. When fewer than period
// prices are available it seeds with the first price and has no NaN padding.
func EMA(prices []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return []float64{}, nil
	}
	k := 2.0 / (float64(period) + 1)

	if len(prices) < period {
		out := make([]float64, len(prices))
		out[0] = prices[0]
		for i := 1; i < len(prices); i++ {
			out[i] = (prices[i]-out[i-1])*k + out[i-1]
		}
		return out, nil
	}

	out := nans(len(prices))
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	out[period-1] = sum / float64(period)
	for i := period; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*k + out[i-1]
	}
	return out, nil
}

// RSI is Wilder's relative strength index. The first value lands at index
// period; a window with no losses reads 100.
func RSI(prices []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := nans(len(prices))
	if len(prices) <= period {
		return out, nil
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if ch := prices[i] - prices[i-1]; ch > 0 {
			gains[i-1] = ch
		} else {
			losses[i-1] = -ch
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	n := float64(period)
	avgGain /= n
	avgLoss /= n
	out[period] = rsi(avgGain, avgLoss)

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*(n-1) + gains[i]) / n
		avgLoss = (avgLoss*(n-1) + losses[i]) / n
		out[i+1] = rsi(avgGain, avgLoss)
	}
	return out, nil
}

func rsi(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// VWAP is the cumulative volume-weighted average price. Bars before any
// volume has traded read 0.
func VWAP(prices, volumes []float64) ([]float64, error) {
	if len(prices) != len(volumes) {
		return nil, fmt.Errorf("indicators: %d prices, %d volumes", len(prices), len(volumes))
	}
	out := make([]float64, len(prices))
	var pv, vol float64
	for i := range prices {
		pv += prices[i] * volumes[i]
		vol += volumes[i]
		if vol > 0 {
			out[i] = pv / vol
		}
	}
	return out, nil
}

// Bollinger returns the bands k population standard deviations around the
// SMA of period prices.
func Bollinger(prices []float64, period int, k float64) (upper, middle, lower []float64, err error) {
	middle, err = SMA(prices, period)
	if err != nil {
		return nil, nil, nil, err
	}
	upper = nans(len(prices))
	lower = nans(len(prices))

	for i := period - 1; i < len(prices); i++ {
		mean := middle[i]
		ss := 0.0
		for _, p := range prices[i-period+1 : i+1] {
			ss += (p - mean) * (p - mean)
		}
		sd := math.Sqrt(ss / float64(period))
		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
	}
	return upper, middle, lower, nil
}
