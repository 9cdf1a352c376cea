// Package backtest replays a price/signal sequence against a fresh ledger
// and scores the resulting equity curve.
package backtest

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/backtester/analytics"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/ledger"
)

// Signal values understood by the engine.
const (
	SignalSell = -1
	SignalHold = 0
	SignalBuy  = +1
)

var (
	ErrLengthMismatch = errors.New("backtest: input lengths differ")
	ErrUnknownSignal  = errors.New("backtest: unknown signal")
)

// Input is one single-instrument run. Times is optional; when set it must be
// as long as Prices and stamps each trade and equity sample.
type Input struct {
	Label      string
	Instrument string
	Prices     []float64
	Signals    []int
	Times      []time.Time
}

// Engine holds run configuration only. Every Run builds its own ledger, so an
// Engine may be shared by concurrent runs.
type Engine struct {
	initialCapital float64
	riskFreeRate   float64
	costPolicy     ledger.CostPolicy
	log            *logger.Logger
}

type Option func(*Engine)

func WithRiskFreeRate(rate float64) Option {
	return func(e *Engine) { e.riskFreeRate = rate }
}

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithCostPolicy(p ledger.CostPolicy) Option {
	return func(e *Engine) { e.costPolicy = p }
}

func NewEngine(initialCapital float64, opts ...Option) *Engine {
	e := &Engine{
		initialCapital: initialCapital,
		riskFreeRate:   analytics.DefaultRiskFreeRate,
		costPolicy:     ledger.AverageCost{},
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) InitialCapital() float64 { return e.initialCapital }

func (e *Engine) RiskFreeRate() float64 { return e.riskFreeRate }

// RunSimple runs prices and signals without timestamps.
func (e *Engine) RunSimple(instrument string, prices []float64, signals []int) (Result, error) {
	return e.Run(Input{Instrument: instrument, Prices: prices, Signals: signals})
}

// Run replays in bar by bar:
//  1. mark the position at the bar price
//  2. buy as much as cash covers on +1, sell the whole position on -1
//  3. record total ledger value
//
// Mismatched input lengths return a zero Result and ErrLengthMismatch.
// Ledger rejections do not stop the run; they are collected in Result.Rejections.
func (e *Engine) Run(in Input) (Result, error) {
	if len(in.Prices) != len(in.Signals) {
		return Result{}, fmt.Errorf("%d prices, %d signals: %w", len(in.Prices), len(in.Signals), ErrLengthMismatch)
	}
	if in.Times != nil && len(in.Times) != len(in.Prices) {
		return Result{}, fmt.Errorf("%d prices, %d times: %w", len(in.Prices), len(in.Times), ErrLengthMismatch)
	}

	led := ledger.New(e.initialCapital, ledger.WithCostPolicy(e.costPolicy))
	log := e.log.With(logger.StringField("instrument", in.Instrument))

	res := Result{
		Label:          in.Label,
		Instrument:     in.Instrument,
		InitialCapital: e.initialCapital,
		EquityCurve:    make([]float64, 0, len(in.Prices)),
	}

	for i, price := range in.Prices {
		var ts time.Time
		if in.Times != nil {
			ts = in.Times[i]
		}

		led.UpdateMark(in.Instrument, price)

		var err error
		switch sig := in.Signals[i]; sig {
		case SignalBuy:
			cash := led.Cash()
			if cash <= 0 {
				break
			}
			// bad prices go to the ledger as-is and come back as rejections
			qty := cash / price
			if price > 0 && !math.IsInf(price, 0) {
				// skip leftover rounding dust
				if qty = BuyAllQuantity(cash, price); qty <= ledger.Epsilon {
					break
				}
			}
			var rec ledger.TradeRecord
			rec, err = led.Execute(ledger.Order{
				Instrument: in.Instrument,
				Side:       ledger.Buy,
				Quantity:   qty,
				Price:      price,
				Time:       ts,
			})
			if err == nil {
				logFill(log, i, rec)
			}
		case SignalSell:
			if pos, ok := led.Position(in.Instrument); ok && pos.Quantity > 0 {
				var rec ledger.TradeRecord
				rec, err = led.Execute(ledger.Order{
					Instrument: in.Instrument,
					Side:       ledger.Sell,
					Quantity:   pos.Quantity,
					Price:      price,
					Time:       ts,
				})
				if err == nil {
					logFill(log, i, rec)
				}
			}
		case SignalHold:
		default:
			err = fmt.Errorf("signal %d: %w", sig, ErrUnknownSignal)
		}

		if err != nil {
			res.Rejections = append(res.Rejections, Rejection{Bar: i, Signal: in.Signals[i], Err: err})
			log.Debug("signal rejected",
				logger.IntField("bar", i),
				logger.IntField("signal", in.Signals[i]),
				logger.FloatField("price", price),
				logger.ErrorField(err))
		}

		res.EquityCurve = append(res.EquityCurve, led.TotalValue())
	}

	if n := len(in.Times); n > 0 {
		res.Times = append([]time.Time(nil), in.Times...)
		res.Start, res.End = in.Times[0], in.Times[n-1]
	}
	res.Metrics = analytics.Calculate(res.EquityCurve, e.riskFreeRate)
	res.Trades = led.Trades()
	res.Positions = led.Positions()
	res.FinalCash = led.Cash()
	res.RealizedPnL = led.RealizedPnL()

	log.Info("backtest complete",
		logger.IntField("bars", len(res.EquityCurve)),
		logger.IntField("trades", len(res.Trades)),
		logger.IntField("rejections", len(res.Rejections)),
		logger.StringField("cost_policy", led.CostPolicy().Name()),
		logger.FloatField("total_return", res.Metrics.TotalReturn))

	return res, nil
}

// BuyAllQuantity is the largest quantity whose cost at price does not exceed
// cash. It is 0 when cash or price is not positive.
func BuyAllQuantity(cash, price float64) float64 {
	if !(cash > 0) || !(price > 0) || math.IsInf(price, 0) {
		return 0
	}
	qty := cash / price
	for qty > 0 && qty*price > cash {
		qty = math.Nextafter(qty, 0)
	}
	return qty
}

func logFill(log *logger.Logger, bar int, rec ledger.TradeRecord) {
	log.Debug("order filled",
		logger.IntField("bar", bar),
		logger.StringField("side", rec.Side.String()),
		logger.FloatField("quantity", rec.Quantity),
		logger.FloatField("notional", rec.Notional()))
}
