package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backtester/strategies"
)

const DateLayout = "2006-01-02"

// Config represents the complete backtest configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

type AccountConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital" validate:"gt=0"`
}

// BacktestConfig names the data and the run window.
type BacktestConfig struct {
	Instrument   string  `json:"instrument" yaml:"instrument" validate:"required"`
	DataFile     string  `json:"data_file" yaml:"data_file" validate:"required"`
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate" validate:"gte=0,lt=1"`
	Concurrency  int     `json:"concurrency" yaml:"concurrency" validate:"gte=0"`
	From         string  `json:"from,omitempty" yaml:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To           string  `json:"to,omitempty" yaml:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// StrategyConfig selects a signal generator. Zero parameters use the
// generator's defaults.
type StrategyConfig struct {
	Name       string  `json:"name" yaml:"name" validate:"required"`
	Fast       int     `json:"fast,omitempty" yaml:"fast,omitempty" validate:"gte=0"`
	Slow       int     `json:"slow,omitempty" yaml:"slow,omitempty" validate:"gte=0"`
	Period     int     `json:"period,omitempty" yaml:"period,omitempty" validate:"gte=0"`
	Oversold   float64 `json:"oversold,omitempty" yaml:"oversold,omitempty" validate:"gte=0,lte=100"`
	Overbought float64 `json:"overbought,omitempty" yaml:"overbought,omitempty" validate:"gte=0,lte=100"`
	Width      float64 `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`

	// UseFileSignals replays the data file's signal column instead of Name.
	UseFileSignals bool `json:"use_file_signals,omitempty" yaml:"use_file_signals,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type" validate:"oneof=none csv sqlite"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ReportConfig lists optional report outputs; empty paths are skipped.
type ReportConfig struct {
	OrgPath   string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
	EquityPNG string `json:"equity_png,omitempty" yaml:"equity_png,omitempty"`
}

type LogConfig struct {
	Level    string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `json:"encoding" yaml:"encoding" validate:"oneof=console json"`
}

// Params converts the strategy section for strategies.ByName.
func (s StrategyConfig) Params() strategies.Params {
	return strategies.Params{
		Fast:       s.Fast,
		Slow:       s.Slow,
		Period:     s.Period,
		Oversold:   s.Oversold,
		Overbought: s.Overbought,
		Width:      s.Width,
	}
}

// Window parses From and To. Unset bounds are zero.
func (b BacktestConfig) Window() (from, to time.Time, err error) {
	if b.From != "" {
		if from, err = time.Parse(DateLayout, b.From); err != nil {
			return from, to, fmt.Errorf("backtest.from: %w", err)
		}
	}
	if b.To != "" {
		if to, err = time.Parse(DateLayout, b.To); err != nil {
			return from, to, fmt.Errorf("backtest.to: %w", err)
		}
	}
	return from, to, nil
}

// LoadFromFile loads configuration from a file, YAML first with JSON as fallback.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report yaml names (account.initial_capital) rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldError(verrs[0])
		}
		return err
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	}

	from, to, err := c.Backtest.Window()
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return fmt.Errorf("backtest.to must be after backtest.from")
	}

	if !c.Strategy.UseFileSignals {
		if _, err := strategies.ByName(c.Strategy.Name, c.Strategy.Params()); err != nil {
			return fmt.Errorf("strategy: %w", err)
		}
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.account.initial_capital"
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "lt":
		return fmt.Errorf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", field, fe.Param())
	case "datetime":
		return fmt.Errorf("%s must be a %s date", field, fe.Param())
	}
	return fmt.Errorf("%s failed %s validation", field, fe.Tag())
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCapital: 10000,
		},
		Backtest: BacktestConfig{
			Instrument:   "SPY",
			DataFile:     "./data/SPY.csv",
			RiskFreeRate: 0.02,
			Concurrency:  4,
		},
		Strategy: StrategyConfig{
			Name: "sma-cross",
			Fast: 10,
			Slow: 30,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtests.db",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}
