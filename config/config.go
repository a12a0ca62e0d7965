package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradeops/recon"
)

// Config is the complete reconciliation configuration. Every engine receives
// it at construction; there is no process-wide mutable state.
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Recon    ReconConfig    `json:"recon" yaml:"recon"`
}

// DatabaseConfig locates the SQLite reconciliation database.
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// DataConfig locates the raw feed files to load.
type DataConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// ReconConfig holds comparison tolerances, severity thresholds and the
// resolved-flag policy.
type ReconConfig struct {
	PriceTolerance    float64 `json:"price_tolerance" yaml:"price_tolerance"`
	FeeTolerance      float64 `json:"fee_tolerance" yaml:"fee_tolerance"`
	CashTolerance     float64 `json:"cash_tolerance" yaml:"cash_tolerance"`
	PositionTolerance int64   `json:"position_tolerance" yaml:"position_tolerance"`

	// Notional severity bands, in account currency.
	CriticalThreshold float64 `json:"critical_threshold" yaml:"critical_threshold"`
	HighThreshold     float64 `json:"high_threshold" yaml:"high_threshold"`
	MediumThreshold   float64 `json:"medium_threshold" yaml:"medium_threshold"`

	// Position severity bands, in share units.
	PositionCritical int64 `json:"position_critical" yaml:"position_critical"`
	PositionHigh     int64 `json:"position_high" yaml:"position_high"`
	PositionMedium   int64 `json:"position_medium" yaml:"position_medium"`

	// PreserveResolved carries analyst-resolved flags forward across re-runs
	// for breaks that reappear with the same (trade_id, break_type). The
	// default false resets every break to unresolved on each recompute.
	PreserveResolved bool `json:"preserve_resolved" yaml:"preserve_resolved"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Recon.PriceTolerance < 0 {
		return fmt.Errorf("recon.price_tolerance must not be negative")
	}
	if c.Recon.FeeTolerance < 0 {
		return fmt.Errorf("recon.fee_tolerance must not be negative")
	}
	if c.Recon.CashTolerance < 0 {
		return fmt.Errorf("recon.cash_tolerance must not be negative")
	}
	if c.Recon.PositionTolerance < 0 {
		return fmt.Errorf("recon.position_tolerance must not be negative")
	}
	if c.Recon.CriticalThreshold < c.Recon.HighThreshold ||
		c.Recon.HighThreshold < c.Recon.MediumThreshold ||
		c.Recon.MediumThreshold <= 0 {
		return fmt.Errorf("recon thresholds must satisfy critical >= high >= medium > 0")
	}
	if c.Recon.PositionCritical < c.Recon.PositionHigh ||
		c.Recon.PositionHigh < c.Recon.PositionMedium ||
		c.Recon.PositionMedium <= 0 {
		return fmt.Errorf("recon position thresholds must satisfy critical >= high >= medium > 0")
	}
	return nil
}

// Tolerances converts the configured slops for the recon engines.
func (c *Config) Tolerances() recon.Tolerances {
	return recon.Tolerances{
		Price:    decimal.NewFromFloat(c.Recon.PriceTolerance),
		Fee:      decimal.NewFromFloat(c.Recon.FeeTolerance),
		Cash:     decimal.NewFromFloat(c.Recon.CashTolerance),
		Position: c.Recon.PositionTolerance,
	}
}

// Thresholds converts the configured severity bands.
func (c *Config) Thresholds() recon.Thresholds {
	return recon.Thresholds{
		Critical:         decimal.NewFromFloat(c.Recon.CriticalThreshold),
		High:             decimal.NewFromFloat(c.Recon.HighThreshold),
		Medium:           decimal.NewFromFloat(c.Recon.MediumThreshold),
		PositionCritical: c.Recon.PositionCritical,
		PositionHigh:     c.Recon.PositionHigh,
		PositionMedium:   c.Recon.PositionMedium,
	}
}

// Default returns a configuration with the documented default tolerances and
// severity bands.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./tradeops.sqlite",
		},
		Data: DataConfig{
			Dir: "./data/raw",
		},
		Recon: ReconConfig{
			PriceTolerance:    0.001,
			FeeTolerance:      0.01,
			CashTolerance:     0.01,
			PositionTolerance: 0,
			CriticalThreshold: 10000,
			HighThreshold:     1000,
			MediumThreshold:   100,
			PositionCritical:  1000,
			PositionHigh:      100,
			PositionMedium:    10,
		},
	}
}
