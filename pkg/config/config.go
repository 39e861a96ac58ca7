// Package config loads the YAML configuration used by the cmd/vset CLI
// to parameterize an index without a long flag list.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liliang-cn/vset/pkg/hnsw"
)

// Config is the on-disk configuration for an index-backed command.
type Config struct {
	Dimension      int    `yaml:"dimension"`
	Quantization   string `yaml:"quantization"` // "none", "q8", or "bin"
	M              int    `yaml:"m"`
	EfConstruction int    `yaml:"ef_construction"`
	EfSearch       int    `yaml:"ef_search"`
	ReaderSlots    int    `yaml:"reader_slots"`
	AllowOverwrite bool   `yaml:"allow_overwrite"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultConfig returns the configuration new indexes use absent an
// on-disk override.
func DefaultConfig() Config {
	return Config{
		Dimension:      128,
		Quantization:    "none",
		M:              hnsw.DefaultM,
		EfConstruction: hnsw.DefaultEfConstruction,
		EfSearch:       hnsw.DefaultEfSearch,
		ReaderSlots:    hnsw.DefaultReaderSlots,
		LogLevel:       "info",
	}
}

// Load reads and parses a YAML config file, filling any unset fields
// from DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// QuantizationMode resolves the configured quantization mode name to its
// hnsw.Quantization constant.
func (c Config) QuantizationMode() (hnsw.Quantization, error) {
	switch c.Quantization {
	case "", "none":
		return hnsw.QuantNone, nil
	case "q8":
		return hnsw.QuantQ8, nil
	case "bin":
		return hnsw.QuantBin, nil
	default:
		return 0, fmt.Errorf("config: unknown quantization mode %q", c.Quantization)
	}
}

// NewIndex builds an hnsw.Index from the configuration.
func (c Config) NewIndex() (*hnsw.Index, error) {
	mode, err := c.QuantizationMode()
	if err != nil {
		return nil, err
	}
	idx := hnsw.NewIndex(c.Dimension, mode)
	if c.M > 0 {
		idx = idx.WithM(c.M)
	}
	if c.EfConstruction > 0 {
		idx = idx.WithEfConstruction(c.EfConstruction)
	}
	if c.ReaderSlots > 0 {
		idx = idx.WithReaderSlots(c.ReaderSlots)
	}
	if c.AllowOverwrite {
		idx = idx.WithAllowOverwrite(true)
	}
	return idx, nil
}
