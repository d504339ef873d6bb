package config

import (
	"fmt"
	"os"

	"tradeledger/hashtree"
	"tradeledger/logging"
	t "tradeledger/types"

	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Miner struct {
		BatchSize  int `yaml:"batch_size"`
		Difficulty int `yaml:"difficulty"`
	} `yaml:"miner"`

	Trader struct {
		Strict bool `yaml:"strict"`
		Relay  bool `yaml:"relay"`
	} `yaml:"trader"`

	Transaction struct {
		Fee t.Amount `yaml:"fee"`
	} `yaml:"transaction"`
}

func Default() *Config {
	var cfg Config
	cfg.Log.Level = "info"
	cfg.Miner.BatchSize = 1
	cfg.Miner.Difficulty = 1
	cfg.Trader.Strict = true
	cfg.Trader.Relay = true
	cfg.Transaction.Fee = t.DefaultFee
	return &cfg
}

// LoadConfig reads filename over the defaults, so a file only needs the keys
// it changes.
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Miner.BatchSize < 1 {
		return fmt.Errorf("miner.batch_size must be at least 1, got %d", c.Miner.BatchSize)
	}
	if c.Miner.Difficulty < 0 || c.Miner.Difficulty > hashtree.HashSize {
		return fmt.Errorf("miner.difficulty must be within 0..%d, got %d", hashtree.HashSize, c.Miner.Difficulty)
	}
	return nil
}
