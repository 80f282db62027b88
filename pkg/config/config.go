// Package config loads the YAML configuration document shared by dalictl
// and dalid: log level, which USB vendor/product to match, the product-info
// cache endpoint, and the metrics exporter bind address.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	Adapter AdapterConfig `yaml:"adapter"`

	ProductInfo ProductInfoConfig `yaml:"product_info"`

	Metrics MetricsConfig `yaml:"metrics"`
}

type AdapterConfig struct {
	// VendorID and ProductID default to the Tridonic-style bridge's real
	// values (0x17B5/0x0020) when zero. They key the adapter registry
	// entry; vendorhid.Discover itself matches only 0x17B5/0x0020, so a
	// different pair does not find or open a clone adapter.
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
}

type ProductInfoConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns a Config with the real bridge identity and a disabled
// product-info lookup, suitable when no config file is supplied.
func Default() Config {
	return Config{
		LogLevel: "info",
		Adapter:  AdapterConfig{VendorID: 0x17b5, ProductID: 0x0020},
		Metrics:  MetricsConfig{Enabled: true, ListenAddr: ":9129"},
	}
}

// Load reads and parses a YAML config file at path, filling in defaults for
// any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.Adapter.VendorID == 0 {
		cfg.Adapter.VendorID = 0x17b5
	}
	if cfg.Adapter.ProductID == 0 {
		cfg.Adapter.ProductID = 0x0020
	}
	return cfg, nil
}
