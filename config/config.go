// Package config provides configuration loading and management for tienda.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tienda configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	NATS   NATSConfig   `yaml:"nats"`
	Shop   ShopConfig   `yaml:"shop"`
	Admin  AdminConfig  `yaml:"admin"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address for the HTTP API (default: :8080)
	Addr string `yaml:"addr"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded indicates whether to use embedded NATS
	Embedded bool `yaml:"embedded"`
	// StoreDir is where the embedded server persists JetStream data
	// (empty = OS temp dir, data survives only as long as the host keeps it)
	StoreDir string `yaml:"store_dir"`
	// Bucket is the KV bucket holding all documents
	Bucket string `yaml:"bucket"`
}

// ShopConfig configures the storefront
type ShopConfig struct {
	// DefaultProductsURL is the static resource seeding the catalog.
	// Takes precedence over SeedFile when both are set.
	DefaultProductsURL string `yaml:"default_products_url"`
	// SeedFile is a local JSON file seeding the catalog
	SeedFile string `yaml:"seed_file"`
	// WatchSeed re-seeds the catalog when SeedFile changes (dev only)
	WatchSeed bool `yaml:"watch_seed"`
	// Currency is the ISO code stamped on orders (default: PEN)
	Currency string `yaml:"currency"`
}

// AdminConfig configures the admin gate
type AdminConfig struct {
	// PasswordHash is the bcrypt hash matched by the admin login.
	// Empty disables admin login entirely.
	PasswordHash string `yaml:"password_hash"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
			Bucket:   "TIENDA_DOCUMENTS",
		},
		Shop: ShopConfig{
			SeedFile: "data/products.json",
			Currency: "PEN",
		},
		Admin: AdminConfig{},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.NATS.Bucket == "" {
		return fmt.Errorf("nats.bucket is required")
	}
	if c.Shop.DefaultProductsURL == "" && c.Shop.SeedFile == "" {
		return fmt.Errorf("one of shop.default_products_url or shop.seed_file is required")
	}
	if c.Shop.Currency == "" {
		return fmt.Errorf("shop.currency is required")
	}
	if c.Shop.WatchSeed && c.Shop.SeedFile == "" {
		return fmt.Errorf("shop.watch_seed requires shop.seed_file")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	}
	if other.NATS.StoreDir != "" {
		c.NATS.StoreDir = other.NATS.StoreDir
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}

	// Shop
	if other.Shop.DefaultProductsURL != "" {
		c.Shop.DefaultProductsURL = other.Shop.DefaultProductsURL
	}
	if other.Shop.SeedFile != "" {
		c.Shop.SeedFile = other.Shop.SeedFile
	}
	if other.Shop.WatchSeed {
		c.Shop.WatchSeed = true
	}
	if other.Shop.Currency != "" {
		c.Shop.Currency = other.Shop.Currency
	}

	// Admin
	if other.Admin.PasswordHash != "" {
		c.Admin.PasswordHash = other.Admin.PasswordHash
	}
}
