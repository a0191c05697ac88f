// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Collection policy: bounds the engine enforces on every mint
//   - Node settings: runtime configuration for the daemon
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds daemon runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// RPC server
	RPC RPCConfig

	// Keystore
	Keystore KeystoreConfig

	// Collection policy
	Policy PolicyConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled    bool     `conf:"rpc.enabled"`
	Addr       string   `conf:"rpc.addr"`
	Port       int      `conf:"rpc.port"`
	AllowedIPs []string `conf:"rpc.allowed"`
}

// KeystoreConfig holds owner keystore settings.
type KeystoreConfig struct {
	FilePath string `conf:"keystore.file"`
}

// PolicyConfig bounds the content fields of every mint. These are
// operator policy, not engine invariants, so they live in config.
type PolicyConfig struct {
	MinURLLength         int    `conf:"policy.url_min"`
	MaxURLLength         int    `conf:"policy.url_max"`
	MaxTitleLength       int    `conf:"policy.title_max"`
	MaxDescriptionLength int    `conf:"policy.description_max"`
	IssueFee             uint64 `conf:"policy.issue_fee"` // Native units, platform-fixed.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.datamint
//	macOS:   ~/Library/Application Support/Datamint
//	Windows: %APPDATA%\Datamint
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".datamint"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Datamint")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Datamint")
		}
		return filepath.Join(home, "AppData", "Roaming", "Datamint")
	default:
		return filepath.Join(home, ".datamint")
	}
}

// ChainDataDir returns the network-specific data directory.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystorePath returns the owner keystore file path, defaulting into the
// network data directory when not configured.
func (c *Config) KeystorePath() string {
	if c.Keystore.FilePath != "" {
		return c.Keystore.FilePath
	}
	return KeystorePathFor(c.DataDir, string(c.Network))
}

// KeystorePathFor returns the default keystore path for a data
// directory and network, matching the daemon's layout.
func KeystorePathFor(dataDir, network string) string {
	return filepath.Join(dataDir, network, "owner.key")
}
