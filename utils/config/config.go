// Package config loads the chainforge environment file: provider API
// keys for the backend registry, and the HTTP server settings.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Verbose and Debug are set once from the CLI flags before any command
// runs.
var (
	Verbose bool
	Debug   bool

	logMu sync.Mutex
)

// VerboseLog prints when --verbose is set.
func VerboseLog(format string, args ...interface{}) {
	if Verbose {
		logMu.Lock()
		defer logMu.Unlock()
		log.Printf("[INFO] "+format+"\n", args...)
	}
}

// DebugLog prints when --debug is set.
func DebugLog(format string, args ...interface{}) {
	if Debug {
		logMu.Lock()
		defer logMu.Unlock()
		log.Printf("[DEBUG] "+format+"\n", args...)
	}
}

// ProviderConfig holds the credentials for one backend provider.
type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

// EnvConfig is the on-disk environment configuration.
type EnvConfig struct {
	Providers map[string]*ProviderConfig `yaml:"providers"`
	Server    *ServerConfig              `yaml:"server,omitempty"`
}

// GetProviderConfig returns the configuration for a provider, or nil.
func (c *EnvConfig) GetProviderConfig(name string) *ProviderConfig {
	if c == nil || c.Providers == nil {
		return nil
	}
	return c.Providers[name]
}

// GetServerConfig returns the server block, filled with defaults when
// the file omits it.
func (c *EnvConfig) GetServerConfig() *ServerConfig {
	if c != nil && c.Server != nil {
		return c.Server
	}
	return DefaultServerConfig()
}

// GetEnvPath returns the environment file path: $CHAINFORGE_ENV when
// set, otherwise ~/.chainforge/config.yaml.
func GetEnvPath() string {
	if path := os.Getenv("CHAINFORGE_ENV"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chainforge.yaml"
	}
	return filepath.Join(home, ".chainforge", "config.yaml")
}

// LoadEnvConfig reads the environment file. A missing file yields an
// empty configuration rather than an error so that first runs work.
func LoadEnvConfig(path string) (*EnvConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &EnvConfig{Providers: map[string]*ProviderConfig{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg EnvConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = map[string]*ProviderConfig{}
	}
	return &cfg, nil
}

// SaveEnvConfig writes the environment file, creating its directory.
func SaveEnvConfig(path string, cfg *EnvConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
