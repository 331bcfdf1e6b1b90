package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Manager handles loading configuration from file, environment, and defaults.
type Manager struct {
	config *Config
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	// Defaults are registered per leaf key: a config file that sets only
	// some keys in a section must not shadow the rest of that section.
	defaults := DefaultConfig()
	viper.SetDefault("scan.extensions", defaults.Scan.Extensions)
	viper.SetDefault("scan.recursive", defaults.Scan.Recursive)
	viper.SetDefault("scan.context_before", defaults.Scan.ContextBefore)
	viper.SetDefault("scan.context_after", defaults.Scan.ContextAfter)
	viper.SetDefault("output.dir", defaults.Output.Dir)
	viper.SetDefault("output.summary", defaults.Output.Summary)
	viper.SetDefault("output.csv", defaults.Output.CSV)
	viper.SetDefault("extract.pdftotext_bin", defaults.Extract.PdftotextBin)
	viper.SetDefault("extract.workers", defaults.Extract.Workers)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// Environment variables with PARSE_PDFS_ prefix
	viper.SetEnvPrefix("PARSE_PDFS")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if homeDir != "" {
			viper.AddConfigPath(homeDir)
		}
		viper.AddConfigPath("$HOME/.parse-pdfs")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration.
func (cm *Manager) Get() *Config {
	return cm.config
}
