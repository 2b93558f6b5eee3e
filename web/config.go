package web

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full marksight service configuration.
type Config struct {
	Listen        string `yaml:"listen"`
	UploadDir     string `yaml:"upload_dir"`
	MaxFileMB     int    `yaml:"max_file_mb"`
	EventsDB      string `yaml:"events_db"`
	RetentionDays int    `yaml:"retention_days"`
	LogLevel      string `yaml:"log_level"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:        ":8090",
		UploadDir:     "uploads",
		MaxFileMB:     25,
		EventsDB:      "db/events.db",
		RetentionDays: 90,
		LogLevel:      "info",
	}
}

// LoadConfig reads and parses a YAML config file, merged over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	return nil
}

// MaxFileBytes returns the upload cap in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }
