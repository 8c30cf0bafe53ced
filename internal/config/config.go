package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"funnelboard/internal/errors"
)

// DefaultDatasetFile is read when EXCEL_FILE is unset
const DefaultDatasetFile = "./sample 2024.xlsx"

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Log    LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host    string
	Port    string
	GinMode string
}

// Addr is the host:port the server listens on
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DataConfig holds dataset settings
type DataConfig struct {
	ExcelFile string
	Sheet     string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: *loadServerConfig(),
		Data:   *loadDataConfig(),
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:    getEnvOrDefault("HOST", "0.0.0.0"),
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		ExcelFile: getEnvOrDefault("EXCEL_FILE", DefaultDatasetFile),
		Sheet:     getEnvOrDefault("EXCEL_SHEET", ""),
	}
}

func validateConfig(config *Config) error {
	port, err := strconv.Atoi(config.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid("PORT must be a number between 1 and 65535, got " + strconv.Quote(config.Server.Port))
	}
	if strings.TrimSpace(config.Data.ExcelFile) == "" {
		return errors.ConfigInvalid("EXCEL_FILE is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
