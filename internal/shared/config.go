package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values read from the TOML file.
const (
	EnvDatabasePath = "AGENDA_DATABASE_PATH"
	EnvDatabaseName = "DATABASE_NAME" // legacy name, honored when AGENDA_DATABASE_PATH is unset
	EnvMaxOpenConns = "AGENDA_DATABASE_MAX_OPEN_CONNS"
	EnvLogLevel     = "AGENDA_LOG_LEVEL"
	EnvLogFile      = "AGENDA_LOG_FILE"
	EnvExportDir    = "AGENDA_EXPORT_DIR"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Export   ExportConfig   `toml:"export"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig controls the level and, for the interactive UI, the destination file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ExportConfig contains defaults for import/export paths.
type ExportConfig struct {
	Directory string `toml:"directory"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from an optional dotenv file into the process environment.
//
// A missing file is not an error. Variables already present in the environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values with any AGENDA_* variables set in the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	} else if v := os.Getenv(EnvDatabaseName); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(EnvMaxOpenConns); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvMaxOpenConns, v)
		}
		c.Database.MaxOpenConns = n
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvExportDir); v != "" {
		c.Export.Directory = v
	}

	return nil
}

// ResolveConfig builds the effective configuration: embedded defaults, then the
// TOML file at configPath if it exists, then the environment (after loading envPath).
func ResolveConfig(configPath, envPath string) (*Config, error) {
	if err := LoadEnvFile(envPath); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			loaded, err := LoadConfig(configPath)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if config.Database.Path == "" {
		return nil, fmt.Errorf("%w: database path is empty", ErrMissingConfig)
	}

	return config, nil
}
