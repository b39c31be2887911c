package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configFileName = "manday_planner.yaml"

// Config represents the application configuration.
type Config struct {
	// OutputDir is where result workbooks and audit-trail logs are written.
	OutputDir string `yaml:"outputDir" validate:"required"`

	// ListenAddr is the HTTP server bind address for the serve command.
	ListenAddr string `yaml:"listenAddr,omitempty"`

	// DatabaseURL enables run-history persistence when set. An empty value
	// disables the store entirely; planning never depends on it.
	DatabaseURL string `yaml:"databaseURL,omitempty"`

	// Workbook sheet positions for the two input tables.
	ParamsSheetIndex   int `yaml:"paramsSheetIndex" validate:"min=0"`
	UniverseSheetIndex int `yaml:"universeSheetIndex" validate:"min=0"`

	// CORSAllowedOrigins for the HTTP API. Empty means allow all.
	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists:
// artifacts under generated_files/, parameters on the first sheet, the
// audit universe on the second.
func Default() *Config {
	return &Config{
		OutputDir:          "generated_files",
		ListenAddr:         ":8000",
		ParamsSheetIndex:   0,
		UniverseSheetIndex: 1,
	}
}

// Load loads and validates the configuration from manday_planner.yaml,
// looking in the current directory first and then the user's home
// directory. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration struct and the cross-field constraints
// the struct tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.ParamsSheetIndex == cfg.UniverseSheetIndex {
		return fmt.Errorf("config validation failed: paramsSheetIndex and universeSheetIndex must differ")
	}

	return nil
}

// findConfigFile searches for manday_planner.yaml in the current directory
// and the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
