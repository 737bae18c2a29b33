// Package config loads the engine's runtime configuration from .env files,
// an optional YAML overrides file, and environment variables, following
// the same binary-relative-then-cwd lookup order the rest of the
// toolchain uses. Precedence, lowest to highest: built-in defaults, YAML
// file, environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// yamlOverrides is the subset of AppConfig a YAML file may set. Columns
// that are preprocessing knobs rather than paths, since paths are almost
// always supplied per-invocation as CLI args, not baked into a config file.
type yamlOverrides struct {
	MaxRowsAnalyzed     *int64   `yaml:"maxRowsAnalyzed"`
	MemoryThresholdMB   *float64 `yaml:"memoryThresholdMB"`
	EnableMultivariate  *bool    `yaml:"enableMultivariate"`
	EnableMermaidCharts *bool    `yaml:"enableMermaidCharts"`
	DefaultSeed         *uint32  `yaml:"defaultSeed"`
}

// loadYAMLOverrides reads path if it exists and applies its fields onto
// cfg. A missing file is not an error; a malformed one is.
func loadYAMLOverrides(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var overrides yamlOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}

	if overrides.MaxRowsAnalyzed != nil {
		cfg.MaxRowsAnalyzed = *overrides.MaxRowsAnalyzed
	}
	if overrides.MemoryThresholdMB != nil {
		cfg.MemoryThresholdMB = *overrides.MemoryThresholdMB
	}
	if overrides.EnableMultivariate != nil {
		cfg.EnableMultivariate = *overrides.EnableMultivariate
	}
	if overrides.EnableMermaidCharts != nil {
		cfg.EnableMermaidCharts = *overrides.EnableMermaidCharts
	}
	if overrides.DefaultSeed != nil {
		cfg.DefaultSeed = *overrides.DefaultSeed
	}
	return nil
}

// AppConfig holds the complete application configuration for a scan run.
type AppConfig struct {
	DataPath string
	LogDir   string
	CacheDir string

	MaxRowsAnalyzed     int64
	MemoryThresholdMB   float64
	EnableMultivariate  bool
	EnableMermaidCharts bool

	DefaultSeed uint32
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority when
	// invoked as an installed binary).
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run).
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("failed to create cache directory")
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		MaxRowsAnalyzed:     10_000_000,
		MemoryThresholdMB:   512,
		EnableMultivariate:  false,
		EnableMermaidCharts: true,
		DefaultSeed:         42,
	}

	// 3. A YAML overrides file, checked next to the binary then the
	// working directory, sits between built-in defaults and env vars.
	yamlPath := os.Getenv("CONFIG_FILE")
	if yamlPath == "" {
		yamlPath = "edascan.yaml"
	}
	if exeDir != "" {
		if err := loadYAMLOverrides(filepath.Join(exeDir, yamlPath), cfg); err != nil {
			log.Warn().Err(err).Msg("failed to parse YAML config overrides from binary directory")
		}
	}
	if err := loadYAMLOverrides(yamlPath, cfg); err != nil {
		log.Warn().Err(err).Str("path", yamlPath).Msg("failed to parse YAML config overrides")
	}

	if v, ok := os.LookupEnv("MAX_ROWS_ANALYZED"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxRowsAnalyzed = n
		}
	}
	if v, ok := os.LookupEnv("MEMORY_THRESHOLD_MB"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MemoryThresholdMB = f
		}
	}
	if v, ok := os.LookupEnv("DEFAULT_SEED"); ok {
		if s, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.DefaultSeed = uint32(s)
		}
	}
	cfg.EnableMultivariate = getEnvBool("ENABLE_MULTIVARIATE", cfg.EnableMultivariate)
	cfg.EnableMermaidCharts = getEnvBool("ENABLE_MERMAID_CHARTS", cfg.EnableMermaidCharts)

	return cfg, nil
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
