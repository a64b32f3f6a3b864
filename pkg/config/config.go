package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the server and the CLI
type Config struct {
	Port              string        `yaml:"port"`
	GinMode           string        `yaml:"gin_mode"`
	GeminiAPIKey      string        `yaml:"-"`
	GeminiModel       string        `yaml:"gemini_model"`
	GenerationTimeout time.Duration `yaml:"generation_timeout"`
	DatabaseURL       string        `yaml:"-"`
	DataPath          string        `yaml:"data_path"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	LogFile           string        `yaml:"log_file"`
	SessionSecret     string        `yaml:"-"`
	SessionMaxIdle    time.Duration `yaml:"session_max_idle"`
	DefaultLang       string        `yaml:"default_lang"`
	AdvisoryChecks    bool          `yaml:"advisory_checks"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:              "8000",
		GeminiModel:       "gemini-2.5-flash",
		GenerationTimeout: 120 * time.Second,
		DataPath:          "usage.db",
		LogLevel:          "info",
		LogFormat:         "json",
		SessionMaxIdle:    12 * time.Hour,
		DefaultLang:       "en",
	}
}

// LoadDotEnv loads the first .env found in the working directory or its
// parents. Variables already set in the environment are kept.
func LoadDotEnv() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.GeminiAPIKey, "API_KEY")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.DataPath, "DATA_PATH")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.LogFile, "LOG_FILE")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.DefaultLang, "DEFAULT_LANG")

	if err := setDuration(&cfg.GenerationTimeout, "GENERATION_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.SessionMaxIdle, "SESSION_MAX_IDLE"); err != nil {
		return err
	}
	if v := os.Getenv("ADVISORY_CHECKS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ADVISORY_CHECKS: %w", err)
		}
		cfg.AdvisoryChecks = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
