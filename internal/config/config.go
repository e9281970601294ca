// Package config loads MasterReview settings from a YAML file, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/llm"
	"github.com/abhisek/masterreview/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. MASTERREVIEW_LLM_PROVIDER.
const EnvPrefix = "MASTERREVIEW"

const appDir = "masterreview"

// Config holds the complete application configuration.
type Config struct {
	LLM     llm.Config     `mapstructure:"llm"`
	Lessons lessons.Config `mapstructure:"lessons"`
	Log     LogConfig      `mapstructure:"log"`
	Storage StorageConfig  `mapstructure:"storage"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// File receives log output. The TUI owns the terminal, so logs never go
	// to stdout or stderr.
	File string `mapstructure:"file"`
}

// StorageConfig locates persistent data.
type StorageConfig struct {
	// DB overrides the database path. Empty uses store.DefaultDBPath.
	DB                  string `mapstructure:"db"`
	VisualsDir          string `mapstructure:"visuals_dir"`
	PrefetchConcurrency int    `mapstructure:"prefetch_concurrency"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM:     llm.DefaultConfig(),
		Lessons: lessons.DefaultConfig(),
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(stateHome(), appDir, appDir+".log"),
		},
		Storage: StorageConfig{
			VisualsDir:          filepath.Join(dataHome(), appDir, "visuals"),
			PrefetchConcurrency: 3,
		},
	}
}

// DBPath resolves the database location.
func (c *Config) DBPath() (string, error) {
	if c.Storage.DB != "" {
		return c.Storage.DB, nil
	}
	return store.DefaultDBPath()
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(configHome(), appDir, "config.yaml")
}

// Load reads configuration from path, or the default location when path is
// empty. A missing file is not an error. When the selected provider has no
// API key, the standard vendor environment variables are probed.
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if !cfg.LLM.HasKey() {
		if found, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = found
		}
	}
	return &cfg, nil
}

// Settings returns the effective settings as a nested map with API keys
// redacted.
func Settings(path string) (map[string]any, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	for _, key := range v.AllKeys() {
		if strings.HasSuffix(key, "api_key") && v.GetString(key) != "" {
			v.Set(key, "********")
		}
	}
	return v.AllSettings(), nil
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = DefaultPath()
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

// setDefaults registers every key so env overrides resolve without a file.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout.String())
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.gemini.lookup_model", d.LLM.Gemini.LookupModel)
	v.SetDefault("llm.gemini.image_model", d.LLM.Gemini.ImageModel)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.LLM.Anthropic.Model)
	v.SetDefault("llm.anthropic.lookup_model", d.LLM.Anthropic.LookupModel)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.openai.lookup_model", d.LLM.OpenAI.LookupModel)
	v.SetDefault("llm.openai.base_url", d.LLM.OpenAI.BaseURL)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.LLM.OpenRouter.Model)
	v.SetDefault("llm.openrouter.lookup_model", d.LLM.OpenRouter.LookupModel)
	v.SetDefault("llm.openrouter.base_url", d.LLM.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait.String())
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait.String())
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)

	v.SetDefault("lessons.max_tokens", d.Lessons.MaxTokens)
	v.SetDefault("lessons.temperature", d.Lessons.Temperature)
	v.SetDefault("lessons.thinking_budget", d.Lessons.ThinkingBudget)
	v.SetDefault("lessons.lookup_thinking_budget", d.Lessons.LookupThinkingBudget)
	v.SetDefault("lessons.lookup_max_tokens", d.Lessons.LookupMaxTokens)
	v.SetDefault("lessons.recap_max_tokens", d.Lessons.RecapMaxTokens)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("storage.db", d.Storage.DB)
	v.SetDefault("storage.visuals_dir", d.Storage.VisualsDir)
	v.SetDefault("storage.prefetch_concurrency", d.Storage.PrefetchConcurrency)
}

func configHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func dataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

func stateHome() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
