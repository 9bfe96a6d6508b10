// Package config loads FGStudy settings from .env, config.yaml and
// FGSTUDY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/fgstudy/internal/llm"
	"github.com/abhisek/fgstudy/internal/validate"
)

// Config holds application configuration.
type Config struct {
	Env    string     `mapstructure:"env"`     // local, production
	DBPath string     `mapstructure:"db_path"` // empty selects store.DefaultDBPath
	LLM    llm.Config `mapstructure:"llm"`
	Server Server     `mapstructure:"server"`
	Quiz   Quiz       `mapstructure:"quiz"`
	Log    Log        `mapstructure:"log"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `mapstructure:"addr"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"` // idle quiz sessions are evicted after this
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// Quiz holds quiz defaults.
type Quiz struct {
	DefaultQuestions int `mapstructure:"default_questions"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // empty logs to stderr
}

// Load reads .env (if present), then config.yaml from configFile or the
// standard search path, then environment variables. Missing files are not
// an error.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "fgstudy"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix("FGSTUDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("env", "local")
	v.SetDefault("db_path", "")

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", 2*time.Hour)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("quiz.default_questions", validate.DefaultQuestions)

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
}

// bindEnv maps the FGSTUDY_* variables and the providers' own key
// variables onto config keys. The first non-empty variable wins.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("env", "FGSTUDY_ENV", "APP_ENV")
	_ = v.BindEnv("db_path", "FGSTUDY_DB")
	_ = v.BindEnv("llm.provider", "FGSTUDY_LLM_PROVIDER")
	_ = v.BindEnv("llm.gemini.api_key", "FGSTUDY_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("llm.gemini.model", "FGSTUDY_GEMINI_MODEL")
	_ = v.BindEnv("llm.openai.api_key", "FGSTUDY_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.openai.model", "FGSTUDY_OPENAI_MODEL")
	_ = v.BindEnv("llm.openai.base_url", "FGSTUDY_OPENAI_BASE_URL")
	_ = v.BindEnv("llm.anthropic.api_key", "FGSTUDY_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.anthropic.model", "FGSTUDY_ANTHROPIC_MODEL")
	_ = v.BindEnv("llm.anthropic.base_url", "FGSTUDY_ANTHROPIC_BASE_URL")
	_ = v.BindEnv("llm.openrouter.api_key", "FGSTUDY_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("llm.openrouter.model", "FGSTUDY_OPENROUTER_MODEL")
	_ = v.BindEnv("llm.openrouter.base_url", "FGSTUDY_OPENROUTER_BASE_URL")
	_ = v.BindEnv("server.addr", "FGSTUDY_ADDR")
}

func (c *Config) validate() error {
	q := c.Quiz.DefaultQuestions
	if q < validate.MinQuestions || q > validate.MaxQuestions {
		return fmt.Errorf("quiz.default_questions must be between %d and %d, got %d",
			validate.MinQuestions, validate.MaxQuestions, q)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	return nil
}

// ResolveLLM returns the configured LLM settings when the selected provider
// has a key. Otherwise it falls back to the first provider whose standard
// key variable is set, keeping the configured retry and timeout settings.
func (c *Config) ResolveLLM() (llm.Config, error) {
	err := c.LLM.Validate()
	if err == nil {
		return c.LLM, nil
	}
	discovered, ok := llm.DiscoverConfig()
	if !ok {
		return llm.Config{}, err
	}
	discovered.Retry = c.LLM.Retry
	discovered.Timeout = c.LLM.Timeout
	return discovered, nil
}
