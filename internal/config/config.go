// Package config resolves the runtime configuration from the stored config
// file, a .env file and the process environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigPath = "config.json"

// Env holds the settings read from the environment.
type Env struct {
	BaseURL    string        `mapstructure:"IOT_BASE_URL"`
	Cookie     string        `mapstructure:"IOT_COOKIE"`
	CSRFToken  string        `mapstructure:"IOT_CSRF_TOKEN"`
	Timeout    time.Duration `mapstructure:"IOT_TIMEOUT"`
	ExportPath string        `mapstructure:"IOT_EXPORT_PATH"`
	LogLevel   string        `mapstructure:"LOG_LEVEL"`
	ConfigPath string        `mapstructure:"CONFIG_PATH"`
}

// LoadEnv reads dotenv files (".env" when none are given) and then the
// process environment. Variables already set in the process win over the
// files. Missing files are ignored.
func LoadEnv(files ...string) (*Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("CONFIG_PATH", DefaultConfigPath)

	return &Env{
		BaseURL:    v.GetString("IOT_BASE_URL"),
		Cookie:     v.GetString("IOT_COOKIE"),
		CSRFToken:  v.GetString("IOT_CSRF_TOKEN"),
		Timeout:    v.GetDuration("IOT_TIMEOUT"),
		ExportPath: v.GetString("IOT_EXPORT_PATH"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		ConfigPath: v.GetString("CONFIG_PATH"),
	}, nil
}

// Resolve loads the stored config and fills every field still at its empty
// or default value from env. Credentials taken from env are saved back.
func Resolve(ctx context.Context, repo ports.ConfigRepository, env *Env) (*model.Config, error) {
	cfg, err := repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	defaults := model.DefaultConfig()

	if env.BaseURL != "" && cfg.BaseURL == defaults.BaseURL {
		cfg.BaseURL = env.BaseURL
	}
	if env.Timeout > 0 && cfg.Timeout == defaults.Timeout {
		cfg.Timeout = env.Timeout
	}
	if env.ExportPath != "" && cfg.ExportPath == defaults.ExportPath {
		cfg.ExportPath = env.ExportPath
	}
	if env.LogLevel != "" && cfg.LogLevel == defaults.LogLevel {
		cfg.LogLevel = env.LogLevel
	}

	fromEnv := false
	if cfg.Cookie == "" && env.Cookie != "" {
		cfg.Cookie = env.Cookie
		fromEnv = true
	}
	if cfg.CSRFToken == "" && env.CSRFToken != "" {
		cfg.CSRFToken = env.CSRFToken
		fromEnv = true
	}
	if fromEnv {
		if err := repo.Save(ctx, cfg); err != nil {
			return nil, fmt.Errorf("save config: %w", err)
		}
	}
	return cfg, nil
}
