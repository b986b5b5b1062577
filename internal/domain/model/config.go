package model

import "time"

const (
	DefaultBaseURL    = "https://iot.quasar.yandex.ru"
	DefaultTimeout    = 30 * time.Second
	DefaultExportPath = "iot_export.yaml"
)

type Config struct {
	BaseURL    string        `json:"base_url"`
	Cookie     string        `json:"cookie"`     // opaque session credential
	CSRFToken  string        `json:"csrf_token"` // opaque anti-forgery token
	Timeout    time.Duration `json:"timeout"`
	ExportPath string        `json:"export_path"`
	LogLevel   string        `json:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		ExportPath: DefaultExportPath,
		LogLevel:   "info",
	}
}

// ApplyDefaults fills every empty field from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.ExportPath == "" {
		c.ExportPath = d.ExportPath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

func (c *Config) HasCredentials() bool {
	return c.Cookie != "" && c.CSRFToken != ""
}
