package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/ports"

	"github.com/spf13/afero"
)

type JSONConfigRepository struct {
	fs       afero.Fs
	filepath string
	mu       sync.RWMutex
}

var _ ports.ConfigRepository = (*JSONConfigRepository)(nil)

// Flat camelCase layout written by earlier versions.
type legacyConfig struct {
	CSRFToken  string `json:"csrfToken2"`
	Cookie     string `json:"cookie"`
	TimeoutMs  int64  `json:"timeoutMs"`
	ExportFile string `json:"exportFile"`
}

func NewJSONConfigRepository(fs afero.Fs, filepath string) *JSONConfigRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &JSONConfigRepository{fs: fs, filepath: filepath}
}

func (r *JSONConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := afero.ReadFile(r.fs, r.filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg == (model.Config{}) {
		return r.migrate(data)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (r *JSONConfigRepository) migrate(data []byte) (*model.Config, error) {
	cfg := model.DefaultConfig()
	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return cfg, nil
	}
	cfg.CSRFToken = legacy.CSRFToken
	cfg.Cookie = legacy.Cookie
	if legacy.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(legacy.TimeoutMs) * time.Millisecond
	}
	if legacy.ExportFile != "" {
		cfg.ExportPath = legacy.ExportFile
	}
	return cfg, nil
}

func (r *JSONConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(r.filepath); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// Credentials live in this file.
	return afero.WriteFile(r.fs, r.filepath, data, 0o600)
}
