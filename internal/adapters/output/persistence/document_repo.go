package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/ports"

	"github.com/spf13/afero"
)

// FileDocumentRepository keeps export documents as files. Relative names
// resolve against dir.
type FileDocumentRepository struct {
	fs  afero.Fs
	dir string
}

var _ ports.DocumentRepository = (*FileDocumentRepository)(nil)

func NewFileDocumentRepository(fs afero.Fs, dir string) *FileDocumentRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileDocumentRepository{fs: fs, dir: dir}
}

func (r *FileDocumentRepository) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := afero.ReadFile(r.fs, r.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, name)
	}
	return data, err
}

func (r *FileDocumentRepository) Write(ctx context.Context, name string, data []byte) error {
	p := r.path(name)
	if err := r.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(r.fs, p, data, 0o644)
}

func (r *FileDocumentRepository) path(name string) string {
	if filepath.IsAbs(name) || r.dir == "" {
		return name
	}
	return filepath.Join(r.dir, name)
}
