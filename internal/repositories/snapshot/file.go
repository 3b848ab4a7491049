package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

type fileRepository struct {
	path   string
	logger *zap.Logger
}

// FileConfig contains configuration for the file snapshot repository
type FileConfig struct {
	Path   string
	Logger *zap.Logger
}

// Validate validates the FileConfig
func (cfg *FileConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Path == "" {
		return errors.InvalidArgument("path cannot be empty")
	}
	if cfg.Logger == nil {
		return errors.InvalidArgument("logger cannot be nil")
	}
	return nil
}

// NewFile creates a file-backed snapshot repository. Saves write to a
// temporary file and rename it into place, so a crash mid-write never
// leaves a truncated snapshot behind.
func NewFile(cfg *FileConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &fileRepository{path: cfg.Path, logger: cfg.Logger}, nil
}

func (r *fileRepository) Load(_ context.Context) (*world.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Info("no snapshot file, starting with defaults", zap.String("path", r.path))
			return world.NewSnapshot(), nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read snapshot file")
	}

	snap := world.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		r.logger.Warn("snapshot file is malformed, starting with defaults",
			zap.String("path", r.path), zap.Error(err))
		return world.NewSnapshot(), nil
	}
	return snap, nil
}

func (r *fileRepository) Save(_ context.Context, snap *world.Snapshot) error {
	if snap == nil {
		return errors.InvalidArgument("snapshot cannot be nil")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal snapshot")
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create temp snapshot")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to close snapshot")
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to replace snapshot")
	}
	return nil
}
