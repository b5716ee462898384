package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/san-kum/netmesh/internal/config"
)

// FileSource reads and writes the config as a local JSON file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) String() string { return s.Path }

func (s *FileSource) Load(ctx context.Context) (config.Patch, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Patch{}, ErrNotFound
	}
	if err != nil {
		return config.Patch{}, err
	}
	p, err := config.ParsePatch(data)
	if err != nil {
		return config.Patch{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return p, nil
}

func (s *FileSource) Save(ctx context.Context, cfg config.Config) error {
	if err := WriteConfigFile(s.Path, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// WriteConfigFile writes cfg as 4-space indented JSON, replacing path
// atomically.
func WriteConfigFile(path string, cfg config.Config) error {
	data, err := cfg.MarshalIndent()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
