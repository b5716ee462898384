package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/netmesh/internal/config"
)

var (
	ErrMalformed = errors.New("storage: malformed config file")
	ErrNoExports = errors.New("storage: no exported configs")
)

const exportPrefix = "config_"

// Store reads and writes exported config files in one directory.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Filename is the export name for t: config_YYYY-MM-DDTHH-MM-SS.json in UTC.
func Filename(t time.Time) string {
	return exportPrefix + t.UTC().Format("2006-01-02T15-04-05") + ".json"
}

// Encode writes cfg as JSON indented with four spaces.
func Encode(w io.Writer, cfg config.Config) error {
	data, err := cfg.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Export writes cfg to a new timestamped file and returns its path.
func (s *Store) Export(cfg config.Config) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, Filename(s.now()))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Encode(f, cfg); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// List returns exported files in the store, oldest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	files := make([]string, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, exportPrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		files = append(files, filepath.Join(s.baseDir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Latest returns the path of the newest export.
func (s *Store) Latest() (string, error) {
	files, err := s.List()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoExports, s.baseDir)
	}
	return files[len(files)-1], nil
}

// Decode parses an exported or hand-written config document into a patch.
func Decode(r io.Reader) (config.Patch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config.Patch{}, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return config.Patch{}, ErrMalformed
	}
	p, err := config.ParsePatch(data)
	if err != nil {
		return config.Patch{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return p, nil
}

// Import merges the document in r over current. On any error current is
// returned unchanged.
func Import(r io.Reader, current config.Config) (config.Config, error) {
	p, err := Decode(r)
	if err != nil {
		return current, err
	}
	next := current.Merge(p)
	if err := next.Validate(); err != nil {
		return current, err
	}
	return next, nil
}

// Load reads an exported file as a complete config, filling gaps with
// defaults.
func (s *Store) Load(name string) (config.Config, error) {
	path := name
	if !filepath.IsAbs(name) && filepath.Dir(name) == "." {
		path = filepath.Join(s.baseDir, name)
	}
	var cfg config.Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Import(bytes.NewReader(data), config.DefaultConfig())
}
