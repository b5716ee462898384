// Package remote loads and saves the mesh config from where it is
// persisted: the HTTP persistence endpoint or a local JSON file.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/san-kum/netmesh/internal/config"
)

var (
	ErrNotFound   = errors.New("remote: config not found")
	ErrSaveFailed = errors.New("remote: save failed")
)

// Source is a place the mesh config lives. Load may return a partial patch;
// callers merge it over their defaults.
type Source interface {
	Load(ctx context.Context) (config.Patch, error)
	Save(ctx context.Context, cfg config.Config) error
	String() string
}

// SaveResponse is the body of the save endpoint's reply.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FromSettings picks an HTTP source when a URL is configured and a file
// source otherwise.
func FromSettings(s config.SourceSettings) Source {
	if s.URL != "" {
		return NewHTTPSource(s.URL, s.Timeout)
	}
	path := s.File
	if path == "" {
		path = config.DefaultConfigFile
	}
	return NewFileSource(path)
}

func defaultTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return config.DefaultClientTimeout
	}
	return d
}
