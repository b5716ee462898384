package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/san-kum/netmesh/internal/config"
)

const (
	ConfigPath = "/config.json"
	SavePath   = "/api/save-config"
)

// HTTPSource talks to the persistence endpoint at BaseURL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: defaultTimeout(timeout)},
	}
}

func (s *HTTPSource) String() string { return s.BaseURL }

func (s *HTTPSource) Load(ctx context.Context) (config.Patch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+ConfigPath, nil)
	if err != nil {
		return config.Patch{}, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return config.Patch{}, fmt.Errorf("fetch config: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return config.Patch{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return config.Patch{}, fmt.Errorf("fetch config: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return config.Patch{}, fmt.Errorf("read config: %w", err)
	}
	p, err := config.ParsePatch(data)
	if err != nil {
		return config.Patch{}, fmt.Errorf("decode config: %w", err)
	}
	return p, nil
}

func (s *HTTPSource) Save(ctx context.Context, cfg config.Config) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+SavePath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	defer resp.Body.Close()

	var out SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %s", ErrSaveFailed, resp.Status)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return fmt.Errorf("%w: %s", ErrSaveFailed, out.Message)
	}
	return nil
}
