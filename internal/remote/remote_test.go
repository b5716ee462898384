package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/netmesh/internal/config"
)

func TestHTTPSourceLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ConfigPath {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"lineColor":"#ABCDEF","interactionType":"wave"}`))
	}))
	defer srv.Close()

	p, err := NewHTTPSource(srv.URL+"/", 0).Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	cfg := config.DefaultConfig().Merge(p)
	if cfg.LineColor != "#ABCDEF" || cfg.InteractionType != "wave" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.InteractionRadius != 150 {
		t.Error("absent fields should keep defaults")
	}
}

func TestHTTPSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 0).Load(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPSourceLoadMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	if _, err := NewHTTPSource(srv.URL, 0).Load(context.Background()); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestHTTPSourceSave(t *testing.T) {
	var got config.Config
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != SavePath {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(SaveResponse{Success: true, Message: "ok"})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.GridDensity = 25
	if err := NewHTTPSource(srv.URL, 0).Save(context.Background(), cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got != cfg {
		t.Errorf("server received %+v", got)
	}
}

func TestHTTPSourceSaveFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"success false", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SaveResponse{Success: false, Message: "disk full"})
		}},
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SaveResponse{Success: false, Message: "bad"})
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			err := NewHTTPSource(srv.URL, 0).Save(context.Background(), config.DefaultConfig())
			if !errors.Is(err, ErrSaveFailed) {
				t.Errorf("expected ErrSaveFailed, got %v", err)
			}
		})
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPSource(url, 0).Save(context.Background(), config.DefaultConfig())
	if !errors.Is(err, ErrSaveFailed) {
		t.Errorf("expected ErrSaveFailed, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	src := NewFileSource(path)

	if _, err := src.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.LineColor = "#123456"
	if err := src.Save(context.Background(), cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    \"lineColor\": \"#123456\"") {
		t.Errorf("expected 4-space indent, got:\n%s", data)
	}

	p, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if config.DefaultConfig().Merge(p) != cfg {
		t.Error("file round trip changed the config")
	}
}

func TestFromSettings(t *testing.T) {
	if _, ok := FromSettings(config.SourceSettings{URL: "http://x"}).(*HTTPSource); !ok {
		t.Error("url should select the http source")
	}
	if s, ok := FromSettings(config.SourceSettings{}).(*FileSource); !ok || s.Path != config.DefaultConfigFile {
		t.Error("empty settings should select the default file")
	}
}
