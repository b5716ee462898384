package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/san-kum/netmesh/internal/bus"
	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/preset"
	"github.com/san-kum/netmesh/internal/remote"
)

const maxBodyBytes = 1 << 20

type Options struct {
	ConfigFile string
	Presets    *preset.Registry
	Bus        *bus.Bus
	Branding   config.Branding
	Logger     *slog.Logger
}

// Server serves and persists one config file.
type Server struct {
	configFile string
	presets    *preset.Registry
	bus        *bus.Bus
	branding   config.Branding
	logger     *slog.Logger

	// serialises writes to configFile
	mu sync.Mutex
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ConfigFile == "" {
		opts.ConfigFile = config.DefaultConfigFile
	}
	if opts.Presets == nil {
		opts.Presets = preset.NewRegistry(nil, logger)
	}
	if opts.Bus == nil {
		opts.Bus = bus.New(logger)
	}
	return &Server{
		configFile: opts.ConfigFile,
		presets:    opts.Presets,
		bus:        opts.Bus,
		branding:   opts.Branding,
		logger:     logger,
	}
}

// Handler returns the routed handler wrapped in recovery, CORS and request
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+remote.ConfigPath, s.GetConfig)
	mux.HandleFunc("POST "+remote.SavePath, s.SaveConfig)
	mux.HandleFunc("GET /api/presets", s.ListPresets)
	mux.HandleFunc("POST /api/presets", s.SavePreset)
	mux.HandleFunc("DELETE /api/presets/{name}", s.DeletePreset)
	mux.HandleFunc("POST /api/presets/{name}/apply", s.ApplyPreset)
	mux.HandleFunc("GET /api/templates", s.ListTemplates)
	mux.HandleFunc("POST /api/message", s.RelayMessage)
	mux.HandleFunc("OPTIONS /", s.Preflight)

	return Chain(mux, s.Recover, CORS, s.Logger)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "config", s.configFile)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// GetConfig serves the saved config file verbatim.
// GET /config.json
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.configFile)
	if errors.Is(err, fs.ErrNotExist) {
		s.writeError(w, "config not found", s.configFile, http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, "failed to read config", err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(data)
}

// SaveConfig validates the posted config and writes it to disk. Fields
// missing from the body take their default values.
// POST /api/save-config
func (s *Server) SaveConfig(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeSave(w, false, fmt.Sprintf("Error: %v", err), http.StatusBadRequest)
		return
	}
	p, err := config.ParsePatch(data)
	if err != nil {
		s.writeSave(w, false, fmt.Sprintf("Error: %v", err), http.StatusBadRequest)
		return
	}
	cfg := config.DefaultConfig().Merge(p)
	if err := cfg.Validate(); err != nil {
		s.writeSave(w, false, fmt.Sprintf("Error: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err = remote.WriteConfigFile(s.configFile, cfg)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("save config failed", "path", s.configFile, "err", err)
		s.writeSave(w, false, fmt.Sprintf("Error: %v", err), http.StatusInternalServerError)
		return
	}

	s.logger.Info("config saved", "path", s.configFile)
	s.bus.Publish(bus.Message{Type: bus.ConfigChanged, Source: "api"})
	s.writeSave(w, true, "Config saved to "+filepath.Base(s.configFile), http.StatusOK)
}

// ListPresets returns built-ins followed by user presets.
// GET /api/presets
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := s.presets.List(r.Context())
	if err != nil {
		s.writeError(w, "failed to list presets", err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]any{"presets": list}, http.StatusOK)
}

type savePresetRequest struct {
	Name   string        `json:"name"`
	Config config.Config `json:"config"`
}

// SavePreset stores a user preset.
// POST /api/presets
func (s *Server) SavePreset(w http.ResponseWriter, r *http.Request) {
	var req savePresetRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, "invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	err := s.presets.Save(r.Context(), req.Name, req.Config)
	switch {
	case errors.Is(err, preset.ErrBuiltin):
		s.writeError(w, "built-in presets are read-only", req.Name, http.StatusConflict)
	case err != nil:
		s.writeError(w, "failed to save preset", err.Error(), http.StatusBadRequest)
	default:
		s.writeJSON(w, map[string]any{"name": req.Name}, http.StatusCreated)
	}
}

// DeletePreset removes a user preset. The confirm query parameter must
// repeat the name.
// DELETE /api/presets/{name}
func (s *Server) DeletePreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := s.presets.Delete(r.Context(), name, r.URL.Query().Get("confirm"))
	switch {
	case errors.Is(err, preset.ErrBuiltin):
		s.writeError(w, "built-in presets cannot be deleted", name, http.StatusConflict)
	case errors.Is(err, preset.ErrNotConfirmed):
		s.writeError(w, "deletion not confirmed", name, http.StatusPreconditionFailed)
	case errors.Is(err, preset.ErrNotFound):
		s.writeError(w, "preset not found", name, http.StatusNotFound)
	case err != nil:
		s.writeError(w, "failed to delete preset", err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// ApplyPreset merges a preset over the saved config and persists the
// result. A missing config file starts from defaults.
// POST /api/presets/{name}/apply
func (s *Server) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readConfig()
	if err != nil {
		s.writeError(w, "failed to read config", err.Error(), http.StatusInternalServerError)
		return
	}
	next, err := s.presets.Apply(r.Context(), name, current)
	switch {
	case errors.Is(err, preset.ErrNotFound):
		s.writeError(w, "preset not found", name, http.StatusNotFound)
		return
	case err != nil:
		s.writeError(w, "failed to apply preset", err.Error(), http.StatusInternalServerError)
		return
	}
	if err := next.Validate(); err != nil {
		s.writeError(w, "preset produces an invalid config", err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := remote.WriteConfigFile(s.configFile, next); err != nil {
		s.logger.Error("save config failed", "path", s.configFile, "err", err)
		s.writeError(w, "failed to save config", err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Info("preset applied", "name", name, "path", s.configFile)
	s.bus.Publish(bus.Message{Type: bus.ConfigChanged, Source: "api"})
	s.writeJSON(w, next, http.StatusOK)
}

// readConfig loads the saved config over defaults. Callers hold s.mu.
func (s *Server) readConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	data, err := os.ReadFile(s.configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	p, err := config.ParsePatch(data)
	if err != nil {
		return cfg, err
	}
	return cfg.Merge(p), nil
}

type templateResponse struct {
	Key            string        `json:"key"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Network        config.Config `json:"network"`
	NetworkOpacity float64       `json:"networkOpacity"`
}

// ListTemplates returns every template with branding colours applied.
// GET /api/templates
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]templateResponse, 0, len(config.Templates))
	for _, t := range config.Templates {
		out = append(out, templateResponse{
			Key:            t.Key,
			Name:           t.Name,
			Description:    t.Description,
			Network:        t.Network.Merge(t.Patch(s.branding)),
			NetworkOpacity: t.NetworkOpacity,
		})
	}
	s.writeJSON(w, map[string]any{"templates": out}, http.StatusOK)
}

// RelayMessage publishes the posted message on the bus.
// POST /api/message
func (s *Server) RelayMessage(w http.ResponseWriter, r *http.Request) {
	var m bus.Message
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&m); err != nil {
		s.writeError(w, "invalid message", err.Error(), http.StatusBadRequest)
		return
	}
	switch m.Type {
	case bus.CloseAll, bus.ConfigChanged, bus.Notice:
	case bus.ChangeTemplate:
		if _, err := config.GetTemplate(m.Template); err != nil {
			s.writeError(w, "unknown template", m.Template, http.StatusBadRequest)
			return
		}
	default:
		s.writeError(w, "unknown message type", string(m.Type), http.StatusBadRequest)
		return
	}
	if m.Source == "" {
		m.Source = "http"
	}
	s.bus.Publish(m)
	w.WriteHeader(http.StatusAccepted)
}

// Preflight answers CORS preflight requests.
func (s *Server) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ErrorResponse is the body of every non-save error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message, details string, status int) {
	s.writeJSON(w, ErrorResponse{Error: message, Details: details}, status)
}

func (s *Server) writeSave(w http.ResponseWriter, ok bool, message string, status int) {
	s.writeJSON(w, remote.SaveResponse{Success: ok, Message: message}, status)
}
