// Package flagapi serves per-player feature flag values over HTTP.
package flagapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/milk9111/hedgehog/flags"
)

const (
	Path         = "/api/flags"
	cookieMaxAge = 60 * 60 * 24 * 365
)

// Evaluator decides the flag values for one distinct id.
type Evaluator interface {
	Evaluate(ctx context.Context, distinctID string) (flags.Config, error)
}

type Options struct {
	// Rules may be nil, in which case every caller gets the defaults under
	// a throwaway id.
	Rules   Evaluator
	Timeout time.Duration
	Logger  *log.Logger
	NewID   func() string
}

type Handler struct {
	rules   Evaluator
	timeout time.Duration
	logger  *log.Logger
	newID   func() string
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Handler{rules: opts.Rules, timeout: timeout, logger: logger, newID: newID}
}

// Routes mounts the handler on a fresh mux.
func Routes(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.rules == nil {
		h.write(w, flags.Response{DistinctID: h.newID(), FeatureFlags: flags.Defaults().Values()})
		return
	}

	existing := ""
	if c, err := r.Cookie(flags.DistinctIDCookie); err == nil {
		existing = c.Value
	}
	id := existing
	if id == "" {
		id = h.newID()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	cfg, err := h.rules.Evaluate(ctx, id)
	if err != nil {
		h.logger.Error("flag evaluation failed", "error", err)
		h.write(w, flags.Response{DistinctID: h.newID(), FeatureFlags: flags.Defaults().Values()})
		return
	}

	if existing == "" {
		http.SetCookie(w, &http.Cookie{
			Name:     flags.DistinctIDCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   cookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	h.write(w, flags.Response{DistinctID: id, FeatureFlags: cfg.Values()})
}

func (h *Handler) write(w http.ResponseWriter, body flags.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write flag response", "error", err)
	}
}
