package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Response is the flag endpoint body.
type Response struct {
	DistinctID   string         `json:"distinctId"`
	FeatureFlags map[string]any `json:"featureFlags"`
}

// HTTPSource polls the flag endpoint and publishes each answer.
type HTTPSource struct {
	URL      string
	Interval time.Duration
	Client   *http.Client
	Store    *Store
	Logger   *log.Logger

	mu         sync.Mutex
	distinctID string
}

// NewHTTPSource creates a poller for url.
func NewHTTPSource(url string, interval time.Duration, store *Store, logger *log.Logger) *HTTPSource {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &HTTPSource{
		URL:      url,
		Interval: interval,
		Client:   &http.Client{Timeout: 5 * time.Second},
		Store:    store,
		Logger:   logger,
	}
}

// DistinctID returns the id the endpoint assigned on the last fetch.
func (s *HTTPSource) DistinctID() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinctID
}

// Fetch performs one request and publishes the result. The distinct id is
// echoed back as a cookie so the endpoint keeps assignments stable.
func (s *HTTPSource) Fetch(ctx context.Context) (Config, error) {
	if s == nil {
		return Defaults(), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Defaults(), fmt.Errorf("flags: build request: %w", err)
	}
	if id := s.DistinctID(); id != "" {
		req.AddCookie(&http.Cookie{Name: DistinctIDCookie, Value: id})
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return Defaults(), fmt.Errorf("flags: fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Defaults(), fmt.Errorf("flags: fetch %s: status %d", s.URL, resp.StatusCode)
	}

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Defaults(), fmt.Errorf("flags: decode response: %w", err)
	}
	if body.DistinctID != "" {
		s.mu.Lock()
		s.distinctID = body.DistinctID
		s.mu.Unlock()
	}
	cfg := FromValues(body.FeatureFlags)
	s.Store.Replace(cfg)
	return cfg, nil
}

// Run fetches immediately and then on every interval until ctx is done.
// Failures keep the last published configuration.
func (s *HTTPSource) Run(ctx context.Context) {
	if s == nil {
		return
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		if _, err := s.Fetch(ctx); err != nil && ctx.Err() == nil {
			s.Logger.Warn("flag poll failed", "url", s.URL, "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
