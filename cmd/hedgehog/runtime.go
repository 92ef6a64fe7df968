package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hedgehog/assets"
	"github.com/milk9111/hedgehog/config"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/prefabs"
	"github.com/milk9111/hedgehog/telemetry"
)

// startFlags builds the flag store and starts the configured source. The
// returned distinct id is empty unless the flag endpoint handed one out.
func startFlags(ctx context.Context, s config.Settings, logger *log.Logger) (*flags.Store, string) {
	store := flags.NewStore(flags.Defaults())
	switch {
	case s.FlagsURL != "":
		src := flags.NewHTTPSource(s.FlagsURL, s.FlagsInterval, store, logger)
		first, cancel := context.WithTimeout(ctx, 3*time.Second)
		if _, err := src.Fetch(first); err != nil {
			logger.Warn("flag endpoint unavailable, using defaults", "url", s.FlagsURL, "error", err)
		}
		cancel()
		go src.Run(ctx)
		return store, src.DistinctID()
	case s.FlagsFile != "":
		src := flags.NewFileSource(s.FlagsFile, store, logger)
		if err := src.Load(); err != nil {
			logger.Warn("flag file unreadable, using defaults", "path", s.FlagsFile, "error", err)
		}
		go func() {
			if err := src.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("flag file watch stopped", "path", s.FlagsFile, "error", err)
			}
		}()
	}
	return store, ""
}

// newLoader reads sheets from AssetsDir when set and draws placeholders for
// anything missing.
func newLoader(s config.Settings) (assets.Loader, error) {
	spec, err := prefabs.LoadSkinsSpec()
	if err != nil {
		return nil, err
	}
	var chain assets.Chain
	if s.AssetsDir != "" {
		chain = append(chain, assets.NewFSLoader(os.DirFS(s.AssetsDir), spec))
	}
	return append(chain, assets.NewPlaceholder(spec)), nil
}

// sinks are the bus subscribers a running game feeds.
type sinks struct {
	recorder  *telemetry.Recorder
	hub       *telemetry.Hub
	collector *telemetry.Collector

	server        *http.Server
	collectorDone chan struct{}
	logger        *log.Logger
	once          sync.Once
}

// attachSinks subscribes the log sink, the recorder, the websocket hub and
// the analytics collector to every event on bus.
func attachSinks(ctx context.Context, bus *telemetry.Bus, s config.Settings, distinctID string, logger *log.Logger) (*sinks, error) {
	collector, err := telemetry.OpenCollector(telemetry.CollectorOptions{
		Endpoint:   s.AnalyticsHost,
		APIKey:     s.AnalyticsKey,
		DBPath:     s.OutboxPath,
		DistinctID: distinctID,
		Interval:   s.FlushInterval,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	k := &sinks{
		recorder:      telemetry.NewRecorder(100),
		collector:     collector,
		collectorDone: make(chan struct{}),
		logger:        logger,
	}

	logSink := telemetry.NewLogSink(logger)
	logSink.Level = log.DebugLevel
	bus.Subscribe(telemetry.AllEvents, logSink)
	bus.Subscribe(telemetry.AllEvents, k.recorder)
	bus.Subscribe(telemetry.AllEvents, collector)

	if s.EventsAddr != "" {
		k.hub = telemetry.NewHub(telemetry.HubOptions{Logger: logger})
		bus.Subscribe(telemetry.AllEvents, k.hub)

		mux := http.NewServeMux()
		mux.Handle("/events", k.hub)
		k.server = &http.Server{Addr: s.EventsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("streaming events", "addr", s.EventsAddr, "path", "/events")
			if err := k.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("event stream server failed", "error", err)
			}
		}()
	}

	go func() {
		defer close(k.collectorDone)
		collector.Run(ctx)
	}()
	return k, nil
}

// Close stops the event server and waits for the collector's final flush.
// The context passed to attachSinks must already be canceled.
func (k *sinks) Close() {
	if k == nil {
		return
	}
	k.once.Do(func() {
		if k.server != nil {
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := k.server.Shutdown(shutdown); err != nil {
				k.logger.Warn("event stream shutdown", "error", err)
			}
			cancel()
		}
		k.hub.Close()
		<-k.collectorDone
		if err := k.collector.Close(); err != nil {
			k.logger.Warn("close analytics outbox", "error", err)
		}
	})
}
