package telemetry

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// LogSink writes every event to a logger.
type LogSink struct {
	Logger *log.Logger
	Level  log.Level
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{Logger: logger, Level: log.InfoLevel}
}

func (s *LogSink) HandleEvent(evt GameplayEvent) error {
	if s == nil || s.Logger == nil {
		return nil
	}
	keyvals := make([]any, 0, 2+2*len(evt.Properties))
	keyvals = append(keyvals, "id", evt.ID.String())
	keys := make([]string, 0, len(evt.Properties))
	for k := range evt.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		keyvals = append(keyvals, k, evt.Properties[k])
	}
	s.Logger.Log(s.Level, evt.Name, keyvals...)
	return nil
}

// Recorder keeps the most recent events in memory, oldest first.
type Recorder struct {
	mu     sync.Mutex
	limit  int
	events []GameplayEvent
}

// NewRecorder keeps at most limit events; limit <= 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) HandleEvent(evt GameplayEvent) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = slices.Clone(r.events[len(r.events)-r.limit:])
	}
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []GameplayEvent {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	return names
}

func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
