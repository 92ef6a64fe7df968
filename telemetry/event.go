// Package telemetry carries gameplay events from the simulation to whoever
// listens: the in-process bus, a log sink, a live websocket feed and the
// batching analytics collector.
package telemetry

import (
	"crypto/rand"
	"maps"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// GameplayEvent is one telemetry record. IDs sort in emission order.
type GameplayEvent struct {
	ID         ulid.ULID      `json:"id"`
	Name       string         `json:"event"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a ULID for the given time. Safe for concurrent use.
func NewID(at time.Time) ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at), entropy)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond; fall back
		// to a fresh random id.
		return ulid.MustNew(ulid.Timestamp(at), rand.Reader)
	}
	return id
}

// NewEvent stamps a new event. props is copied.
func NewEvent(name string, props map[string]any, at time.Time) GameplayEvent {
	p := maps.Clone(props)
	if p == nil {
		p = map[string]any{}
	}
	return GameplayEvent{
		ID:         NewID(at),
		Name:       name,
		Properties: p,
		Timestamp:  at,
	}
}

// Prop returns a property value, or nil.
func (e GameplayEvent) Prop(key string) any {
	if e.Properties == nil {
		return nil
	}
	return e.Properties[key]
}
