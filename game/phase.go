// Package game runs one play session: boot, the level, completion and
// restart, with gameplay events delivered to the telemetry bus.
package game

import "errors"

// Phase is the session's simulation phase.
type Phase int

const (
	PhaseBooting Phase = iota
	PhasePlaying
	PhaseLevelComplete
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseBooting:
		return "booting"
	case PhasePlaying:
		return "playing"
	case PhaseLevelComplete:
		return "level_complete"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

var (
	ErrDestroyed  = errors.New("game: session destroyed")
	ErrNotStarted = errors.New("game: session not started")
	ErrStarted    = errors.New("game: session already started")
)
