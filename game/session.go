package game

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hedgehog/assets"
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/ecs/system"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/levels"
	"github.com/milk9111/hedgehog/telemetry"
)

type Options struct {
	// Flags is read once per frame. Nil means defaults.
	Flags  *flags.Store
	Loader assets.Loader
	// Library receives the preloaded images. One is created when nil.
	Library *assets.Library
	Bus     *telemetry.Bus
	// Level defaults to level1.json.
	Level  *levels.Level
	Now    func() time.Time
	Logger *log.Logger
}

// Session owns one game from boot to teardown. It is driven from a single
// goroutine: Start once, Tick every frame, Destroy at the end.
type Session struct {
	store   *flags.Store
	loader  assets.Loader
	library *assets.Library
	bus     *telemetry.Bus
	def     *levels.Level
	now     func() time.Time
	logger  *log.Logger

	phase          Phase
	level          *Level
	tick           uint64
	cfg            flags.Config
	restartWasDown bool
}

func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lib := opts.Library
	if lib == nil {
		lib = assets.NewLibrary()
	}
	bus := opts.Bus
	if bus == nil {
		bus = telemetry.NewBus(telemetry.BusOptions{Logger: logger, Now: now})
	}
	return &Session{
		store:   opts.Flags,
		loader:  opts.Loader,
		library: lib,
		bus:     bus,
		def:     opts.Level,
		now:     now,
		logger:  logger,
		phase:   PhaseBooting,
		cfg:     opts.Flags.Snapshot(),
	}
}

func (s *Session) Phase() Phase {
	if s == nil {
		return PhaseDestroyed
	}
	return s.phase
}

func (s *Session) Bus() *telemetry.Bus {
	if s == nil {
		return nil
	}
	return s.bus
}

func (s *Session) Library() *assets.Library {
	if s == nil {
		return nil
	}
	return s.library
}

// Level returns the running level, or nil before Start and after Destroy.
func (s *Session) Level() *Level {
	if s == nil {
		return nil
	}
	return s.level
}

// Config returns the configuration used by the last frame.
func (s *Session) Config() flags.Config {
	if s == nil {
		return flags.Defaults()
	}
	return s.cfg
}

// Start boots the session and enters the level. Asset failures are returned
// and leave the session in the booting phase.
func (s *Session) Start(ctx context.Context) ([]telemetry.GameplayEvent, error) {
	if s == nil {
		return nil, ErrNotStarted
	}
	switch s.phase {
	case PhaseDestroyed:
		return nil, ErrDestroyed
	case PhasePlaying, PhaseLevelComplete:
		return nil, ErrStarted
	}

	if s.def == nil {
		def, err := levels.LoadLevelFromFS("level1.json")
		if err != nil {
			return nil, fmt.Errorf("game: start: %w", err)
		}
		s.def = def
	}

	s.cfg = s.store.Snapshot()
	if err := Boot(ctx, s.loader, s.library, s.cfg.Skin); err != nil {
		return nil, err
	}
	s.logger.Debug("assets preloaded", "count", s.library.Len())

	return s.enterLevel()
}

// enterLevel builds a fresh level instance and moves to the playing phase.
func (s *Session) enterLevel() ([]telemetry.GameplayEvent, error) {
	now := s.now()
	lvl, err := NewLevel(s.def, now)
	if err != nil {
		return nil, err
	}
	s.level = lvl
	s.phase = PhasePlaying

	evt := telemetry.NewEvent(system.EventGameStarted, map[string]any{
		"skin":              s.cfg.Skin.String(),
		"doubleJumpEnabled": s.cfg.DoubleJumpEnabled,
		"speedBoostEnabled": s.cfg.SpeedBoostEnabled,
		"level":             lvl.Number(),
	}, now)
	s.bus.Dispatch(evt)
	return []telemetry.GameplayEvent{evt}, nil
}

// Tick advances one frame. Events raised during the frame are dispatched on
// the bus in order and returned. Once the level is complete play is frozen
// and only a restart press is handled.
func (s *Session) Tick(in component.Input) ([]telemetry.GameplayEvent, error) {
	if s == nil {
		return nil, ErrNotStarted
	}
	switch s.phase {
	case PhaseDestroyed:
		return nil, ErrDestroyed
	case PhaseBooting:
		return nil, ErrNotStarted
	}

	s.cfg = s.store.Snapshot()
	restartPressed := in.Restart && !s.restartWasDown
	s.restartWasDown = in.Restart

	if s.phase == PhaseLevelComplete {
		if restartPressed {
			return s.Restart()
		}
		return nil, nil
	}

	s.tick++
	now := s.now()
	raw := s.level.Step(&ecs.Frame{
		Tick:   s.tick,
		DT:     common.FrameDT,
		Now:    now,
		Input:  in,
		Config: s.cfg,
	})

	if s.phase == PhasePlaying && s.level.Completed() {
		s.phase = PhaseLevelComplete
	}

	events := make([]telemetry.GameplayEvent, 0, len(raw))
	for _, ev := range raw {
		events = append(events, telemetry.NewEvent(ev.Type, ev.Props, now))
	}
	s.bus.DispatchAll(events)
	return events, nil
}

// Restart discards the level and builds it again. Only valid once the level
// is complete.
func (s *Session) Restart() ([]telemetry.GameplayEvent, error) {
	if s == nil {
		return nil, ErrNotStarted
	}
	switch s.phase {
	case PhaseDestroyed:
		return nil, ErrDestroyed
	case PhaseBooting:
		return nil, ErrNotStarted
	case PhasePlaying:
		return nil, nil
	}
	s.level = nil
	return s.enterLevel()
}

// Emit publishes an event that does not come from the simulation, such as
// a flag override from the host.
func (s *Session) Emit(name string, props map[string]any) (telemetry.GameplayEvent, error) {
	if s == nil || s.phase == PhaseDestroyed {
		return telemetry.GameplayEvent{}, ErrDestroyed
	}
	evt := telemetry.NewEvent(name, props, s.now())
	s.bus.Dispatch(evt)
	return evt, nil
}

// Snapshot returns the render state of the running level.
func (s *Session) Snapshot() (Snapshot, bool) {
	if s == nil || s.level == nil {
		return Snapshot{}, false
	}
	return s.level.Snapshot(s.now()), true
}

// ApplyPlayerTuning reloads the player prefab into the running level.
func (s *Session) ApplyPlayerTuning() error {
	if s == nil || s.level == nil {
		return ErrNotStarted
	}
	return s.level.ApplyPlayerTuning()
}

// Destroy releases the level and clears the bus. Safe to call repeatedly.
func (s *Session) Destroy() {
	if s == nil || s.phase == PhaseDestroyed {
		return
	}
	s.level = nil
	s.bus.Clear()
	s.phase = PhaseDestroyed
}
