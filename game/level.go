package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/ecs/entity"
	"github.com/milk9111/hedgehog/ecs/system"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/levels"
)

// Level is one live instance of a level. Restarting builds a new Level.
type Level struct {
	def    *levels.Level
	world  *ecs.World
	sched  *ecs.Scheduler
	player ecs.Entity
}

func NewLevel(def *levels.Level, startedAt time.Time) (*Level, error) {
	if def == nil {
		return nil, fmt.Errorf("game: new level: no level definition")
	}
	w := ecs.NewWorld()
	player, err := entity.LoadLevelToWorld(w, def, startedAt)
	if err != nil {
		return nil, fmt.Errorf("game: new level: %w", err)
	}
	return &Level{def: def, world: w, sched: system.NewLevelScheduler(), player: player}, nil
}

// Step runs one frame and returns the frame's events in emission order.
func (l *Level) Step(f *ecs.Frame) []ecs.Event {
	if l == nil || f == nil {
		return nil
	}
	l.sched.Update(l.world, f)
	return l.world.Events().Drain()
}

func (l *Level) World() *ecs.World {
	if l == nil {
		return nil
	}
	return l.world
}

func (l *Level) Player() ecs.Entity {
	if l == nil {
		return 0
	}
	return l.player
}

func (l *Level) Number() int {
	if l == nil || l.def == nil {
		return 0
	}
	return l.def.Number
}

// Completed reports whether every collectible has been collected.
func (l *Level) Completed() bool {
	c := l.counter()
	return c != nil && c.Completed
}

// ApplyPlayerTuning reloads the player prefab into the running level.
func (l *Level) ApplyPlayerTuning() error {
	if l == nil {
		return ErrNotStarted
	}
	return entity.ReloadPlayerTuning(l.world, l.player)
}

func (l *Level) counter() *component.ScoreCounter {
	if l == nil {
		return nil
	}
	e, ok := ecs.First(l.world, component.ScoreCounterComponent.Kind())
	if !ok {
		return nil
	}
	c, _ := ecs.Get(l.world, e, component.ScoreCounterComponent.Kind())
	return c
}

func (l *Level) info() *component.LevelInfo {
	e, ok := ecs.First(l.world, component.LevelInfoComponent.Kind())
	if !ok {
		return nil
	}
	info, _ := ecs.Get(l.world, e, component.LevelInfoComponent.Kind())
	return info
}

// PlatformView is a platform box in screen space.
type PlatformView struct {
	Bounds cp.BB
	Ground bool
}

// PickupView is a live collectible.
type PickupView struct {
	X, Y  float64
	Scale float64
	Kind  string
}

// PlayerView is what the host needs to draw the player.
type PlayerView struct {
	X, Y       float64
	Velocity   cp.Vector
	Body       cp.BB
	FacingLeft bool
	OnGround   bool
	JumpCount  int
	MaxJumps   int
	Skin       flags.Skin
	State      string
	Animation  string
	Sheet      string
	Frame      int
	FrameW     int
	FrameH     int
}

// Snapshot is a read-only copy of the render state.
type Snapshot struct {
	Level          int
	Width          float64
	Height         float64
	Platforms      []PlatformView
	Pickups        []PickupView
	Player         PlayerView
	Collected      int
	Total          int
	ScoreText      string
	Completed      bool
	ElapsedSeconds int
}

func (l *Level) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{Width: common.ScreenWidth, Height: common.ScreenHeight}
	if l == nil {
		return snap
	}
	snap.Level = l.def.Number
	snap.Width, snap.Height = l.def.Width, l.def.Height

	ecs.ForEach2(l.world, component.PlatformComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Platform, t *component.Transform) {
		body, ok := ecs.Get(l.world, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			return
		}
		snap.Platforms = append(snap.Platforms, PlatformView{Bounds: body.Bounds(t), Ground: p.Ground})
	})
	sort.Slice(snap.Platforms, func(i, j int) bool {
		a, b := snap.Platforms[i].Bounds, snap.Platforms[j].Bounds
		if a.B != b.B {
			return a.B < b.B
		}
		return a.L < b.L
	})

	ecs.ForEach2(l.world, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Pickup, t *component.Transform) {
		if p.Collected {
			return
		}
		snap.Pickups = append(snap.Pickups, PickupView{X: t.X, Y: t.Y, Scale: p.Scale, Kind: p.Kind})
	})
	sort.Slice(snap.Pickups, func(i, j int) bool {
		if snap.Pickups[i].Y != snap.Pickups[j].Y {
			return snap.Pickups[i].Y < snap.Pickups[j].Y
		}
		return snap.Pickups[i].X < snap.Pickups[j].X
	})

	snap.Player = l.playerView()

	if c := l.counter(); c != nil {
		snap.Collected = c.Collected
		snap.Total = c.Total
		snap.ScoreText = c.RenderedText
		if snap.ScoreText == "" {
			snap.ScoreText = c.Text()
		}
		snap.Completed = c.Completed
	}
	if info := l.info(); info != nil {
		snap.ElapsedSeconds = info.ElapsedSeconds(now)
	}
	return snap
}

func (l *Level) playerView() PlayerView {
	var v PlayerView
	w, e := l.world, l.player
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		v.X, v.Y = t.X, t.Y
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			v.Velocity = body.Velocity
			v.Body = body.Bounds(t)
		}
	}
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		v.FacingLeft = p.FacingLeft
		v.OnGround = p.OnGround
		v.JumpCount = p.JumpCount
		v.MaxJumps = p.MaxJumps
		v.Skin = p.Skin
	}
	if fsm, ok := ecs.Get(w, e, component.PlayerStateMachineComponent.Kind()); ok && fsm.State != nil {
		v.State = fsm.State.Name()
	}
	if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		v.Animation = anim.Current
		v.Frame = anim.Frame
		if def, ok := anim.Defs[anim.Current]; ok {
			v.Sheet = def.Sheet
			v.Frame += def.ColStart
			v.FrameW, v.FrameH = def.FrameW, def.FrameH
		}
	}
	return v
}
