package entity

import (
	"fmt"
	"math"
	"sort"

	"github.com/milk9111/hedgehog/ecs"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/prefabs"
)

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":           addPlayerTag,
	"player":               addPlayer,
	"input":                addInput,
	"player_state_machine": addPlayerStateMachine,
	"transform":            addTransform,
	"safe_respawn":         addSafeRespawn,
	"physics_body":         addPhysicsBody,
	"animation":            addAnimation,
	"pickup":               addPickup,
}

// Components that read others (safe_respawn reads transform) come later.
var componentBuildOrder = []string{
	"player_tag",
	"player",
	"input",
	"player_state_machine",
	"transform",
	"safe_respawn",
	"physics_body",
	"animation",
	"pickup",
}

// BuildEntity creates an entity from a prefab. On any failure the partial
// entity is destroyed.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
		}
	}
	extra := make([]string, 0)
	for name := range remaining {
		if _, ok := componentRegistry[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, remaining[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

// SetEntityTransform moves e and, when it has one, its respawn point.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return err
	}
	if safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind()); ok {
		safe.X = x
		safe.Y = y
	}
	return nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	if spec.BaseSpeed <= 0 || spec.JumpSpeed <= 0 {
		return fmt.Errorf("player spec needs base_speed and jump_speed")
	}
	if spec.BoostSpeed <= 0 {
		spec.BoostSpeed = spec.BaseSpeed
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		BaseSpeed:  spec.BaseSpeed,
		BoostSpeed: spec.BoostSpeed,
		JumpSpeed:  spec.JumpSpeed,
		MaxJumps:   1,
		Speed:      spec.BaseSpeed,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.PlayerInputComponent.Kind(), &component.PlayerInput{})
}

func addPlayerStateMachine(w *ecs.World, e ecs.Entity, _ any) error {
	return ecs.Add(w, e, component.PlayerStateMachineComponent.Kind(), &component.PlayerStateMachine{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:      spec.X,
		Y:      spec.Y,
		ScaleX: spec.ScaleX,
		ScaleY: spec.ScaleY,
	})
}

func addSafeRespawn(w *ecs.World, e ecs.Entity, _ any) error {
	safe := &component.SafeRespawn{}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		safe.X = t.X
		safe.Y = t.Y
	}
	return ecs.Add(w, e, component.SafeRespawnComponent.Kind(), safe)
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.DefaultWidth <= 0 {
		spec.DefaultWidth = 32
	}
	if spec.DefaultHeight <= 0 {
		spec.DefaultHeight = 32
	}

	width := spec.Width
	height := spec.Height
	if width == 0 {
		width = spec.DefaultWidth
	}
	if height == 0 {
		height = spec.DefaultHeight
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:              width,
		Height:             height,
		OffsetX:            spec.OffsetX,
		OffsetY:            spec.OffsetY,
		Gravity:            spec.Gravity,
		Static:             spec.Static,
		CollideWorldBounds: spec.CollideWorldBounds,
	})
}

type animationSpec = prefabs.AnimationComponentSpec

func addAnimation(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[animationSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}

	defs := make(map[string]component.AnimationDef, len(spec.Defs))
	for name, def := range spec.Defs {
		if def.FrameCount <= 0 {
			return fmt.Errorf("animation %q has no frames", name)
		}
		sheet := def.Sheet
		if sheet == "" {
			sheet = name
		}
		defs[name] = component.AnimationDef{
			Name:       name,
			Sheet:      sheet,
			ColStart:   def.ColStart,
			FrameCount: def.FrameCount,
			FrameW:     def.FrameW,
			FrameH:     def.FrameH,
			FPS:        def.FPS,
			Loop:       def.Loop,
		}
	}
	if _, ok := defs[spec.Current]; spec.Current != "" && !ok {
		return fmt.Errorf("animation %q is not defined", spec.Current)
	}

	playing := true
	if spec.Playing != nil {
		playing = *spec.Playing
	}

	return ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{
		Defs:    defs,
		Current: spec.Current,
		Playing: playing,
	})
}

type pickupSpec = prefabs.PickupComponentSpec

func addPickup(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[pickupSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pickup spec: %w", err)
	}
	if spec.Kind == "" {
		return fmt.Errorf("pickup spec needs a kind")
	}
	speed := 0.0
	if spec.PulsePeriod > 0 {
		speed = 2 * math.Pi / spec.PulsePeriod
	}
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	return ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
		Kind:            spec.Kind,
		CollisionWidth:  spec.CollisionWidth,
		CollisionHeight: spec.CollisionHeight,
		Scale:           scale,
		PulseMin:        spec.PulseMin,
		PulseMax:        spec.PulseMax,
		PulseSpeed:      speed,
	})
}
